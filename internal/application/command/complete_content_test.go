package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/content"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
)

func TestCompleteLesson_AppliesRewardAndAchievements(t *testing.T) {
	lessons := newFakeLessonRepo()
	avatars := newFakeAvatarRepo()
	seedAvatar(t, avatars, "user-1")

	lesson, err := content.NewLesson("lesson-1", "Что такое бюджет", content.CategoryBudgeting, 10, 1)
	require.NoError(t, err)
	require.NoError(t, lessons.Upsert(context.Background(), lesson))

	h := NewCompleteLessonHandler(lessons, avatars, newFakeLeaderboard(), testLogger())

	res, err := h.Handle(context.Background(), CompleteLessonCommand{
		UserID: "user-1", LessonID: "lesson-1", Score: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, res.XPEarned)
	// 10 lesson + 5 first_lesson + 5 perfect_score.
	assert.Equal(t, 20, res.Avatar.XP)
	assert.Equal(t, 1, res.Avatar.TotalLessonsCompleted)
	assert.Contains(t, res.Avatar.Achievements, avatar.AchievementFirstLesson)
	assert.Contains(t, res.Avatar.Achievements, avatar.AchievementPerfectScore)
}

func TestCompleteLesson_MissingLesson(t *testing.T) {
	avatars := newFakeAvatarRepo()
	seedAvatar(t, avatars, "user-1")

	h := NewCompleteLessonHandler(newFakeLessonRepo(), avatars, newFakeLeaderboard(), testLogger())

	_, err := h.Handle(context.Background(), CompleteLessonCommand{
		UserID: "user-1", LessonID: "nope", Score: 80,
	})

	assert.ErrorIs(t, err, shared.ErrLessonNotFound)
}

func TestCompleteLesson_InvalidScore(t *testing.T) {
	h := NewCompleteLessonHandler(newFakeLessonRepo(), newFakeAvatarRepo(), newFakeLeaderboard(), testLogger())

	_, err := h.Handle(context.Background(), CompleteLessonCommand{
		UserID: "user-1", LessonID: "lesson-1", Score: 101,
	})

	assert.ErrorIs(t, err, shared.ErrInvalidScore)
}

func TestCompleteGame_AppliesReward(t *testing.T) {
	games := newFakeGameRepo()
	avatars := newFakeAvatarRepo()
	seedAvatar(t, avatars, "user-1")

	game, err := content.NewGame("game-1", "Симулятор бюджета", 20)
	require.NoError(t, err)
	require.NoError(t, games.Upsert(context.Background(), game))

	h := NewCompleteGameHandler(games, avatars, newFakeLeaderboard(), testLogger())

	res, err := h.Handle(context.Background(), CompleteGameCommand{
		UserID: "user-1", GameID: "game-1", Score: 70,
	})
	require.NoError(t, err)

	assert.Equal(t, 20, res.XPEarned)
	assert.Equal(t, 20, res.Avatar.XP)
	assert.Equal(t, 1, res.Avatar.TotalGamesPlayed)
	assert.NotContains(t, res.Avatar.Achievements, avatar.AchievementPerfectScore)
}

func TestUseHealthPotion_Flow(t *testing.T) {
	avatars := newFakeAvatarRepo()
	av := seedAvatar(t, avatars, "user-1")
	av.Health = 40
	require.NoError(t, av.AddInventoryItem(avatar.HealthPotionItem, 1))
	require.NoError(t, avatars.Update(context.Background(), av))

	h := NewUseHealthPotionHandler(avatars, testLogger())

	res, err := h.Handle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, res.Used)
	assert.Equal(t, 65, res.Avatar.Health)

	// Second use: potion is gone, domain outcome rather than error.
	res, err = h.Handle(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, res.Used)
	assert.Equal(t, 65, res.Avatar.Health)
}

func TestResetAvatar_WipesProgressAndLeaderboard(t *testing.T) {
	avatars := newFakeAvatarRepo()
	board := newFakeLeaderboard()
	av := seedAvatar(t, avatars, "user-1")
	av.XP = 500
	require.NoError(t, avatars.Update(context.Background(), av))
	require.NoError(t, board.SetScore(context.Background(), "user-1", 500))

	h := NewResetAvatarHandler(avatars, board, testLogger())

	stats, err := h.Handle(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.XP)
	assert.Equal(t, 1, stats.Level)
	_, ok := board.scores["user-1"]
	assert.False(t, ok, "user removed from leaderboard")
}
