package command

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/internal/domain/task"
	"github.com/finedu-app/finedu-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func seedAvatar(t *testing.T, repo *fakeAvatarRepo, userID string) *avatar.Avatar {
	t.Helper()
	av, err := avatar.NewAvatar("avatar-"+userID, userID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), av))
	return av
}

func seedTask(t *testing.T, repo *fakeTaskRepo, userID, taskID string) *task.Task {
	t.Helper()
	tk, err := task.NewTask(taskID, userID, "Открыть депозит")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tk))
	return tk
}

func TestCompleteTask_GrantsXPAndMarksCompleted(t *testing.T) {
	tasks := newFakeTaskRepo()
	avatars := newFakeAvatarRepo()
	board := newFakeLeaderboard()
	seedAvatar(t, avatars, "user-1")
	seedTask(t, tasks, "user-1", "task-1")

	h := NewCompleteTaskHandler(tasks, avatars, board, testLogger())

	res, err := h.Handle(context.Background(), CompleteTaskCommand{UserID: "user-1", TaskID: "task-1"})
	require.NoError(t, err)

	assert.True(t, res.Completed)
	assert.Equal(t, task.DefaultXPReward, res.XPEarned)
	assert.Equal(t, task.DefaultXPReward, res.Avatar.XP)
	assert.Equal(t, 1, res.Avatar.TotalTasksCompleted)

	stored, err := tasks.GetByID(context.Background(), "task-1")
	require.NoError(t, err)
	assert.True(t, stored.Completed)

	assert.Equal(t, avatar.XP(task.DefaultXPReward), board.scores["user-1"], "leaderboard updated")
}

func TestCompleteTask_ToggleBackRevertsXP(t *testing.T) {
	tasks := newFakeTaskRepo()
	avatars := newFakeAvatarRepo()
	board := newFakeLeaderboard()
	seedAvatar(t, avatars, "user-1")
	seedTask(t, tasks, "user-1", "task-1")

	h := NewCompleteTaskHandler(tasks, avatars, board, testLogger())
	ctx := context.Background()

	_, err := h.Handle(ctx, CompleteTaskCommand{UserID: "user-1", TaskID: "task-1"})
	require.NoError(t, err)

	res, err := h.Handle(ctx, CompleteTaskCommand{UserID: "user-1", TaskID: "task-1"})
	require.NoError(t, err)

	assert.False(t, res.Completed)
	assert.Equal(t, -task.DefaultXPReward, res.XPEarned)
	assert.Equal(t, 0, res.Avatar.XP)
	assert.Equal(t, 0, res.Avatar.TotalTasksCompleted)
	assert.Equal(t, 1, res.Avatar.Level)
}

func TestCompleteTask_ForeignTaskIsForbidden(t *testing.T) {
	tasks := newFakeTaskRepo()
	avatars := newFakeAvatarRepo()
	seedAvatar(t, avatars, "user-2")
	seedTask(t, tasks, "user-1", "task-1")

	h := NewCompleteTaskHandler(tasks, avatars, newFakeLeaderboard(), testLogger())

	_, err := h.Handle(context.Background(), CompleteTaskCommand{UserID: "user-2", TaskID: "task-1"})

	assert.ErrorIs(t, err, shared.ErrTaskNotOwned)

	stored, getErr := tasks.GetByID(context.Background(), "task-1")
	require.NoError(t, getErr)
	assert.False(t, stored.Completed, "foreign task left untouched")
}

func TestCompleteTask_MissingTask(t *testing.T) {
	h := NewCompleteTaskHandler(newFakeTaskRepo(), newFakeAvatarRepo(), newFakeLeaderboard(), testLogger())

	_, err := h.Handle(context.Background(), CompleteTaskCommand{UserID: "user-1", TaskID: "nope"})

	assert.ErrorIs(t, err, shared.ErrTaskNotFound)
}

func TestCompleteTask_LeaderboardFailureIsNotFatal(t *testing.T) {
	tasks := newFakeTaskRepo()
	avatars := newFakeAvatarRepo()
	board := newFakeLeaderboard()
	board.fail = true
	seedAvatar(t, avatars, "user-1")
	seedTask(t, tasks, "user-1", "task-1")

	h := NewCompleteTaskHandler(tasks, avatars, board, testLogger())

	res, err := h.Handle(context.Background(), CompleteTaskCommand{UserID: "user-1", TaskID: "task-1"})

	require.NoError(t, err, "leaderboard cache is secondary, its failure must not fail the command")
	assert.True(t, res.Completed)
}

func TestCompleteTask_Validation(t *testing.T) {
	h := NewCompleteTaskHandler(newFakeTaskRepo(), newFakeAvatarRepo(), newFakeLeaderboard(), testLogger())

	_, err := h.Handle(context.Background(), CompleteTaskCommand{UserID: "", TaskID: "task-1"})
	assert.Error(t, err)

	_, err = h.Handle(context.Background(), CompleteTaskCommand{UserID: "user-1", TaskID: ""})
	assert.Error(t, err)
}
