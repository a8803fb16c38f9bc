package avatar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAvatar_Defaults(t *testing.T) {
	a, err := NewAvatar("avatar-1", "user-1")
	require.NoError(t, err)

	assert.Equal(t, "avatar-1", a.ID)
	assert.Equal(t, "user-1", a.UserID)
	assert.Equal(t, XP(0), a.XP)
	assert.Equal(t, Level(1), a.Level())
	assert.Equal(t, Health(MaxHealth), a.Health)
	assert.Equal(t, 0, a.Streak)
	assert.Equal(t, 0, a.MaxStreak)
	assert.Empty(t, a.Achievements)
	assert.Empty(t, a.Inventory)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestNewAvatar_Validation(t *testing.T) {
	_, err := NewAvatar("", "user-1")
	assert.Error(t, err)

	_, err = NewAvatar("avatar-1", "")
	assert.Error(t, err)
}

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		xp   XP
		want Level
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{101, 2},
		{199, 2},
		{200, 3},
		{950, 10},
		{1000, 11},
		{-1, 1},
		{-500, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateLevel(tt.xp), "xp=%d", tt.xp)
	}
}

func TestHealthClamp(t *testing.T) {
	assert.Equal(t, Health(0), Health(-10).Clamp())
	assert.Equal(t, Health(0), Health(0).Clamp())
	assert.Equal(t, Health(55), Health(55).Clamp())
	assert.Equal(t, Health(100), Health(100).Clamp())
	assert.Equal(t, Health(100), Health(140).Clamp())
}

func TestAvatar_ItemQuantity(t *testing.T) {
	a := newTestAvatar(t)
	require.NoError(t, a.AddInventoryItem(HealthPotionItem, 3))

	assert.Equal(t, 3, a.ItemQuantity(HealthPotionItem))
	assert.Equal(t, 0, a.ItemQuantity("Golden Coin"))
}

func TestAvatar_Reset(t *testing.T) {
	a := newTestAvatar(t)
	created := a.CreatedAt

	_, err := a.CompleteLesson(LessonResult{Score: 100, XPReward: 10}, a.LastActivityDate)
	require.NoError(t, err)
	require.NoError(t, a.AddInventoryItem(HealthPotionItem, 2))
	a.UpdateHealth(-40)
	require.NotEqual(t, XP(0), a.XP)

	a.Reset()

	assert.Equal(t, XP(0), a.XP)
	assert.Equal(t, Level(1), a.Level())
	assert.Equal(t, Health(MaxHealth), a.Health)
	assert.Equal(t, 0, a.Streak)
	assert.Equal(t, 0, a.MaxStreak)
	assert.Equal(t, 0, a.TotalLessonsCompleted)
	assert.Empty(t, a.Achievements)
	assert.Empty(t, a.Inventory)
	assert.Equal(t, "avatar-1", a.ID, "сброс сохраняет идентичность")
	assert.Equal(t, created, a.CreatedAt)
}

func TestAvatar_CloneIsDeep(t *testing.T) {
	a := newTestAvatar(t)
	_, _, err := a.AddAchievement(AchievementFirstLesson)
	require.NoError(t, err)
	require.NoError(t, a.AddInventoryItem(HealthPotionItem, 1))

	clone := a.Clone()
	clone.XP = 999
	clone.Achievements[0] = AchievementNightOwl
	clone.Inventory[0].Quantity = 50

	assert.NotEqual(t, a.XP, clone.XP)
	assert.Equal(t, AchievementFirstLesson, a.Achievements[0])
	assert.Equal(t, 1, a.Inventory[0].Quantity)
}

func TestAvatar_ClonePreservesEmptySlices(t *testing.T) {
	a := newTestAvatar(t)
	a.Reset()
	require.NotNil(t, a.Achievements)
	require.NotNil(t, a.Inventory)

	clone := a.Clone()

	assert.Equal(t, a.Achievements, clone.Achievements, "пустой срез не становится nil")
	assert.Equal(t, a.Inventory, clone.Inventory)
}

func TestAvatar_CloneNil(t *testing.T) {
	var a *Avatar
	assert.Nil(t, a.Clone())
}

func TestAvatar_String(t *testing.T) {
	a := newTestAvatar(t)
	a.XP = 150

	s := a.String()

	assert.Contains(t, s, "avatar-1")
	assert.Contains(t, s, "user-1")
	assert.Contains(t, s, "XP: 150")
	assert.Contains(t, s, "Level: 2")
}

func TestStats_View(t *testing.T) {
	a := newTestAvatar(t)
	a.XP = 250
	a.Health = 80
	a.Streak = 4
	a.MaxStreak = 9
	a.TotalLessonsCompleted = 7

	stats := a.Stats()

	assert.Equal(t, 3, stats.Level)
	assert.Equal(t, 250, stats.XP)
	assert.Equal(t, 300, stats.XPForNextLevel)
	assert.Equal(t, 50.0, stats.XPProgress, "250 XP = половина пути к уровню 4")
	assert.Equal(t, 80, stats.Health)
	assert.Equal(t, 80, stats.HealthPercentage)
	assert.Equal(t, 4, stats.Streak)
	assert.Equal(t, 9, stats.MaxStreak)
	assert.Equal(t, 7, stats.TotalLessonsCompleted)
}

func TestStats_ProgressClampedForNegativeXP(t *testing.T) {
	a := newTestAvatar(t)
	a.XP = -30

	stats := a.Stats()

	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 0.0, stats.XPProgress)
}

func TestStats_SlicesAreCopies(t *testing.T) {
	a := newTestAvatar(t)
	_, _, err := a.AddAchievement(AchievementFirstLesson)
	require.NoError(t, err)

	stats := a.Stats()
	stats.Achievements[0] = AchievementNightOwl

	assert.Equal(t, AchievementFirstLesson, a.Achievements[0])
}

func TestAchievementDefinitions_CoverAllTypes(t *testing.T) {
	defs := GetAchievementDefinitions()
	require.Len(t, defs, 8)

	for _, def := range defs {
		assert.True(t, IsValidAchievement(def.Type))
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Description)

		got, ok := GetAchievementDefinition(def.Type)
		require.True(t, ok)
		assert.Equal(t, def, got)
	}

	_, ok := GetAchievementDefinition(AchievementType("bogus"))
	assert.False(t, ok)
	assert.False(t, IsValidAchievement(AchievementType("bogus")))
}

func TestInventoryItem_AcquiredAtPreservedOnMerge(t *testing.T) {
	a := newTestAvatar(t)
	require.NoError(t, a.AddInventoryItem(HealthPotionItem, 1))
	first := a.Inventory[0].AcquiredAt

	time.Sleep(time.Millisecond)
	require.NoError(t, a.AddInventoryItem(HealthPotionItem, 1))

	assert.Equal(t, first, a.Inventory[0].AcquiredAt, "слияние не переписывает время первого получения")
}
