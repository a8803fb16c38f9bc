package avatar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAvatar(t *testing.T) *Avatar {
	t.Helper()
	a, err := NewAvatar("avatar-1", "user-1")
	require.NoError(t, err)
	return a
}

func notificationTypes(notifs []Notification) []NotificationType {
	types := make([]NotificationType, 0, len(notifs))
	for _, n := range notifs {
		types = append(types, n.Type)
	}
	return types
}

func hasNotification(notifs []Notification, t NotificationType) bool {
	for _, n := range notifs {
		if n.Type == t {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// AddXP
// ─────────────────────────────────────────────────────────────────────────────

func TestAddXP_EmitsXPGained(t *testing.T) {
	a := newTestAvatar(t)

	notifs, err := a.AddXP(10, SourceTask)
	require.NoError(t, err)

	assert.Equal(t, XP(10), a.XP)
	assert.Equal(t, Level(1), a.Level())
	require.Len(t, notifs, 1)
	assert.Equal(t, NotificationXPGained, notifs[0].Type)
	assert.Equal(t, 10, notifs[0].Amount)
	assert.Equal(t, SourceTask, notifs[0].Source)
}

func TestAddXP_EmptySourceIsContractViolation(t *testing.T) {
	a := newTestAvatar(t)

	notifs, err := a.AddXP(10, "")

	assert.ErrorIs(t, err, ErrEmptyXPSource)
	assert.Nil(t, notifs)
	assert.Equal(t, XP(0), a.XP, "состояние не должно меняться при ошибке контракта")
}

func TestAddXP_CrossingOneBoundaryLevelsUpOnce(t *testing.T) {
	a := newTestAvatar(t)
	a.XP = 95
	a.Health = 80

	notifs, err := a.AddXP(10, SourceTask)
	require.NoError(t, err)

	assert.Equal(t, XP(105), a.XP)
	assert.Equal(t, Level(2), a.Level())
	assert.Equal(t, Health(90), a.Health, "level up восстанавливает +10 здоровья")

	types := notificationTypes(notifs)
	assert.Equal(t, []NotificationType{
		NotificationLevelUp,
		NotificationHealthChanged,
		NotificationXPGained,
	}, types)
	assert.Equal(t, 2, notifs[0].Level)
}

func TestAddXP_LevelUpHealClampsAtMax(t *testing.T) {
	a := newTestAvatar(t)
	a.XP = 95
	// Health уже 100 по умолчанию.

	notifs, err := a.AddXP(10, SourceTask)
	require.NoError(t, err)

	assert.Equal(t, Health(100), a.Health)
	// Уведомление сообщает запрошенную дельту, а не фактическую.
	for _, n := range notifs {
		if n.Type == NotificationHealthChanged {
			assert.Equal(t, LevelUpHeal, n.Amount)
		}
	}
}

func TestAddXP_Level5UnlocksMilestoneAchievement(t *testing.T) {
	a := newTestAvatar(t)
	a.XP = 395

	notifs, err := a.AddXP(10, SourceTask)
	require.NoError(t, err)

	assert.Equal(t, Level(5), a.Level())
	assert.True(t, a.HasAchievement(AchievementLevel5))
	assert.True(t, hasNotification(notifs, NotificationAchievementUnlocked))
	// Бонус достижения - вложенный XPGained с source=achievement.
	var bonusSeen bool
	for _, n := range notifs {
		if n.Type == NotificationXPGained && n.Source == SourceAchievement {
			bonusSeen = true
			assert.Equal(t, int(XPRewardAchievement), n.Amount)
		}
	}
	assert.True(t, bonusSeen, "бонус достижения должен начисляться реентрантным AddXP")
	assert.Equal(t, XP(410), a.XP, "395 + 10 + 5 бонуса")
}

func TestAddXP_NegativeAmountEmitsSignedNotification(t *testing.T) {
	a := newTestAvatar(t)
	a.XP = 50

	notifs, err := a.AddXP(-15, SourceReversal)
	require.NoError(t, err)

	assert.Equal(t, XP(35), a.XP)
	require.Len(t, notifs, 1)
	assert.Equal(t, NotificationXPGained, notifs[0].Type)
	assert.Equal(t, -15, notifs[0].Amount)
}

func TestAddXP_NegativeTotalKeepsLevelAtOne(t *testing.T) {
	a := newTestAvatar(t)

	_, err := a.AddXP(-50, SourceReversal)
	require.NoError(t, err)

	assert.Equal(t, XP(-50), a.XP, "XP намеренно не ограничен нулём снизу")
	assert.Equal(t, Level(1), a.Level())
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateHealth
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdateHealth_Clamping(t *testing.T) {
	tests := []struct {
		name   string
		health Health
		delta  int
		want   Health
	}{
		{"обычное восстановление", 50, 25, 75},
		{"clamp сверху", 95, 20, 100},
		{"clamp снизу", 5, -20, 0},
		{"ноль без изменений", 60, 0, 60},
		{"уже на максимуме", 100, 10, 100},
		{"уже на нуле", 0, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAvatar(t)
			a.Health = tt.health

			notif := a.UpdateHealth(tt.delta)

			assert.Equal(t, tt.want, a.Health)
			assert.Equal(t, NotificationHealthChanged, notif.Type)
			assert.Equal(t, tt.delta, notif.Amount, "уведомление сохраняет запрошенную дельту")
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateStreak
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdateStreak_SameDayIsNoOp(t *testing.T) {
	a := newTestAvatar(t)
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	a.Streak = 3
	a.MaxStreak = 5
	a.LastActivityDate = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	before := a.Clone()
	notifs := a.UpdateStreak(now)

	assert.Empty(t, notifs)
	assert.Equal(t, before.Streak, a.Streak)
	assert.Equal(t, before.XP, a.XP)
	assert.Equal(t, before.LastActivityDate, a.LastActivityDate)

	// Повторный вызов в тот же день - тоже no-op.
	notifs = a.UpdateStreak(now)
	assert.Empty(t, notifs)
	assert.Equal(t, before.Streak, a.Streak)
}

func TestUpdateStreak_ConsecutiveDayContinues(t *testing.T) {
	a := newTestAvatar(t)
	now := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	a.Streak = 3
	a.MaxStreak = 3
	a.LastActivityDate = time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC)

	notifs := a.UpdateStreak(now)

	assert.Equal(t, 4, a.Streak)
	assert.Equal(t, 4, a.MaxStreak)
	assert.Equal(t, XP(XPRewardStreakBonus), a.XP, "бонус серии начислен")
	assert.True(t, hasNotification(notifs, NotificationStreakContinued))
	assert.Equal(t, now, a.LastActivityDate)
}

func TestUpdateStreak_SeventhDayUnlocksAchievement(t *testing.T) {
	a := newTestAvatar(t)
	now := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	a.Streak = 6
	a.MaxStreak = 6
	a.LastActivityDate = now.AddDate(0, 0, -1)

	notifs := a.UpdateStreak(now)

	assert.Equal(t, 7, a.Streak)
	assert.Equal(t, 7, a.MaxStreak)
	assert.True(t, a.HasAchievement(AchievementStreak7))
	assert.True(t, hasNotification(notifs, NotificationAchievementUnlocked))
	// Бонус достижения (5) + бонус серии (2).
	assert.Equal(t, XP(7), a.XP)
}

func TestUpdateStreak_GapBreaksStreak(t *testing.T) {
	a := newTestAvatar(t)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	a.Streak = 10
	a.MaxStreak = 12
	a.LastActivityDate = now.AddDate(0, 0, -3)

	notifs := a.UpdateStreak(now)

	assert.Equal(t, 1, a.Streak)
	assert.Equal(t, 12, a.MaxStreak, "maxStreak не меняется при сбросе")
	require.Len(t, notifs, 1)
	assert.Equal(t, NotificationStreakBroken, notifs[0].Type)
	assert.Equal(t, 10, notifs[0].Streak, "уведомление сообщает потерянную серию")
}

func TestUpdateStreak_GapWithZeroStreakIsSilent(t *testing.T) {
	a := newTestAvatar(t)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	a.Streak = 0
	a.LastActivityDate = now.AddDate(0, 0, -5)

	notifs := a.UpdateStreak(now)

	assert.Equal(t, 1, a.Streak)
	assert.Equal(t, 1, a.MaxStreak)
	assert.Empty(t, notifs, "нечего ломать - StreakBroken не эмитится")
}

func TestUpdateStreak_CalendarDayNotRollingWindow(t *testing.T) {
	a := newTestAvatar(t)
	// 23:50 вчера -> 00:10 сегодня: меньше часа по стене, но следующий
	// календарный день.
	a.Streak = 1
	a.MaxStreak = 1
	a.LastActivityDate = time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	now := time.Date(2025, 3, 11, 0, 10, 0, 0, time.UTC)

	notifs := a.UpdateStreak(now)

	assert.Equal(t, 2, a.Streak)
	assert.True(t, hasNotification(notifs, NotificationStreakContinued))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			"тот же день",
			time.Date(2025, 3, 10, 0, 0, 1, 0, time.UTC),
			time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC),
			0,
		},
		{
			"следующий день через полночь",
			time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC),
			time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC),
			1,
		},
		{
			"граница месяца",
			time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			1,
		},
		{
			"три дня",
			time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 13, 23, 0, 0, 0, time.UTC),
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysBetween(tt.from, tt.to))
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// AddAchievement
// ─────────────────────────────────────────────────────────────────────────────

func TestAddAchievement_UnlockGrantsBonusXP(t *testing.T) {
	a := newTestAvatar(t)

	notifs, unlocked, err := a.AddAchievement(AchievementPerfectScore)
	require.NoError(t, err)

	assert.True(t, unlocked)
	assert.True(t, a.HasAchievement(AchievementPerfectScore))
	assert.Equal(t, XP(XPRewardAchievement), a.XP)
	require.Len(t, notifs, 2)
	assert.Equal(t, NotificationAchievementUnlocked, notifs[0].Type)
	assert.Equal(t, NotificationXPGained, notifs[1].Type)
}

func TestAddAchievement_Idempotent(t *testing.T) {
	a := newTestAvatar(t)

	_, unlocked, err := a.AddAchievement(AchievementStreak7)
	require.NoError(t, err)
	require.True(t, unlocked)

	after := a.Clone()

	notifs, unlocked, err := a.AddAchievement(AchievementStreak7)
	require.NoError(t, err)

	assert.False(t, unlocked, "повторная разблокировка возвращает false")
	assert.Empty(t, notifs)
	assert.Equal(t, after.XP, a.XP, "бонус не начисляется второй раз")
	assert.Equal(t, after.Achievements, a.Achievements)
}

func TestAddAchievement_UnknownIDFailsFast(t *testing.T) {
	a := newTestAvatar(t)

	_, unlocked, err := a.AddAchievement(AchievementType("no_such_achievement"))

	assert.ErrorIs(t, err, ErrUnknownAchievement)
	assert.False(t, unlocked)
	assert.Empty(t, a.Achievements)
}

func TestAchievements_NeverDuplicated(t *testing.T) {
	a := newTestAvatar(t)

	for i := 0; i < 3; i++ {
		_, _, err := a.AddAchievement(AchievementLevel5)
		require.NoError(t, err)
	}

	seen := map[AchievementType]int{}
	for _, t := range a.Achievements {
		seen[t]++
	}
	assert.Equal(t, 1, seen[AchievementLevel5])
}

// ─────────────────────────────────────────────────────────────────────────────
// INVENTORY
// ─────────────────────────────────────────────────────────────────────────────

func TestAddInventoryItem_MergesQuantity(t *testing.T) {
	a := newTestAvatar(t)

	require.NoError(t, a.AddInventoryItem(HealthPotionItem, 2))
	require.NoError(t, a.AddInventoryItem(HealthPotionItem, 3))

	require.Len(t, a.Inventory, 1)
	assert.Equal(t, 5, a.Inventory[0].Quantity)
}

func TestAddInventoryItem_InvalidInput(t *testing.T) {
	a := newTestAvatar(t)

	assert.ErrorIs(t, a.AddInventoryItem("", 1), ErrInvalidItem)
	assert.ErrorIs(t, a.AddInventoryItem(HealthPotionItem, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, a.AddInventoryItem(HealthPotionItem, -2), ErrInvalidQuantity)
	assert.Empty(t, a.Inventory)
}

func TestRemoveInventoryItem_InsufficientLeavesUnchanged(t *testing.T) {
	a := newTestAvatar(t)
	require.NoError(t, a.AddInventoryItem(HealthPotionItem, 1))

	ok, err := a.RemoveInventoryItem(HealthPotionItem, 2)
	require.NoError(t, err)

	assert.False(t, ok)
	require.Len(t, a.Inventory, 1)
	assert.Equal(t, 1, a.Inventory[0].Quantity)
}

func TestRemoveInventoryItem_RemovesEntryAtZero(t *testing.T) {
	a := newTestAvatar(t)
	require.NoError(t, a.AddInventoryItem(HealthPotionItem, 2))

	ok, err := a.RemoveInventoryItem(HealthPotionItem, 2)
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Empty(t, a.Inventory, "запись с нулевым количеством удаляется целиком")
}

func TestRemoveInventoryItem_MissingItem(t *testing.T) {
	a := newTestAvatar(t)

	ok, err := a.RemoveInventoryItem("Golden Coin", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

// ─────────────────────────────────────────────────────────────────────────────
// HEALTH POTION
// ─────────────────────────────────────────────────────────────────────────────

func TestUseHealthPotion_ConsumesAndHeals(t *testing.T) {
	a := newTestAvatar(t)
	a.Health = 50
	require.NoError(t, a.AddInventoryItem(HealthPotionItem, 1))

	notifs, ok := a.UseHealthPotion()

	assert.True(t, ok)
	assert.Equal(t, Health(75), a.Health)
	assert.Empty(t, a.Inventory, "последнее зелье удаляет запись из инвентаря")
	require.Len(t, notifs, 1)
	assert.Equal(t, NotificationHealthChanged, notifs[0].Type)
	assert.Equal(t, PotionHeal, notifs[0].Amount)
}

func TestUseHealthPotion_NoPotionIsDomainOutcome(t *testing.T) {
	a := newTestAvatar(t)
	a.Health = 50

	before := a.Clone()
	notifs, ok := a.UseHealthPotion()

	assert.False(t, ok)
	assert.Empty(t, notifs)
	assert.Equal(t, before.Health, a.Health)
	assert.Equal(t, before.Inventory, a.Inventory)
}

// ─────────────────────────────────────────────────────────────────────────────
// COMPLETION EVENTS
// ─────────────────────────────────────────────────────────────────────────────

func TestCompleteLesson_FirstLessonWithPerfectScore(t *testing.T) {
	a := newTestAvatar(t)
	now := a.LastActivityDate

	notifs, err := a.CompleteLesson(LessonResult{Score: 100, XPReward: 10}, now)
	require.NoError(t, err)

	// 10 за урок + 5 за first_lesson + 5 за perfect_score.
	assert.Equal(t, XP(20), a.XP)
	assert.Equal(t, Level(1), a.Level())
	assert.Equal(t, 1, a.TotalLessonsCompleted)
	assert.True(t, a.HasAchievement(AchievementFirstLesson))
	assert.True(t, a.HasAchievement(AchievementPerfectScore))
	assert.Equal(t, 0, a.Streak, "тот же календарный день не меняет серию")
	assert.True(t, hasNotification(notifs, NotificationXPGained))
	assert.True(t, hasNotification(notifs, NotificationAchievementUnlocked))
}

func TestCompleteLesson_SecondLessonHasNoFirstLessonAchievement(t *testing.T) {
	a := newTestAvatar(t)
	now := a.LastActivityDate

	_, err := a.CompleteLesson(LessonResult{Score: 80}, now)
	require.NoError(t, err)
	require.Equal(t, 1, a.TotalLessonsCompleted)

	notifs, err := a.CompleteLesson(LessonResult{Score: 80}, now)
	require.NoError(t, err)

	assert.Equal(t, 2, a.TotalLessonsCompleted)
	assert.False(t, hasNotification(notifs, NotificationAchievementUnlocked))
}

func TestCompleteLesson_DefaultReward(t *testing.T) {
	a := newTestAvatar(t)
	// first_lesson даст ещё +5.
	_, err := a.CompleteLesson(LessonResult{Score: 50}, a.LastActivityDate)
	require.NoError(t, err)

	assert.Equal(t, XPRewardLesson+XPRewardAchievement, a.XP)
}

func TestCompleteLesson_ContinuesStreakFromYesterday(t *testing.T) {
	a := newTestAvatar(t)
	a.Streak = 6
	a.MaxStreak = 6
	a.LastActivityDate = time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)

	// Начисление XP внутри операции не должно превращать продолжение
	// серии в no-op.
	_, err := a.CompleteLesson(LessonResult{Score: 60, XPReward: 10}, now)
	require.NoError(t, err)

	assert.Equal(t, 7, a.Streak)
	assert.Equal(t, 7, a.MaxStreak)
	assert.True(t, a.HasAchievement(AchievementStreak7))
}

func TestCompleteTask_IncrementsCounterAndAwardsXP(t *testing.T) {
	a := newTestAvatar(t)

	notifs, err := a.CompleteTask(TaskResult{XPReward: 15}, a.LastActivityDate)
	require.NoError(t, err)

	assert.Equal(t, XP(15), a.XP)
	assert.Equal(t, 1, a.TotalTasksCompleted)
	assert.True(t, hasNotification(notifs, NotificationXPGained))
}

func TestRevertTask_ReversesXPAndCounter(t *testing.T) {
	a := newTestAvatar(t)
	_, err := a.CompleteTask(TaskResult{XPReward: 15}, a.LastActivityDate)
	require.NoError(t, err)

	notifs, err := a.RevertTask(15)
	require.NoError(t, err)

	assert.Equal(t, XP(0), a.XP)
	assert.Equal(t, 0, a.TotalTasksCompleted)
	require.Len(t, notifs, 1)
	assert.Equal(t, -15, notifs[0].Amount)
}

func TestRevertTask_CounterFloorsAtZero(t *testing.T) {
	a := newTestAvatar(t)

	_, err := a.RevertTask(15)
	require.NoError(t, err)

	assert.Equal(t, 0, a.TotalTasksCompleted)
	assert.Equal(t, XP(-15), a.XP)
	assert.Equal(t, Level(1), a.Level())
}

func TestCompleteGame_PerfectScoreUnlocksAchievement(t *testing.T) {
	a := newTestAvatar(t)

	_, err := a.CompleteGame(GameResult{Score: 100, XPReward: 20}, a.LastActivityDate)
	require.NoError(t, err)

	assert.Equal(t, 1, a.TotalGamesPlayed)
	assert.True(t, a.HasAchievement(AchievementPerfectScore))
	// 20 за игру + 5 за достижение.
	assert.Equal(t, XP(25), a.XP)
}

func TestRecordDailyLogin_OncePerDay(t *testing.T) {
	a := newTestAvatar(t)
	a.LastActivityDate = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)

	notifs, err := a.RecordDailyLogin(now)
	require.NoError(t, err)
	assert.NotEmpty(t, notifs)
	xpAfterFirst := a.XP

	notifs, err = a.RecordDailyLogin(now.Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Empty(t, notifs, "повторный вход в тот же день - no-op")
	assert.Equal(t, xpAfterFirst, a.XP)
}

func TestRecordDailyLogin_NightOwl(t *testing.T) {
	a := newTestAvatar(t)
	a.LastActivityDate = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)

	_, err := a.RecordDailyLogin(now)
	require.NoError(t, err)

	assert.True(t, a.HasAchievement(AchievementNightOwl))
	assert.False(t, a.HasAchievement(AchievementEarlyBird))
}

func TestRecordDailyLogin_EarlyBird(t *testing.T) {
	a := newTestAvatar(t)
	a.LastActivityDate = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 11, 6, 30, 0, 0, time.UTC)

	_, err := a.RecordDailyLogin(now)
	require.NoError(t, err)

	assert.True(t, a.HasAchievement(AchievementEarlyBird))
}

// ─────────────────────────────────────────────────────────────────────────────
// INVARIANTS & DETERMINISM
// ─────────────────────────────────────────────────────────────────────────────

// checkInvariants проверяет инварианты движка на достижимом состоянии.
func checkInvariants(t *testing.T, a *Avatar) {
	t.Helper()

	assert.Equal(t, CalculateLevel(a.XP), a.Level())
	assert.GreaterOrEqual(t, int(a.Level()), 1)
	assert.GreaterOrEqual(t, int(a.Health), 0)
	assert.LessOrEqual(t, int(a.Health), MaxHealth)
	assert.GreaterOrEqual(t, a.MaxStreak, a.Streak)

	seen := map[AchievementType]bool{}
	for _, ach := range a.Achievements {
		assert.False(t, seen[ach], "дубликат достижения %s", ach)
		seen[ach] = true
	}

	for _, item := range a.Inventory {
		assert.Greater(t, item.Quantity, 0, "запись инвентаря с количеством <= 0")
	}
}

func TestInvariants_HoldAcrossEventSequence(t *testing.T) {
	a := newTestAvatar(t)
	day := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a.LastActivityDate = day

	for i := 0; i < 40; i++ {
		now := day.AddDate(0, 0, i)

		_, err := a.CompleteLesson(LessonResult{Score: 100, XPReward: 10}, now)
		require.NoError(t, err)
		checkInvariants(t, a)

		_, err = a.CompleteTask(TaskResult{XPReward: 15}, now)
		require.NoError(t, err)
		checkInvariants(t, a)

		require.NoError(t, a.AddInventoryItem(HealthPotionItem, 1))
		a.UpdateHealth(-30)
		checkInvariants(t, a)

		_, _ = a.UseHealthPotion()
		checkInvariants(t, a)
	}

	assert.Equal(t, 39, a.Streak, "39 переходов календарного дня")
	assert.True(t, a.HasAchievement(AchievementStreak7))
	assert.True(t, a.HasAchievement(AchievementStreak30))
	assert.True(t, a.HasAchievement(AchievementLevel5))
	assert.True(t, a.HasAchievement(AchievementLevel10))
}

func TestReplay_IsDeterministic(t *testing.T) {
	replay := func() Stats {
		a, err := NewAvatar("avatar-r", "user-r")
		require.NoError(t, err)
		base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
		a.LastActivityDate = base

		for i := 0; i < 10; i++ {
			now := base.AddDate(0, 0, i)
			_, err := a.CompleteLesson(LessonResult{Score: 90 + i, XPReward: 10}, now)
			require.NoError(t, err)
			_, err = a.CompleteGame(GameResult{Score: 100, XPReward: 20}, now)
			require.NoError(t, err)
			require.NoError(t, a.AddInventoryItem("Golden Coin", 2))
		}

		stats := a.Stats()
		// AcquiredAt берётся с часов и не входит в сравнение повторов.
		for i := range stats.Inventory {
			stats.Inventory[i].AcquiredAt = time.Time{}
		}
		return stats
	}

	first := replay()
	second := replay()

	assert.Equal(t, first, second, "повтор одной последовательности событий даёт идентичную статистику")
}
