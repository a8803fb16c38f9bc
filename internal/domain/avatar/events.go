package avatar

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATIONS
// Уведомления, которые движок возвращает вместе с новым состоянием.
// Слой уведомлений/UI превращает их в пользовательские сообщения;
// движок не форматирует отображаемые строки.
// ══════════════════════════════════════════════════════════════════════════════

// NotificationType представляет тип уведомления движка.
type NotificationType string

const (
	// NotificationXPGained - начислен XP (Amount может быть отрицательным).
	NotificationXPGained NotificationType = "xp_gained"
	// NotificationLevelUp - повышен уровень.
	NotificationLevelUp NotificationType = "level_up"
	// NotificationHealthChanged - изменено здоровье.
	NotificationHealthChanged NotificationType = "health_changed"
	// NotificationStreakContinued - серия дней продолжена.
	NotificationStreakContinued NotificationType = "streak_continued"
	// NotificationStreakBroken - серия дней прервана.
	NotificationStreakBroken NotificationType = "streak_broken"
	// NotificationAchievementUnlocked - разблокировано достижение.
	NotificationAchievementUnlocked NotificationType = "achievement_unlocked"
)

// Notification - одно уведомление движка об изменении состояния.
// Это не ошибка: уведомления описывают успешные доменные события.
type Notification struct {
	// Type - тип уведомления.
	Type NotificationType `json:"type"`

	// Amount - величина изменения (XP или здоровье).
	// Для NotificationHealthChanged это запрошенная дельта, а не
	// фактическая: если clamp поглотил часть эффекта, уведомление
	// всё равно сообщает причину, а не точный результат.
	Amount int `json:"amount,omitempty"`

	// Source - тег источника XP (для NotificationXPGained).
	Source string `json:"source,omitempty"`

	// Level - новый уровень (для NotificationLevelUp).
	Level int `json:"level,omitempty"`

	// Streak - длина серии (для streak-уведомлений).
	Streak int `json:"streak,omitempty"`

	// Achievement - тип достижения (для NotificationAchievementUnlocked).
	Achievement AchievementType `json:"achievement,omitempty"`
}

// NewXPGainedNotification создаёт уведомление о начислении XP.
// Знак Amount сохраняется: отмена задачи даёт отрицательное значение.
func NewXPGainedNotification(amount XP, source string) Notification {
	return Notification{
		Type:   NotificationXPGained,
		Amount: int(amount),
		Source: source,
	}
}

// NewLevelUpNotification создаёт уведомление о повышении уровня.
func NewLevelUpNotification(level Level) Notification {
	return Notification{
		Type:  NotificationLevelUp,
		Level: int(level),
	}
}

// NewHealthChangedNotification создаёт уведомление об изменении здоровья.
func NewHealthChangedNotification(delta int) Notification {
	return Notification{
		Type:   NotificationHealthChanged,
		Amount: delta,
	}
}

// NewStreakContinuedNotification создаёт уведомление о продолжении серии.
func NewStreakContinuedNotification(streak int) Notification {
	return Notification{
		Type:   NotificationStreakContinued,
		Streak: streak,
	}
}

// NewStreakBrokenNotification создаёт уведомление о прерванной серии.
func NewStreakBrokenNotification(lostStreak int) Notification {
	return Notification{
		Type:   NotificationStreakBroken,
		Streak: lostStreak,
	}
}

// NewAchievementUnlockedNotification создаёт уведомление о достижении.
func NewAchievementUnlockedNotification(t AchievementType) Notification {
	return Notification{
		Type:        NotificationAchievementUnlocked,
		Achievement: t,
	}
}
