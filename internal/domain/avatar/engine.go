package avatar

import (
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESSION ENGINE
// Детерминированные переходы состояния аватара. Каждая операция
// синхронно мутирует аватар и возвращает список уведомлений.
//
// Каскады (достижение -> бонусный XP -> возможный level up) выполняются
// как обычные вложенные вызовы внутри одной логической транзакции,
// поэтому возвращённый аватар атомарно отражает все эффекты до того,
// как вызывающий слой его сохранит.
//
// Движок не делает I/O, не дедуплицирует события и не блокирует:
// сериализацию read-modify-write на одного пользователя обеспечивает
// вызывающий слой (application/command).
// ══════════════════════════════════════════════════════════════════════════════

// LessonResult - входные данные события "урок выполнен".
type LessonResult struct {
	// Score - результат урока (0-100).
	Score int

	// XPReward - награда за урок; 0 означает награду по умолчанию.
	XPReward XP
}

// TaskResult - входные данные события "задача выполнена".
type TaskResult struct {
	// XPReward - награда за задачу; 0 означает награду по умолчанию.
	XPReward XP
}

// GameResult - входные данные события "мини-игра пройдена".
type GameResult struct {
	// Score - результат игры (0-100).
	Score int

	// XPReward - награда за игру; 0 означает награду по умолчанию.
	XPReward XP
}

// ─────────────────────────────────────────────────────────────────────────────
// XP & LEVEL
// ─────────────────────────────────────────────────────────────────────────────

// AddXP начисляет XP (знак сохраняется) и пересчитывает уровень.
// При повышении уровня: уведомление LevelUp, +LevelUpHeal здоровья,
// достижения за уровни 5 и 10 (реентрантный вызов AddAchievement).
// Уведомление XPGained эмитится безусловно, в том числе для
// отрицательных значений.
//
// Возвращает ErrEmptyXPSource при пустом теге источника - это нарушение
// контракта вызова, а не доменный исход.
func (a *Avatar) AddXP(amount XP, source string) ([]Notification, error) {
	if source == "" {
		return nil, ErrEmptyXPSource
	}

	oldLevel := a.Level()
	a.XP = a.XP.Add(amount)
	newLevel := a.Level()

	// LastActivityDate здесь не трогается: активностью управляет
	// правило серии (см. UpdateStreak), и отмена задачи не должна
	// продлевать серию.
	a.UpdatedAt = time.Now().UTC()

	var notifs []Notification

	if newLevel > oldLevel {
		notifs = append(notifs, NewLevelUpNotification(newLevel))

		// Milestone-достижения выдаются при точном попадании в уровень.
		switch newLevel {
		case 5:
			unlocked, _, _ := a.AddAchievement(AchievementLevel5)
			notifs = append(notifs, unlocked...)
		case 10:
			unlocked, _, _ := a.AddAchievement(AchievementLevel10)
			notifs = append(notifs, unlocked...)
		}

		notifs = append(notifs, a.UpdateHealth(LevelUpHeal))
	}

	notifs = append(notifs, NewXPGainedNotification(amount, source))
	return notifs, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// HEALTH
// ─────────────────────────────────────────────────────────────────────────────

// UpdateHealth изменяет здоровье с ограничением диапазоном [0, 100].
// Уведомление сообщает запрошенную дельту, даже если clamp поглотил
// часть эффекта.
func (a *Avatar) UpdateHealth(delta int) Notification {
	a.Health = (a.Health + Health(delta)).Clamp()
	a.UpdatedAt = time.Now().UTC()
	return NewHealthChangedNotification(delta)
}

// ─────────────────────────────────────────────────────────────────────────────
// STREAK
// ─────────────────────────────────────────────────────────────────────────────

// UpdateStreak обновляет серию дней по правилу календарных суток:
// границы дня считаются обнулением времени в UTC, а не скользящим
// 24-часовым окном.
//
//	diff == 0: состояние не меняется (повторный вызов в тот же день - no-op);
//	diff == 1: серия продолжена, достижения за 7/30 дней, бонусный XP;
//	diff  > 1: серия прервана (StreakBroken, если она была), новая серия = 1.
func (a *Avatar) UpdateStreak(now time.Time) []Notification {
	diffDays := daysBetween(a.LastActivityDate, now)

	switch {
	case diffDays == 0:
		return nil

	case diffDays == 1:
		a.Streak++
		if a.Streak > a.MaxStreak {
			a.MaxStreak = a.Streak
		}

		notifs := []Notification{NewStreakContinuedNotification(a.Streak)}

		switch a.Streak {
		case 7:
			unlocked, _, _ := a.AddAchievement(AchievementStreak7)
			notifs = append(notifs, unlocked...)
		case 30:
			unlocked, _, _ := a.AddAchievement(AchievementStreak30)
			notifs = append(notifs, unlocked...)
		}

		bonus, _ := a.AddXP(XPRewardStreakBonus, SourceStreak)
		notifs = append(notifs, bonus...)

		a.LastActivityDate = now
		a.UpdatedAt = now
		return notifs

	default:
		var notifs []Notification
		if a.Streak > 0 {
			notifs = append(notifs, NewStreakBrokenNotification(a.Streak))
		}
		a.Streak = 1
		if a.MaxStreak < 1 {
			a.MaxStreak = 1
		}
		a.LastActivityDate = now
		a.UpdatedAt = now
		return notifs
	}
}

// daysBetween возвращает разницу в календарных днях между двумя
// моментами: время суток обоих обнуляется в UTC перед вычитанием.
// Нулевой from трактуется как "активности не было" и даёт большой diff,
// что естественно начинает новую серию.
func daysBetween(from, to time.Time) int {
	fromDay := midnightUTC(from)
	toDay := midnightUTC(to)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ─────────────────────────────────────────────────────────────────────────────
// ACHIEVEMENTS
// ─────────────────────────────────────────────────────────────────────────────

// AddAchievement разблокирует достижение. Идемпотентна: повторный вызов
// с тем же типом возвращает (nil, false, nil) и не меняет состояние.
// При первой разблокировке начисляется бонус XPRewardAchievement
// (реентрантный вызов AddXP).
//
// Неизвестный идентификатор - нарушение контракта вызова и возвращает
// ErrUnknownAchievement.
func (a *Avatar) AddAchievement(t AchievementType) ([]Notification, bool, error) {
	if !IsValidAchievement(t) {
		return nil, false, ErrUnknownAchievement
	}

	if a.HasAchievement(t) {
		return nil, false, nil
	}

	a.Achievements = append(a.Achievements, t)
	a.UpdatedAt = time.Now().UTC()

	notifs := []Notification{NewAchievementUnlockedNotification(t)}

	bonus, err := a.AddXP(XPRewardAchievement, SourceAchievement)
	if err != nil {
		return notifs, true, err
	}
	notifs = append(notifs, bonus...)

	return notifs, true, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// INVENTORY
// ─────────────────────────────────────────────────────────────────────────────

// AddInventoryItem добавляет предмет: сливает количество с существующей
// записью или создаёт новую.
func (a *Avatar) AddInventoryItem(item string, quantity int) error {
	if item == "" {
		return ErrInvalidItem
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	now := time.Now().UTC()

	for i := range a.Inventory {
		if a.Inventory[i].Item == item {
			a.Inventory[i].Quantity += quantity
			a.UpdatedAt = now
			return nil
		}
	}

	a.Inventory = append(a.Inventory, InventoryItem{
		Item:       item,
		Quantity:   quantity,
		AcquiredAt: now,
	})
	a.UpdatedAt = now
	return nil
}

// RemoveInventoryItem списывает предметы. Возвращает (false, nil), если
// текущее количество меньше запрошенного - состояние не меняется.
// Запись удаляется целиком, когда количество достигает нуля.
func (a *Avatar) RemoveInventoryItem(item string, quantity int) (bool, error) {
	if item == "" {
		return false, ErrInvalidItem
	}
	if quantity <= 0 {
		return false, ErrInvalidQuantity
	}

	for i := range a.Inventory {
		if a.Inventory[i].Item != item {
			continue
		}

		if a.Inventory[i].Quantity < quantity {
			return false, nil
		}

		a.Inventory[i].Quantity -= quantity
		if a.Inventory[i].Quantity == 0 {
			a.Inventory = append(a.Inventory[:i], a.Inventory[i+1:]...)
		}
		a.UpdatedAt = time.Now().UTC()
		return true, nil
	}

	return false, nil
}

// UseHealthPotion потребляет одно зелье здоровья и восстанавливает
// PotionHeal здоровья. Возвращает (nil, false) без изменений, если
// зелья нет - это доменный исход, а не ошибка.
func (a *Avatar) UseHealthPotion() ([]Notification, bool) {
	ok, err := a.RemoveInventoryItem(HealthPotionItem, 1)
	if err != nil || !ok {
		return nil, false
	}

	return []Notification{a.UpdateHealth(PotionHeal)}, true
}

// ─────────────────────────────────────────────────────────────────────────────
// COMPLETION EVENTS
// Порядок внутри операций фиксирован: XP -> счётчик -> достижения,
// зависящие от счётчика, -> серия. Счётчик обновляется до проверки
// достижений, которые от него зависят.
// ─────────────────────────────────────────────────────────────────────────────

// CompleteLesson обрабатывает выполнение урока.
// Достижение FirstLesson выдаётся за фактически первый урок;
// PerfectScore - за результат 100.
func (a *Avatar) CompleteLesson(res LessonResult, now time.Time) ([]Notification, error) {
	reward := res.XPReward
	if reward == 0 {
		reward = XPRewardLesson
	}

	notifs, err := a.AddXP(reward, SourceLesson)
	if err != nil {
		return nil, err
	}

	a.TotalLessonsCompleted++

	if a.TotalLessonsCompleted == 1 {
		unlocked, _, _ := a.AddAchievement(AchievementFirstLesson)
		notifs = append(notifs, unlocked...)
	}

	if res.Score == PerfectScore {
		unlocked, _, _ := a.AddAchievement(AchievementPerfectScore)
		notifs = append(notifs, unlocked...)
	}

	notifs = append(notifs, a.UpdateStreak(now)...)
	return notifs, nil
}

// CompleteTask обрабатывает выполнение задачи.
func (a *Avatar) CompleteTask(res TaskResult, now time.Time) ([]Notification, error) {
	reward := res.XPReward
	if reward == 0 {
		reward = XPRewardTask
	}

	notifs, err := a.AddXP(reward, SourceTask)
	if err != nil {
		return nil, err
	}

	a.TotalTasksCompleted++

	notifs = append(notifs, a.UpdateStreak(now)...)
	return notifs, nil
}

// RevertTask отменяет ранее засчитанную задачу: списывает XP (уровень
// пересчитывается и может упасть) и уменьшает счётчик задач не ниже нуля.
// XP намеренно не ограничивается нулём снизу - суммарный XP может стать
// отрицательным, уровень при этом не опускается ниже 1.
// Серия не трогается: отмена не является активностью.
func (a *Avatar) RevertTask(xpLost XP) ([]Notification, error) {
	notifs, err := a.AddXP(-xpLost, SourceReversal)
	if err != nil {
		return nil, err
	}

	if a.TotalTasksCompleted > 0 {
		a.TotalTasksCompleted--
	}

	return notifs, nil
}

// CompleteGame обрабатывает прохождение мини-игры.
func (a *Avatar) CompleteGame(res GameResult, now time.Time) ([]Notification, error) {
	reward := res.XPReward
	if reward == 0 {
		reward = XPRewardGame
	}

	notifs, err := a.AddXP(reward, SourceGame)
	if err != nil {
		return nil, err
	}

	a.TotalGamesPlayed++

	if res.Score == PerfectScore {
		unlocked, _, _ := a.AddAchievement(AchievementPerfectScore)
		notifs = append(notifs, unlocked...)
	}

	notifs = append(notifs, a.UpdateStreak(now)...)
	return notifs, nil
}

// RecordDailyLogin обрабатывает первый вход за календарный день:
// +XPRewardDailyLogin, достижения за время суток (до 5 утра - NightOwl,
// 5-7 утра - EarlyBird) и обновление серии. Повторный вход в тот же
// день - no-op.
func (a *Avatar) RecordDailyLogin(now time.Time) ([]Notification, error) {
	if daysBetween(a.LastActivityDate, now) == 0 {
		return nil, nil
	}

	notifs, err := a.AddXP(XPRewardDailyLogin, SourceDailyLogin)
	if err != nil {
		return nil, err
	}

	hour := now.UTC().Hour()
	switch {
	case hour < 5:
		unlocked, _, _ := a.AddAchievement(AchievementNightOwl)
		notifs = append(notifs, unlocked...)
	case hour < 7:
		unlocked, _, _ := a.AddAchievement(AchievementEarlyBird)
		notifs = append(notifs, unlocked...)
	}

	notifs = append(notifs, a.UpdateStreak(now)...)
	return notifs, nil
}
