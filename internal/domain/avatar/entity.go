// Package avatar содержит доменную модель игрового аватара FinEdu.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package avatar

import (
	"errors"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// XP представляет очки опыта аватара.
// Значение может стать отрицательным при отмене выполнения задачи -
// движок намеренно не ограничивает XP снизу (см. RevertTask).
type XP int

// Add складывает XP.
func (x XP) Add(delta XP) XP {
	return x + delta
}

// Level представляет уровень аватара, вычисляемый из XP.
type Level int

// XPPerLevel - количество XP на один уровень.
const XPPerLevel = 100

// CalculateLevel вычисляет уровень на основе XP.
// Формула: level = floor(xp / 100) + 1, но не ниже 1.
// Отрицательный суммарный XP (после отмены задач) не опускает уровень ниже 1.
func CalculateLevel(xp XP) Level {
	if xp < 0 {
		return 1
	}
	return Level(int(xp)/XPPerLevel + 1)
}

// Health представляет здоровье аватара в диапазоне [0, MaxHealth].
type Health int

// MaxHealth - максимальное здоровье аватара.
const MaxHealth = 100

// Clamp ограничивает здоровье диапазоном [0, MaxHealth].
func (h Health) Clamp() Health {
	if h < 0 {
		return 0
	}
	if h > MaxHealth {
		return MaxHealth
	}
	return h
}

// ══════════════════════════════════════════════════════════════════════════════
// XP REWARDS & HEALTH VALUES
// Константы наград взяты из продуктовых правил FinEdu.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// XPRewardLesson - награда за выполнение урока по умолчанию.
	XPRewardLesson XP = 10

	// XPRewardTask - награда за выполнение задачи по умолчанию.
	XPRewardTask XP = 15

	// XPRewardGame - награда за прохождение мини-игры по умолчанию.
	XPRewardGame XP = 20

	// XPRewardAchievement - бонус за разблокировку любого достижения.
	XPRewardAchievement XP = 5

	// XPRewardStreakBonus - бонус за продолжение серии дней.
	XPRewardStreakBonus XP = 2

	// XPRewardDailyLogin - награда за первый вход за день.
	XPRewardDailyLogin XP = 1
)

const (
	// LevelUpHeal - восстановление здоровья при повышении уровня.
	LevelUpHeal = 10

	// PotionHeal - восстановление здоровья от зелья.
	PotionHeal = 25
)

// PerfectScore - результат, за который выдаётся достижение "идеальный счёт".
const PerfectScore = 100

// HealthPotionItem - имя предмета "зелье здоровья" в инвентаре.
const HealthPotionItem = "Health Potion"

// Источники начисления XP (тег source в AddXP).
const (
	SourceLesson      = "lesson"
	SourceTask        = "task"
	SourceGame        = "game"
	SourceStreak      = "streak"
	SourceAchievement = "achievement"
	SourceDailyLogin  = "daily_login"
	SourceReversal    = "task_reverted"
)

// ══════════════════════════════════════════════════════════════════════════════
// INVENTORY
// ══════════════════════════════════════════════════════════════════════════════

// InventoryItem представляет предмет в инвентаре аватара.
// Инвариант: Quantity всегда > 0 - записи с нулевым количеством удаляются.
type InventoryItem struct {
	// Item - имя предмета (например, "Health Potion").
	Item string `json:"item"`

	// Quantity - количество предметов.
	Quantity int `json:"quantity"`

	// AcquiredAt - когда предмет впервые появился в инвентаре.
	AcquiredAt time.Time `json:"acquiredAt"`
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: AVATAR
// ══════════════════════════════════════════════════════════════════════════════

// Avatar - геймификационное состояние пользователя FinEdu.
// Ровно один аватар на пользователя; движок - единственный писатель.
type Avatar struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// UserID - идентификатор владельца аватара.
	UserID string

	// XP - текущее количество очков опыта.
	// Уровень не хранится отдельно: он всегда вычисляется из XP (см. Level).
	XP XP

	// Health - здоровье в диапазоне [0, 100].
	Health Health

	// Streak - текущая серия активных календарных дней.
	Streak int

	// MaxStreak - лучшая серия дней за всё время.
	MaxStreak int

	// TotalLessonsCompleted - всего выполнено уроков.
	TotalLessonsCompleted int

	// TotalTasksCompleted - всего выполнено задач.
	TotalTasksCompleted int

	// TotalGamesPlayed - всего сыграно мини-игр.
	TotalGamesPlayed int

	// Achievements - полученные достижения (append-only, без дубликатов).
	Achievements []AchievementType

	// Inventory - предметы аватара.
	Inventory []InventoryItem

	// LastActivityDate - время последней активности, начисляющей XP
	// или обновляющей серию.
	LastActivityDate time.Time

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrAvatarNotFound - аватар не найден.
	ErrAvatarNotFound = errors.New("avatar not found")

	// ErrAvatarAlreadyExists - аватар уже существует.
	ErrAvatarAlreadyExists = errors.New("avatar already exists")

	// ErrEmptyXPSource - пустой тег источника XP (нарушение контракта вызова).
	ErrEmptyXPSource = errors.New("xp source tag must not be empty")

	// ErrUnknownAchievement - неизвестный идентификатор достижения.
	ErrUnknownAchievement = errors.New("unknown achievement id")

	// ErrInvalidItem - пустое имя предмета инвентаря.
	ErrInvalidItem = errors.New("inventory item name must not be empty")

	// ErrInvalidQuantity - количество предметов должно быть положительным.
	ErrInvalidQuantity = errors.New("inventory quantity must be positive")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewAvatar создаёт аватар с состоянием по умолчанию:
// уровень 1, 0 XP, 100 здоровья, серия 0.
func NewAvatar(id, userID string) (*Avatar, error) {
	if id == "" {
		return nil, errors.New("avatar id is required")
	}
	if userID == "" {
		return nil, errors.New("avatar user id is required")
	}

	now := time.Now().UTC()

	return &Avatar{
		ID:               id,
		UserID:           userID,
		XP:               0,
		Health:           MaxHealth,
		Streak:           0,
		MaxStreak:        0,
		Achievements:     []AchievementType{},
		Inventory:        []InventoryItem{},
		LastActivityDate: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// Level возвращает текущий уровень аватара.
// Уровень всегда производен от XP и нигде не хранится независимо.
func (a *Avatar) Level() Level {
	return CalculateLevel(a.XP)
}

// HasAchievement проверяет, разблокировано ли достижение.
func (a *Avatar) HasAchievement(t AchievementType) bool {
	for _, existing := range a.Achievements {
		if existing == t {
			return true
		}
	}
	return false
}

// ItemQuantity возвращает количество предмета в инвентаре (0, если нет).
func (a *Avatar) ItemQuantity(item string) int {
	for _, inv := range a.Inventory {
		if inv.Item == item {
			return inv.Quantity
		}
	}
	return 0
}

// Reset переинициализирует аватар в состояние по умолчанию.
// Аватар никогда не удаляется физически - сброс обнуляет прогресс,
// сохраняя идентичность и время создания.
func (a *Avatar) Reset() {
	now := time.Now().UTC()

	a.XP = 0
	a.Health = MaxHealth
	a.Streak = 0
	a.MaxStreak = 0
	a.TotalLessonsCompleted = 0
	a.TotalTasksCompleted = 0
	a.TotalGamesPlayed = 0
	a.Achievements = []AchievementType{}
	a.Inventory = []InventoryItem{}
	a.LastActivityDate = now
	a.UpdatedAt = now
}

// String возвращает строковое представление аватара для логирования.
func (a *Avatar) String() string {
	return fmt.Sprintf(
		"Avatar{ID: %s, User: %s, XP: %d, Level: %d, Health: %d, Streak: %d}",
		a.ID, a.UserID, a.XP, a.Level(), a.Health, a.Streak,
	)
}

// Clone создаёт глубокую копию аватара.
// Пустые (не nil) срезы остаются пустыми, а не превращаются в nil.
func (a *Avatar) Clone() *Avatar {
	if a == nil {
		return nil
	}

	clone := *a
	if a.Achievements != nil {
		clone.Achievements = make([]AchievementType, len(a.Achievements))
		copy(clone.Achievements, a.Achievements)
	}
	if a.Inventory != nil {
		clone.Inventory = make([]InventoryItem, len(a.Inventory))
		copy(clone.Inventory, a.Inventory)
	}
	return &clone
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS VIEW
// ══════════════════════════════════════════════════════════════════════════════

// Stats - производное read-only представление аватара для API.
type Stats struct {
	Level                 int               `json:"level"`
	XP                    int               `json:"xp"`
	Health                int               `json:"health"`
	Streak                int               `json:"streak"`
	MaxStreak             int               `json:"maxStreak"`
	XPForNextLevel        int               `json:"xpForNextLevel"`
	XPProgress            float64           `json:"xpProgress"`
	HealthPercentage      int               `json:"healthPercentage"`
	TotalLessonsCompleted int               `json:"totalLessonsCompleted"`
	TotalTasksCompleted   int               `json:"totalTasksCompleted"`
	TotalGamesPlayed      int               `json:"totalGamesPlayed"`
	Achievements          []AchievementType `json:"achievements"`
	Inventory             []InventoryItem   `json:"inventory"`
}

// Stats вычисляет представление статистики.
// Чистая функция текущего состояния, без побочных эффектов.
func (a *Avatar) Stats() Stats {
	level := int(a.Level())

	xpIntoLevel := int(a.XP) - (level-1)*XPPerLevel
	progress := float64(xpIntoLevel) / float64(XPPerLevel) * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return Stats{
		Level:                 level,
		XP:                    int(a.XP),
		Health:                int(a.Health),
		Streak:                a.Streak,
		MaxStreak:             a.MaxStreak,
		XPForNextLevel:        level * XPPerLevel,
		XPProgress:            progress,
		HealthPercentage:      int(a.Health),
		TotalLessonsCompleted: a.TotalLessonsCompleted,
		TotalTasksCompleted:   a.TotalTasksCompleted,
		TotalGamesPlayed:      a.TotalGamesPlayed,
		Achievements:          append([]AchievementType(nil), a.Achievements...),
		Inventory:             append([]InventoryItem(nil), a.Inventory...),
	}
}
