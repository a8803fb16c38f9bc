// Package content содержит каталог учебного контента FinEdu:
// уроки финансовой грамотности и мини-игры.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package content

import (
	"time"

	"github.com/finedu-app/finedu-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LESSON
// ══════════════════════════════════════════════════════════════════════════════

// Category определяет тематику урока.
type Category string

const (
	CategoryBudgeting Category = "budgeting"
	CategorySaving    Category = "saving"
	CategoryInvesting Category = "investing"
	CategoryCredit    Category = "credit"
	CategoryTaxes     Category = "taxes"
)

// IsValid проверяет корректность категории.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBudgeting, CategorySaving, CategoryInvesting, CategoryCredit, CategoryTaxes:
		return true
	default:
		return false
	}
}

// Lesson - урок финансовой грамотности.
// Контент урока (слайды, вопросы) живёт во фронтенде; бэкенд хранит
// метаданные для начисления наград и прогресса.
type Lesson struct {
	// ID - уникальный идентификатор урока (UUID в строковом формате).
	ID string

	// Title - название урока.
	Title string

	// Category - тематика.
	Category Category

	// XPReward - награда за прохождение.
	XPReward int

	// SortOrder - позиция в списке уроков категории.
	SortOrder int

	// CreatedAt - время добавления в каталог.
	CreatedAt time.Time
}

// NewLesson создаёт урок с валидацией.
func NewLesson(id, title string, category Category, xpReward, sortOrder int) (*Lesson, error) {
	if id == "" {
		return nil, shared.NewDomainError("content", "NewLesson", shared.ErrInvalidID, "lesson id is required")
	}
	if title == "" {
		return nil, shared.NewDomainError("content", "NewLesson", shared.ErrEmptyValue, "lesson title is required")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("content", "NewLesson", shared.ErrInvalidInput, "invalid lesson category")
	}
	if xpReward < 0 {
		return nil, shared.NewDomainError("content", "NewLesson", shared.ErrNegativeValue, "xp reward cannot be negative")
	}

	return &Lesson{
		ID:        id,
		Title:     title,
		Category:  category,
		XPReward:  xpReward,
		SortOrder: sortOrder,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GAME
// ══════════════════════════════════════════════════════════════════════════════

// Game - мини-игра (симулятор бюджета, викторина и т.п.).
type Game struct {
	// ID - уникальный идентификатор игры (UUID в строковом формате).
	ID string

	// Title - название игры.
	Title string

	// XPReward - награда за прохождение.
	XPReward int

	// CreatedAt - время добавления в каталог.
	CreatedAt time.Time
}

// NewGame создаёт игру с валидацией.
func NewGame(id, title string, xpReward int) (*Game, error) {
	if id == "" {
		return nil, shared.NewDomainError("content", "NewGame", shared.ErrInvalidID, "game id is required")
	}
	if title == "" {
		return nil, shared.NewDomainError("content", "NewGame", shared.ErrEmptyValue, "game title is required")
	}
	if xpReward < 0 {
		return nil, shared.NewDomainError("content", "NewGame", shared.ErrNegativeValue, "xp reward cannot be negative")
	}

	return &Game{
		ID:        id,
		Title:     title,
		XPReward:  xpReward,
		CreatedAt: time.Now().UTC(),
	}, nil
}
