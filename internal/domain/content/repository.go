package content

import (
	"context"
)

// LessonRepository определяет операции каталога уроков.
type LessonRepository interface {
	// GetByID возвращает урок.
	// Возвращает shared.ErrLessonNotFound, если не найден.
	GetByID(ctx context.Context, id string) (*Lesson, error)

	// List возвращает все уроки, отсортированные по категории и позиции.
	List(ctx context.Context) ([]*Lesson, error)

	// Upsert добавляет или обновляет урок (для сидинга каталога).
	Upsert(ctx context.Context, l *Lesson) error
}

// GameRepository определяет операции каталога мини-игр.
type GameRepository interface {
	// GetByID возвращает игру.
	// Возвращает shared.ErrGameNotFound, если не найдена.
	GetByID(ctx context.Context, id string) (*Game, error)

	// List возвращает все игры.
	List(ctx context.Context) ([]*Game, error)

	// Upsert добавляет или обновляет игру (для сидинга каталога).
	Upsert(ctx context.Context, g *Game) error
}
