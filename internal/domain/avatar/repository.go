package avatar

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence. Движок сам не делает
// I/O: внешний слой загружает снимок аватара, вызывает операции движка и
// сохраняет результат. Read-modify-write на одного пользователя должен
// быть сериализован вызывающим слоем.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения аватаров.
type Repository interface {
	// Create создаёт новый аватар.
	// Возвращает ErrAvatarAlreadyExists, если аватар пользователя уже есть.
	Create(ctx context.Context, a *Avatar) error

	// GetByUserID возвращает аватар пользователя.
	// Возвращает ErrAvatarNotFound, если аватар не найден.
	GetByUserID(ctx context.Context, userID string) (*Avatar, error)

	// Update сохраняет снимок аватара после применения событий.
	// Возвращает ErrAvatarNotFound, если аватар не найден.
	Update(ctx context.Context, a *Avatar) error

	// GetTop возвращает аватары с наибольшим XP (для лидерборда).
	GetTop(ctx context.Context, limit int) ([]*Avatar, error)

	// Count возвращает общее количество аватаров.
	Count(ctx context.Context) (int, error)
}

// LeaderboardCache кеширует рейтинг аватаров по XP.
// Реализация - Redis sorted set; кеш вторичен по отношению к базе.
type LeaderboardCache interface {
	// SetScore записывает XP пользователя в рейтинг.
	SetScore(ctx context.Context, userID string, xp XP) error

	// Top возвращает первых n пользователей с их XP (по убыванию).
	Top(ctx context.Context, n int) ([]LeaderboardEntry, error)

	// Rank возвращает позицию пользователя (1-based).
	// Возвращает 0, если пользователя нет в рейтинге.
	Rank(ctx context.Context, userID string) (int, error)

	// Remove убирает пользователя из рейтинга (после сброса аватара).
	Remove(ctx context.Context, userID string) error
}

// LeaderboardEntry - одна строка рейтинга.
type LeaderboardEntry struct {
	// UserID - идентификатор пользователя.
	UserID string `json:"userId"`

	// XP - очки опыта.
	XP XP `json:"xp"`

	// Rank - позиция в рейтинге (1-based).
	Rank int `json:"rank"`
}
