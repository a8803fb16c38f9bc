package user

import (
	"context"
	"time"
)

// Repository определяет операции хранения пользователей.
type Repository interface {
	// Create создаёт пользователя.
	// Возвращает shared.ErrEmailTaken, если email уже занят.
	Create(ctx context.Context, u *User) error

	// GetByID возвращает пользователя по идентификатору.
	// Возвращает shared.ErrUserNotFound, если не найден.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail возвращает пользователя по нормализованному email.
	// Возвращает shared.ErrUserNotFound, если не найден.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update сохраняет изменения пользователя.
	Update(ctx context.Context, u *User) error
}

// SessionStore хранит активные bearer-токены.
// Токен непрозрачен: значение не несёт информации, сопоставление
// токен -> userID живёт в Redis с TTL.
type SessionStore interface {
	// Save создаёт сессию с временем жизни ttl.
	Save(ctx context.Context, token, userID string, ttl time.Duration) error

	// Resolve возвращает userID по токену.
	// Возвращает shared.ErrSessionExpired, если токена нет.
	Resolve(ctx context.Context, token string) (string, error)

	// Revoke удаляет сессию (logout).
	Revoke(ctx context.Context, token string) error
}
