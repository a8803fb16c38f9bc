// Package user содержит доменную модель пользователя FinEdu.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package user

import (
	"fmt"
	"time"

	"github.com/finedu-app/finedu-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User - учётная запись пользователя FinEdu.
// Пароль хранится только в виде bcrypt-хеша; сам хеш вычисляется
// в infrastructure/auth, домен им не управляет.
type User struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// Email - нормализованный (нижний регистр) адрес почты, уникален.
	Email shared.Email

	// DisplayName - отображаемое имя пользователя.
	DisplayName string

	// PasswordHash - bcrypt-хеш пароля.
	PasswordHash string

	// CreatedAt - время регистрации.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewUser создаёт пользователя. Email уже должен быть провалидирован
// через shared.NewEmail, хеш пароля - вычислен заранее.
func NewUser(id string, email shared.Email, displayName, passwordHash string) (*User, error) {
	if id == "" {
		return nil, shared.NewDomainError("user", "New", shared.ErrInvalidID, "user id is required")
	}
	if !email.IsValid() {
		return nil, shared.ErrInvalidEmail
	}
	if displayName == "" {
		return nil, shared.NewDomainError("user", "New", shared.ErrEmptyValue, "display name is required")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("user", "New", shared.ErrEmptyValue, "password hash is required")
	}

	now := time.Now().UTC()

	return &User{
		ID:           id,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// Rename меняет отображаемое имя.
func (u *User) Rename(displayName string) error {
	if displayName == "" {
		return shared.NewDomainError("user", "Rename", shared.ErrEmptyValue, "display name is required")
	}
	u.DisplayName = displayName
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// ChangePasswordHash заменяет хеш пароля.
func (u *User) ChangePasswordHash(hash string) error {
	if hash == "" {
		return shared.NewDomainError("user", "ChangePassword", shared.ErrEmptyValue, "password hash is required")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление для логирования (без хеша).
func (u *User) String() string {
	return fmt.Sprintf("User{ID: %s, Email: %s, Name: %s}", u.ID, u.Email, u.DisplayName)
}
