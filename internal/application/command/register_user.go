package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/internal/domain/user"
	"github.com/finedu-app/finedu-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER USER COMMAND
// Creates the account and its avatar in one operation: every user has
// exactly one avatar from the moment of registration.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterUserCommand contains the registration data.
type RegisterUserCommand struct {
	Email       string
	Password    string
	DisplayName string
}

// Validate validates the command.
func (c RegisterUserCommand) Validate() error {
	if _, err := shared.NewEmail(c.Email); err != nil {
		return err
	}
	if _, err := shared.NewPlainPassword(c.Password); err != nil {
		return err
	}
	if c.DisplayName == "" {
		return shared.NewDomainError("user", "Register", shared.ErrEmptyValue, "display name is required")
	}
	return nil
}

// RegisterUserResult contains the result of a registration.
type RegisterUserResult struct {
	UserID      string       `json:"userId"`
	Email       string       `json:"email"`
	DisplayName string       `json:"displayName"`
	Token       string       `json:"token"`
	Avatar      avatar.Stats `json:"avatar"`
}

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	users      user.Repository
	avatars    avatar.Repository
	sessions   user.SessionStore
	hasher     PasswordHasher
	tokens     TokenGenerator
	sessionTTL time.Duration
	log        *logger.Logger
}

// NewRegisterUserHandler creates a new RegisterUserHandler.
func NewRegisterUserHandler(
	users user.Repository,
	avatars avatar.Repository,
	sessions user.SessionStore,
	hasher PasswordHasher,
	tokens TokenGenerator,
	sessionTTL time.Duration,
	log *logger.Logger,
) *RegisterUserHandler {
	return &RegisterUserHandler{
		users:      users,
		avatars:    avatars,
		sessions:   sessions,
		hasher:     hasher,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		log:        log.With(logger.Component("register_user")),
	}
}

// Handle executes the registration.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	email, _ := shared.NewEmail(cmd.Email)

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("register_user: hash password: %w", err)
	}

	u, err := user.NewUser(uuid.NewString(), email, cmd.DisplayName, hash)
	if err != nil {
		return nil, err
	}

	if err := h.users.Create(ctx, u); err != nil {
		return nil, err
	}

	av, err := avatar.NewAvatar(uuid.NewString(), u.ID)
	if err != nil {
		return nil, fmt.Errorf("register_user: create avatar: %w", err)
	}
	if err := h.avatars.Create(ctx, av); err != nil {
		return nil, fmt.Errorf("register_user: save avatar: %w", err)
	}

	token, err := h.tokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("register_user: generate token: %w", err)
	}
	if err := h.sessions.Save(ctx, token, u.ID, h.sessionTTL); err != nil {
		return nil, fmt.Errorf("register_user: save session: %w", err)
	}

	h.log.Info("user registered", logger.UserID(u.ID), logger.Email(u.Email.String()))

	return &RegisterUserResult{
		UserID:      u.ID,
		Email:       u.Email.String(),
		DisplayName: u.DisplayName,
		Token:       token,
		Avatar:      av.Stats(),
	}, nil
}
