package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/internal/domain/user"
	"github.com/finedu-app/finedu-backend/pkg/logger"
	"github.com/finedu-app/finedu-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN USER COMMAND
// Besides issuing the session token, the first login of a calendar day
// counts as avatar activity: daily login XP, time-of-day achievements
// and the streak update all happen here.
// ══════════════════════════════════════════════════════════════════════════════

// LoginUserCommand contains the login credentials.
type LoginUserCommand struct {
	Email    string
	Password string
}

// Validate validates the command.
func (c LoginUserCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return shared.ErrInvalidCredentials
	}
	return nil
}

// LoginUserResult contains the result of a login.
type LoginUserResult struct {
	UserID        string                `json:"userId"`
	Email         string                `json:"email"`
	DisplayName   string                `json:"displayName"`
	Token         string                `json:"token"`
	Avatar        avatar.Stats          `json:"avatar"`
	Notifications []avatar.Notification `json:"notifications,omitempty"`
}

// LoginUserHandler handles the LoginUserCommand.
type LoginUserHandler struct {
	users       user.Repository
	avatars     avatar.Repository
	sessions    user.SessionStore
	leaderboard avatar.LeaderboardCache
	hasher      PasswordHasher
	tokens      TokenGenerator
	sessionTTL  time.Duration
	log         *logger.Logger
}

// NewLoginUserHandler creates a new LoginUserHandler.
func NewLoginUserHandler(
	users user.Repository,
	avatars avatar.Repository,
	sessions user.SessionStore,
	leaderboard avatar.LeaderboardCache,
	hasher PasswordHasher,
	tokens TokenGenerator,
	sessionTTL time.Duration,
	log *logger.Logger,
) *LoginUserHandler {
	return &LoginUserHandler{
		users:       users,
		avatars:     avatars,
		sessions:    sessions,
		leaderboard: leaderboard,
		hasher:      hasher,
		tokens:      tokens,
		sessionTTL:  sessionTTL,
		log:         log.With(logger.Component("login_user")),
	}
}

// Handle executes the login.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	u, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		// Not-found collapses into invalid credentials: the API must
		// not reveal which emails are registered.
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login_user: get user: %w", err)
	}

	if err := h.hasher.Compare(u.PasswordHash, cmd.Password); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	token, err := h.tokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("login_user: generate token: %w", err)
	}
	if err := h.sessions.Save(ctx, token, u.ID, h.sessionTTL); err != nil {
		return nil, fmt.Errorf("login_user: save session: %w", err)
	}

	av, err := h.avatars.GetByUserID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("login_user: get avatar: %w", err)
	}

	notifs, err := av.RecordDailyLogin(timeutil.NowUTC())
	if err != nil {
		return nil, fmt.Errorf("login_user: record daily login: %w", err)
	}
	if len(notifs) > 0 {
		if err := h.avatars.Update(ctx, av); err != nil {
			return nil, fmt.Errorf("login_user: save avatar: %w", err)
		}
		if err := h.leaderboard.SetScore(ctx, u.ID, av.XP); err != nil {
			h.log.Warn("leaderboard update failed", logger.UserID(u.ID), logger.Err(err))
		}
	}

	h.log.Info("user logged in", logger.UserID(u.ID), logger.Streak(av.Streak))

	return &LoginUserResult{
		UserID:        u.ID,
		Email:         u.Email.String(),
		DisplayName:   u.DisplayName,
		Token:         token,
		Avatar:        av.Stats(),
		Notifications: notifs,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LOGOUT
// ══════════════════════════════════════════════════════════════════════════════

// LogoutUserHandler revokes a session token.
type LogoutUserHandler struct {
	sessions user.SessionStore
}

// NewLogoutUserHandler creates a new LogoutUserHandler.
func NewLogoutUserHandler(sessions user.SessionStore) *LogoutUserHandler {
	return &LogoutUserHandler{sessions: sessions}
}

// Handle revokes the token.
func (h *LogoutUserHandler) Handle(ctx context.Context, token string) error {
	if token == "" {
		return shared.ErrUnauthorized
	}
	return h.sessions.Revoke(ctx, token)
}
