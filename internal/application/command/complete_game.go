package command

import (
	"context"
	"fmt"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/content"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/pkg/logger"
	"github.com/finedu-app/finedu-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE GAME COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CompleteGameCommand reports a finished mini-game.
type CompleteGameCommand struct {
	UserID string
	GameID string
	Score  int
}

// Validate validates the command.
func (c CompleteGameCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("content", "CompleteGame", shared.ErrInvalidID, "user id is required")
	}
	if c.GameID == "" {
		return shared.NewDomainError("content", "CompleteGame", shared.ErrInvalidID, "game id is required")
	}
	if _, err := shared.NewScore(c.Score); err != nil {
		return err
	}
	return nil
}

// CompleteGameResult is the outcome of a game completion.
type CompleteGameResult struct {
	Message       string                `json:"message"`
	XPEarned      int                   `json:"xpEarned"`
	Avatar        avatar.Stats          `json:"avatar"`
	Notifications []avatar.Notification `json:"notifications,omitempty"`
}

// CompleteGameHandler handles the CompleteGameCommand.
type CompleteGameHandler struct {
	games       content.GameRepository
	avatars     avatar.Repository
	leaderboard avatar.LeaderboardCache
	log         *logger.Logger
}

// NewCompleteGameHandler creates a new CompleteGameHandler.
func NewCompleteGameHandler(
	games content.GameRepository,
	avatars avatar.Repository,
	leaderboard avatar.LeaderboardCache,
	log *logger.Logger,
) *CompleteGameHandler {
	return &CompleteGameHandler{
		games:       games,
		avatars:     avatars,
		leaderboard: leaderboard,
		log:         log.With(logger.Component("complete_game")),
	}
}

// Handle applies the game completion to the avatar.
func (h *CompleteGameHandler) Handle(ctx context.Context, cmd CompleteGameCommand) (*CompleteGameResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	game, err := h.games.GetByID(ctx, cmd.GameID)
	if err != nil {
		return nil, err
	}

	av, err := h.avatars.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("complete_game: get avatar: %w", err)
	}

	notifs, err := av.CompleteGame(avatar.GameResult{
		Score:    cmd.Score,
		XPReward: avatar.XP(game.XPReward),
	}, timeutil.NowUTC())
	if err != nil {
		return nil, fmt.Errorf("complete_game: apply completion: %w", err)
	}

	if err := h.avatars.Update(ctx, av); err != nil {
		return nil, fmt.Errorf("complete_game: save avatar: %w", err)
	}
	if err := h.leaderboard.SetScore(ctx, cmd.UserID, av.XP); err != nil {
		h.log.Warn("leaderboard update failed", logger.UserID(cmd.UserID), logger.Err(err))
	}

	h.log.Info("game completed",
		logger.UserID(cmd.UserID),
		logger.GameID(cmd.GameID),
		logger.Int("score", cmd.Score),
		logger.XPAmount(game.XPReward),
	)

	return &CompleteGameResult{
		Message:       "Game completed",
		XPEarned:      game.XPReward,
		Avatar:        av.Stats(),
		Notifications: notifs,
	}, nil
}
