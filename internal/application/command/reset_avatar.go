package command

import (
	"context"
	"fmt"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET AVATAR COMMAND
// Resets progression to the initial state. The avatar row and its
// identity survive; only progress is wiped.
// ══════════════════════════════════════════════════════════════════════════════

// ResetAvatarHandler handles avatar resets.
type ResetAvatarHandler struct {
	avatars     avatar.Repository
	leaderboard avatar.LeaderboardCache
	log         *logger.Logger
}

// NewResetAvatarHandler creates a new ResetAvatarHandler.
func NewResetAvatarHandler(
	avatars avatar.Repository,
	leaderboard avatar.LeaderboardCache,
	log *logger.Logger,
) *ResetAvatarHandler {
	return &ResetAvatarHandler{
		avatars:     avatars,
		leaderboard: leaderboard,
		log:         log.With(logger.Component("reset_avatar")),
	}
}

// Handle resets the user's avatar.
func (h *ResetAvatarHandler) Handle(ctx context.Context, userID string) (avatar.Stats, error) {
	if userID == "" {
		return avatar.Stats{}, shared.NewDomainError("avatar", "Reset", shared.ErrInvalidID, "user id is required")
	}

	av, err := h.avatars.GetByUserID(ctx, userID)
	if err != nil {
		return avatar.Stats{}, err
	}

	av.Reset()

	if err := h.avatars.Update(ctx, av); err != nil {
		return avatar.Stats{}, fmt.Errorf("reset_avatar: save avatar: %w", err)
	}
	if err := h.leaderboard.Remove(ctx, userID); err != nil {
		h.log.Warn("leaderboard removal failed", logger.UserID(userID), logger.Err(err))
	}

	h.log.Info("avatar reset", logger.UserID(userID))
	return av.Stats(), nil
}
