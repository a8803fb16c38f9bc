package query

import (
	"context"
	"fmt"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// The Redis sorted set is the fast path; Postgres is the source of
// truth. On a cache miss the board is rebuilt from the database.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultLeaderboardLimit is used when the caller does not specify one.
const DefaultLeaderboardLimit = 10

// MaxLeaderboardLimit caps the requested leaderboard size.
const MaxLeaderboardLimit = 100

// GetLeaderboardHandler returns the top avatars by XP.
type GetLeaderboardHandler struct {
	avatars avatar.Repository
	cache   avatar.LeaderboardCache
	log     *logger.Logger
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
func NewGetLeaderboardHandler(
	avatars avatar.Repository,
	cache avatar.LeaderboardCache,
	log *logger.Logger,
) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		avatars: avatars,
		cache:   cache,
		log:     log.With(logger.Component("get_leaderboard")),
	}
}

// Handle returns the top entries.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, limit int) ([]avatar.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return nil, shared.ErrInvalidLimit
	}

	entries, err := h.cache.Top(ctx, limit)
	if err == nil && len(entries) > 0 {
		return entries, nil
	}
	if err != nil {
		h.log.Warn("leaderboard cache read failed", logger.Err(err))
	}

	// Fallback: read from Postgres and rehydrate the cache.
	top, err := h.avatars.GetTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: fallback query: %w", err)
	}

	entries = make([]avatar.LeaderboardEntry, 0, len(top))
	for i, av := range top {
		entries = append(entries, avatar.LeaderboardEntry{
			UserID: av.UserID,
			XP:     av.XP,
			Rank:   i + 1,
		})
		if err := h.cache.SetScore(ctx, av.UserID, av.XP); err != nil {
			h.log.Warn("leaderboard rehydrate failed", logger.UserID(av.UserID), logger.Err(err))
		}
	}

	return entries, nil
}
