package redis

import (
	"context"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/pkg/circuitbreaker"
	"github.com/finedu-app/finedu-backend/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Guarded leaderboard
// ──────────────────────────────────────────────────────────────────────────────

// GuardedLeaderboard wraps a LeaderboardCache with a circuit breaker.
//
// The leaderboard query layer treats any cache error as a miss and falls
// back to Postgres. Without the breaker a dead Redis adds a full dial
// timeout to every leaderboard request; with it, calls fail fast while
// the circuit is open and the fallback path carries the load.
type GuardedLeaderboard struct {
	inner   avatar.LeaderboardCache
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedLeaderboard wraps the given cache with a Redis circuit breaker.
func NewGuardedLeaderboard(inner avatar.LeaderboardCache, log *logger.Logger) *GuardedLeaderboard {
	cbLog := log.With(logger.Component("leaderboard_breaker"))
	return &GuardedLeaderboard{
		inner: inner,
		breaker: circuitbreaker.RedisBreaker(func(name string, from, to circuitbreaker.State) {
			cbLog.Warn("circuit state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	}
}

// SetScore writes the user's XP into the ranking.
func (g *GuardedLeaderboard) SetScore(ctx context.Context, userID string, xp avatar.XP) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.inner.SetScore(ctx, userID, xp)
	})
}

// Top returns the first n users by XP, descending.
func (g *GuardedLeaderboard) Top(ctx context.Context, n int) ([]avatar.LeaderboardEntry, error) {
	var entries []avatar.LeaderboardEntry
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		entries, innerErr = g.inner.Top(ctx, n)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Rank returns the user's 1-based position, or 0 if the user is not ranked.
func (g *GuardedLeaderboard) Rank(ctx context.Context, userID string) (int, error) {
	var rank int
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		rank, innerErr = g.inner.Rank(ctx, userID)
		return innerErr
	})
	if err != nil {
		return 0, err
	}
	return rank, nil
}

// Remove removes the user from the ranking.
func (g *GuardedLeaderboard) Remove(ctx context.Context, userID string) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.inner.Remove(ctx, userID)
	})
}
