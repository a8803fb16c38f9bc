// Package redis implements the Redis infrastructure for the FinEdu backend.
package redis

import (
	"context"
	"errors"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// keyLeaderboardXP is the sorted set holding userID -> XP.
const keyLeaderboardXP = PrefixLeaderboard + "xp"

// ErrUserIDEmpty is returned when an empty user ID is provided.
var ErrUserIDEmpty = errors.New("leaderboard_cache: user id cannot be empty")

// LeaderboardCache implements avatar.LeaderboardCache on a Redis sorted set.
//
// A single set "leaderboard:xp" stores userID -> XP, which gives O(log N)
// rank lookups and O(log N + M) top-N queries. The cache is secondary to
// Postgres: on a miss or expiry the query layer rehydrates it from the
// avatars table, so every write sets a fresh TTL.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a new LeaderboardCache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// SetScore writes the user's XP into the ranking.
func (l *LeaderboardCache) SetScore(ctx context.Context, userID string, xp avatar.XP) error {
	if userID == "" {
		return ErrUserIDEmpty
	}

	pipe := l.cache.Client().Pipeline()
	pipe.ZAdd(ctx, keyLeaderboardXP, redis.Z{
		Score:  float64(xp),
		Member: userID,
	})
	pipe.Expire(ctx, keyLeaderboardXP, TTLLeaderboardCache)

	_, err := pipe.Exec(ctx)
	return err
}

// Top returns the first n users by XP, descending, with 1-based ranks.
func (l *LeaderboardCache) Top(ctx context.Context, n int) ([]avatar.LeaderboardEntry, error) {
	if n <= 0 {
		return []avatar.LeaderboardEntry{}, nil
	}

	members, err := l.cache.Client().ZRevRangeWithScores(ctx, keyLeaderboardXP, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]avatar.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		userID, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, avatar.LeaderboardEntry{
			UserID: userID,
			XP:     avatar.XP(int(m.Score)),
			Rank:   i + 1,
		})
	}

	return entries, nil
}

// Rank returns the user's 1-based position, or 0 if the user is not ranked.
func (l *LeaderboardCache) Rank(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrUserIDEmpty
	}

	rank, err := l.cache.Client().ZRevRank(ctx, keyLeaderboardXP, userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	return int(rank) + 1, nil
}

// Remove removes the user from the ranking (after an avatar reset).
func (l *LeaderboardCache) Remove(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUserIDEmpty
	}

	return l.cache.Client().ZRem(ctx, keyLeaderboardXP, userID).Err()
}
