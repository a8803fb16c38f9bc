// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET AVATAR STATS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// AvatarStatsView is the API view of an avatar: computed stats plus the
// caller's leaderboard rank (0 when unranked).
type AvatarStatsView struct {
	avatar.Stats
	Rank int `json:"rank,omitempty"`
}

// GetAvatarStatsHandler returns the computed avatar statistics.
type GetAvatarStatsHandler struct {
	avatars     avatar.Repository
	leaderboard avatar.LeaderboardCache
	log         *logger.Logger
}

// NewGetAvatarStatsHandler creates a new GetAvatarStatsHandler.
func NewGetAvatarStatsHandler(
	avatars avatar.Repository,
	leaderboard avatar.LeaderboardCache,
	log *logger.Logger,
) *GetAvatarStatsHandler {
	return &GetAvatarStatsHandler{
		avatars:     avatars,
		leaderboard: leaderboard,
		log:         log.With(logger.Component("get_avatar_stats")),
	}
}

// Handle computes the stats view.
func (h *GetAvatarStatsHandler) Handle(ctx context.Context, userID string) (*AvatarStatsView, error) {
	if userID == "" {
		return nil, shared.NewDomainError("avatar", "GetStats", shared.ErrInvalidID, "user id is required")
	}

	av, err := h.avatars.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &AvatarStatsView{Stats: av.Stats()}

	// Rank is best-effort: the stats endpoint works without Redis.
	rank, err := h.leaderboard.Rank(ctx, userID)
	if err != nil {
		h.log.Warn("rank lookup failed", logger.UserID(userID), logger.Err(err))
	} else {
		view.Rank = rank
	}

	return view, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET ACHIEVEMENTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// AchievementView is one catalog entry with the unlock flag for a user.
type AchievementView struct {
	Type        avatar.AchievementType `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Emoji       string                 `json:"emoji"`
	Unlocked    bool                   `json:"unlocked"`
}

// GetAchievementsHandler returns the full achievement catalog annotated
// with the user's unlocks.
type GetAchievementsHandler struct {
	avatars avatar.Repository
}

// NewGetAchievementsHandler creates a new GetAchievementsHandler.
func NewGetAchievementsHandler(avatars avatar.Repository) *GetAchievementsHandler {
	return &GetAchievementsHandler{avatars: avatars}
}

// Handle builds the annotated catalog.
func (h *GetAchievementsHandler) Handle(ctx context.Context, userID string) ([]AchievementView, error) {
	if userID == "" {
		return nil, shared.NewDomainError("avatar", "GetAchievements", shared.ErrInvalidID, "user id is required")
	}

	av, err := h.avatars.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	defs := avatar.GetAchievementDefinitions()
	views := make([]AchievementView, 0, len(defs))
	for _, def := range defs {
		views = append(views, AchievementView{
			Type:        def.Type,
			Name:        def.Name,
			Description: def.Description,
			Emoji:       def.Emoji,
			Unlocked:    av.HasAchievement(def.Type),
		})
	}
	return views, nil
}
