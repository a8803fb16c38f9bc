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
// COMPLETE LESSON COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CompleteLessonCommand reports a finished lesson.
type CompleteLessonCommand struct {
	UserID   string
	LessonID string
	Score    int
}

// Validate validates the command.
func (c CompleteLessonCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("content", "CompleteLesson", shared.ErrInvalidID, "user id is required")
	}
	if c.LessonID == "" {
		return shared.NewDomainError("content", "CompleteLesson", shared.ErrInvalidID, "lesson id is required")
	}
	if _, err := shared.NewScore(c.Score); err != nil {
		return err
	}
	return nil
}

// CompleteLessonResult is the outcome of a lesson completion.
type CompleteLessonResult struct {
	Message       string                `json:"message"`
	XPEarned      int                   `json:"xpEarned"`
	Avatar        avatar.Stats          `json:"avatar"`
	Notifications []avatar.Notification `json:"notifications,omitempty"`
}

// CompleteLessonHandler handles the CompleteLessonCommand.
type CompleteLessonHandler struct {
	lessons     content.LessonRepository
	avatars     avatar.Repository
	leaderboard avatar.LeaderboardCache
	log         *logger.Logger
}

// NewCompleteLessonHandler creates a new CompleteLessonHandler.
func NewCompleteLessonHandler(
	lessons content.LessonRepository,
	avatars avatar.Repository,
	leaderboard avatar.LeaderboardCache,
	log *logger.Logger,
) *CompleteLessonHandler {
	return &CompleteLessonHandler{
		lessons:     lessons,
		avatars:     avatars,
		leaderboard: leaderboard,
		log:         log.With(logger.Component("complete_lesson")),
	}
}

// Handle applies the lesson completion to the avatar.
func (h *CompleteLessonHandler) Handle(ctx context.Context, cmd CompleteLessonCommand) (*CompleteLessonResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	lesson, err := h.lessons.GetByID(ctx, cmd.LessonID)
	if err != nil {
		return nil, err
	}

	av, err := h.avatars.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("complete_lesson: get avatar: %w", err)
	}

	notifs, err := av.CompleteLesson(avatar.LessonResult{
		Score:    cmd.Score,
		XPReward: avatar.XP(lesson.XPReward),
	}, timeutil.NowUTC())
	if err != nil {
		return nil, fmt.Errorf("complete_lesson: apply completion: %w", err)
	}

	if err := h.avatars.Update(ctx, av); err != nil {
		return nil, fmt.Errorf("complete_lesson: save avatar: %w", err)
	}
	if err := h.leaderboard.SetScore(ctx, cmd.UserID, av.XP); err != nil {
		h.log.Warn("leaderboard update failed", logger.UserID(cmd.UserID), logger.Err(err))
	}

	h.log.Info("lesson completed",
		logger.UserID(cmd.UserID),
		logger.LessonID(cmd.LessonID),
		logger.Int("score", cmd.Score),
		logger.XPAmount(lesson.XPReward),
	)

	return &CompleteLessonResult{
		Message:       "Lesson completed",
		XPEarned:      lesson.XPReward,
		Avatar:        av.Stats(),
		Notifications: notifs,
	}, nil
}
