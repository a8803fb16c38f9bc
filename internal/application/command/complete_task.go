package command

import (
	"context"
	"fmt"

	"github.com/finedu-app/finedu-backend/internal/domain/avatar"
	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/internal/domain/task"
	"github.com/finedu-app/finedu-backend/pkg/logger"
	"github.com/finedu-app/finedu-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE TASK COMMAND
// Task completion is a toggle. Completing grants XP and counts for the
// streak; un-completing reverses exactly the XP the task granted and
// decrements the counter, but never touches the streak.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteTaskCommand toggles completion of a task.
type CompleteTaskCommand struct {
	// UserID is the authenticated caller.
	UserID string

	// TaskID is the task to toggle.
	TaskID string
}

// Validate validates the command.
func (c CompleteTaskCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("task", "Complete", shared.ErrInvalidID, "user id is required")
	}
	if c.TaskID == "" {
		return shared.NewDomainError("task", "Complete", shared.ErrInvalidID, "task id is required")
	}
	return nil
}

// CompleteTaskResult is the outcome of the toggle.
type CompleteTaskResult struct {
	Message       string                `json:"message"`
	XPEarned      int                   `json:"xpEarned"`
	Completed     bool                  `json:"completed"`
	Avatar        avatar.Stats          `json:"avatar"`
	Notifications []avatar.Notification `json:"notifications,omitempty"`
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	tasks       task.Repository
	avatars     avatar.Repository
	leaderboard avatar.LeaderboardCache
	log         *logger.Logger
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(
	tasks task.Repository,
	avatars avatar.Repository,
	leaderboard avatar.LeaderboardCache,
	log *logger.Logger,
) *CompleteTaskHandler {
	return &CompleteTaskHandler{
		tasks:       tasks,
		avatars:     avatars,
		leaderboard: leaderboard,
		log:         log.With(logger.Component("complete_task")),
	}
}

// Handle toggles task completion and applies the progression effects.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) (*CompleteTaskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t, err := h.tasks.GetByID(ctx, cmd.TaskID)
	if err != nil {
		return nil, err
	}
	if !t.IsOwnedBy(cmd.UserID) {
		return nil, shared.ErrTaskNotOwned
	}

	av, err := h.avatars.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("complete_task: get avatar: %w", err)
	}

	now := timeutil.NowUTC()

	var (
		notifs   []avatar.Notification
		xpEarned int
		message  string
	)

	if !t.Completed {
		t.MarkCompleted(now)
		notifs, err = av.CompleteTask(avatar.TaskResult{XPReward: avatar.XP(t.XPReward)}, now)
		if err != nil {
			return nil, fmt.Errorf("complete_task: apply completion: %w", err)
		}
		xpEarned = t.XPReward
		message = "Task completed"
	} else {
		t.MarkIncomplete(now)
		notifs, err = av.RevertTask(avatar.XP(t.XPReward))
		if err != nil {
			return nil, fmt.Errorf("complete_task: revert completion: %w", err)
		}
		xpEarned = -t.XPReward
		message = "Task marked incomplete"
	}

	if err := h.tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("complete_task: save task: %w", err)
	}
	if err := h.avatars.Update(ctx, av); err != nil {
		return nil, fmt.Errorf("complete_task: save avatar: %w", err)
	}
	if err := h.leaderboard.SetScore(ctx, cmd.UserID, av.XP); err != nil {
		h.log.Warn("leaderboard update failed", logger.UserID(cmd.UserID), logger.Err(err))
	}

	h.log.Info("task toggled",
		logger.UserID(cmd.UserID),
		logger.TaskID(cmd.TaskID),
		logger.XPAmount(xpEarned),
		logger.Bool("completed", t.Completed),
	)

	return &CompleteTaskResult{
		Message:       message,
		XPEarned:      xpEarned,
		Completed:     t.Completed,
		Avatar:        av.Stats(),
		Notifications: notifs,
	}, nil
}
