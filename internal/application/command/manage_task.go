package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/internal/domain/task"
	"github.com/finedu-app/finedu-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK CRUD COMMANDS
// Completion toggling lives in complete_task.go; this file covers the
// plain create/update/delete lifecycle.
// ══════════════════════════════════════════════════════════════════════════════

// CreateTaskCommand creates a new task for a user.
type CreateTaskCommand struct {
	UserID      string
	Title       string
	Description string
	Priority    string
	XPReward    int
	DueDate     time.Time
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	tasks task.Repository
	log   *logger.Logger
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(tasks task.Repository, log *logger.Logger) *CreateTaskHandler {
	return &CreateTaskHandler{
		tasks: tasks,
		log:   log.With(logger.Component("create_task")),
	}
}

// Handle creates the task.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*task.Task, error) {
	t, err := task.NewTask(uuid.NewString(), cmd.UserID, cmd.Title)
	if err != nil {
		return nil, err
	}

	t.Description = cmd.Description
	t.DueDate = cmd.DueDate
	if cmd.Priority != "" {
		p := task.Priority(cmd.Priority)
		if !p.IsValid() {
			return nil, shared.NewDomainError("task", "Create", shared.ErrInvalidInput, "invalid priority")
		}
		t.Priority = p
	}
	if cmd.XPReward > 0 {
		t.XPReward = cmd.XPReward
	}

	if err := h.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	h.log.Info("task created", logger.UserID(cmd.UserID), logger.TaskID(t.ID))
	return t, nil
}

// UpdateTaskCommand edits an existing task.
type UpdateTaskCommand struct {
	UserID      string
	TaskID      string
	Title       string
	Description string
	Priority    string
	DueDate     time.Time
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	tasks task.Repository
	log   *logger.Logger
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(tasks task.Repository, log *logger.Logger) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		tasks: tasks,
		log:   log.With(logger.Component("update_task")),
	}
}

// Handle applies the edit.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*task.Task, error) {
	t, err := h.tasks.GetByID(ctx, cmd.TaskID)
	if err != nil {
		return nil, err
	}
	if !t.IsOwnedBy(cmd.UserID) {
		return nil, shared.ErrTaskNotOwned
	}

	priority := t.Priority
	if cmd.Priority != "" {
		priority = task.Priority(cmd.Priority)
	}

	if err := t.Update(cmd.Title, cmd.Description, priority, cmd.DueDate); err != nil {
		return nil, err
	}
	if err := h.tasks.Update(ctx, t); err != nil {
		return nil, err
	}

	h.log.Info("task updated", logger.UserID(cmd.UserID), logger.TaskID(t.ID))
	return t, nil
}

// DeleteTaskCommand removes a task.
type DeleteTaskCommand struct {
	UserID string
	TaskID string
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	tasks task.Repository
	log   *logger.Logger
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(tasks task.Repository, log *logger.Logger) *DeleteTaskHandler {
	return &DeleteTaskHandler{
		tasks: tasks,
		log:   log.With(logger.Component("delete_task")),
	}
}

// Handle deletes the task.
// Deleting a completed task does not claw back its XP; only explicit
// un-completion reverses rewards.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	t, err := h.tasks.GetByID(ctx, cmd.TaskID)
	if err != nil {
		return err
	}
	if !t.IsOwnedBy(cmd.UserID) {
		return shared.ErrTaskNotOwned
	}

	if err := h.tasks.Delete(ctx, cmd.TaskID); err != nil {
		return err
	}

	h.log.Info("task deleted", logger.UserID(cmd.UserID), logger.TaskID(cmd.TaskID))
	return nil
}
