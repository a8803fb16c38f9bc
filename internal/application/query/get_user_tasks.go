package query

import (
	"context"
	"time"

	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/internal/domain/task"
	"github.com/finedu-app/finedu-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER TASKS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// TaskView is the API view of a task with the computed status.
type TaskView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	XPReward    int        `json:"xpReward"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TaskListPage is a paginated task list.
type TaskListPage struct {
	Tasks    []TaskView `json:"tasks"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// GetUserTasksQuery describes the requested slice.
type GetUserTasksQuery struct {
	UserID     string
	Completed  *bool
	Pagination shared.Pagination
}

// GetUserTasksHandler lists a user's tasks.
type GetUserTasksHandler struct {
	tasks task.Repository
}

// NewGetUserTasksHandler creates a new GetUserTasksHandler.
func NewGetUserTasksHandler(tasks task.Repository) *GetUserTasksHandler {
	return &GetUserTasksHandler{tasks: tasks}
}

// Handle returns the requested task page.
func (h *GetUserTasksHandler) Handle(ctx context.Context, q GetUserTasksQuery) (*TaskListPage, error) {
	if q.UserID == "" {
		return nil, shared.NewDomainError("task", "List", shared.ErrInvalidID, "user id is required")
	}

	p := shared.NewPagination(q.Pagination.Page, q.Pagination.PageSize)
	filter := task.Filter{Completed: q.Completed}

	items, err := h.tasks.ListByUser(ctx, q.UserID, filter, p)
	if err != nil {
		return nil, err
	}
	total, err := h.tasks.CountByUser(ctx, q.UserID, filter)
	if err != nil {
		return nil, err
	}

	now := timeutil.NowUTC()
	views := make([]TaskView, 0, len(items))
	for _, t := range items {
		view := TaskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    string(t.Priority),
			Status:      string(t.Status(now)),
			XPReward:    t.XPReward,
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt,
		}
		if !t.DueDate.IsZero() {
			due := t.DueDate
			view.DueDate = &due
		}
		if !t.CompletedAt.IsZero() {
			completed := t.CompletedAt
			view.CompletedAt = &completed
		}
		views = append(views, view)
	}

	return &TaskListPage{
		Tasks:    views,
		Total:    total,
		Page:     p.Page,
		PageSize: p.Limit(),
	}, nil
}
