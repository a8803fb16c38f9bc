// Package postgres implements the PostgreSQL persistence layer for the
// FinEdu backend.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/internal/domain/task"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TaskRepository implements task.Repository for PostgreSQL.
type TaskRepository struct {
	conn *Connection
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(conn *Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

const taskColumns = `id, user_id, title, description, priority, xp_reward,
	   completed, due_date, completed_at, created_at, updated_at`

// Create creates a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, user_id, title, description, priority, xp_reward,
			completed, due_date, completed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.conn.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		string(t.Priority),
		t.XPReward,
		t.Completed,
		nullableTime(t.DueDate),
		nullableTime(t.CompletedAt),
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID returns a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return scanTask(row)
}

// ListByUser returns the user's tasks, newest first.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string, f task.Filter, p shared.Pagination) ([]*task.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if f.Completed != nil {
		query += fmt.Sprintf(" AND completed = $%d", len(args)+1)
		args = append(args, *f.Completed)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, p.Limit(), p.Offset())

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// CountByUser returns the number of the user's tasks matching the filter.
func (r *TaskRepository) CountByUser(ctx context.Context, userID string, f task.Filter) (int, error) {
	query := "SELECT COUNT(*) FROM tasks WHERE user_id = $1"
	args := []interface{}{userID}

	if f.Completed != nil {
		query += " AND completed = $2"
		args = append(args, *f.Completed)
	}

	var count int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Update updates a task.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	query := `
		UPDATE tasks SET
			title = $1,
			description = $2,
			priority = $3,
			xp_reward = $4,
			completed = $5,
			due_date = $6,
			completed_at = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.conn.Exec(ctx, query,
		t.Title,
		t.Description,
		string(t.Priority),
		t.XPReward,
		t.Completed,
		nullableTime(t.DueDate),
		nullableTime(t.CompletedAt),
		time.Now().UTC(),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrTaskNotFound
	}

	return nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var t task.Task
	var priority string
	var dueDate, completedAt *time.Time

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&priority,
		&t.XPReward,
		&t.Completed,
		&dueDate,
		&completedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	t.Priority = task.Priority(priority)
	if dueDate != nil {
		t.DueDate = dueDate.UTC()
	}
	if completedAt != nil {
		t.CompletedAt = completedAt.UTC()
	}

	return &t, nil
}
