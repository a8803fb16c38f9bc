package task

import (
	"context"

	"github.com/finedu-app/finedu-backend/internal/domain/shared"
)

// Filter ограничивает выборку задач.
type Filter struct {
	// Completed фильтрует по флагу выполнения (nil - без фильтра).
	Completed *bool
}

// Repository определяет операции хранения задач.
type Repository interface {
	// Create создаёт задачу.
	Create(ctx context.Context, t *Task) error

	// GetByID возвращает задачу.
	// Возвращает shared.ErrTaskNotFound, если не найдена.
	GetByID(ctx context.Context, id string) (*Task, error)

	// ListByUser возвращает задачи пользователя, новые первыми.
	ListByUser(ctx context.Context, userID string, f Filter, p shared.Pagination) ([]*Task, error)

	// CountByUser возвращает количество задач пользователя под фильтром.
	CountByUser(ctx context.Context, userID string, f Filter) (int, error)

	// Update сохраняет изменения задачи.
	Update(ctx context.Context, t *Task) error

	// Delete удаляет задачу.
	// Возвращает shared.ErrTaskNotFound, если не найдена.
	Delete(ctx context.Context, id string) error
}
