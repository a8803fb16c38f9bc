// Package task содержит доменную модель учебной задачи FinEdu.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package task

import (
	"fmt"
	"time"

	"github.com/finedu-app/finedu-backend/internal/domain/shared"
	"github.com/finedu-app/finedu-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет состояние задачи. Статус производен: он не хранится,
// а вычисляется из флага выполнения и срока (см. Task.Status).
type Status string

const (
	// StatusPending - задача ещё не выполнена, срок не прошёл.
	StatusPending Status = "pending"
	// StatusCompleted - задача выполнена.
	StatusCompleted Status = "completed"
	// StatusOverdue - задача не выполнена, срок прошёл.
	StatusOverdue Status = "overdue"
)

// Priority определяет приоритет задачи.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid проверяет корректность приоритета.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: TASK
// ══════════════════════════════════════════════════════════════════════════════

// Task - учебная задача пользователя.
// Выполнение обратимо: повторное нажатие снимает отметку и откатывает
// начисленный XP (см. application/command.CompleteTask).
type Task struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// UserID - владелец задачи. Чужие задачи недоступны.
	UserID string

	// Title - заголовок задачи.
	Title string

	// Description - описание (опционально).
	Description string

	// Priority - приоритет задачи.
	Priority Priority

	// XPReward - награда за выполнение. Эта же величина списывается
	// при снятии отметки, даже если награда по умолчанию изменилась.
	XPReward int

	// DueDate - срок выполнения (опционально, нулевое время = без срока).
	DueDate time.Time

	// Completed - выполнена ли задача.
	Completed bool

	// CompletedAt - когда задача была выполнена (нулевое, если нет).
	CompletedAt time.Time

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// DefaultXPReward - награда за задачу по умолчанию.
const DefaultXPReward = 15

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewTask создаёт задачу с валидацией.
func NewTask(id, userID, title string) (*Task, error) {
	if id == "" {
		return nil, shared.NewDomainError("task", "New", shared.ErrInvalidID, "task id is required")
	}
	if userID == "" {
		return nil, shared.NewDomainError("task", "New", shared.ErrInvalidID, "user id is required")
	}
	if title == "" {
		return nil, shared.ErrEmptyTaskTitle
	}

	now := time.Now().UTC()

	return &Task{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Priority:  PriorityMedium,
		XPReward:  DefaultXPReward,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// IsOwnedBy проверяет принадлежность задачи пользователю.
func (t *Task) IsOwnedBy(userID string) bool {
	return t.UserID == userID
}

// Status вычисляет состояние задачи на момент now.
// Срок сравнивается по календарным дням UTC: задача просрочена со
// следующего дня после DueDate, а не с его полуночи.
func (t *Task) Status(now time.Time) Status {
	if t.Completed {
		return StatusCompleted
	}
	if !t.DueDate.IsZero() && timeutil.StartOfDay(now).After(timeutil.StartOfDay(t.DueDate)) {
		return StatusOverdue
	}
	return StatusPending
}

// MarkCompleted отмечает задачу выполненной.
// Возвращает false, если задача уже выполнена.
func (t *Task) MarkCompleted(now time.Time) bool {
	if t.Completed {
		return false
	}
	t.Completed = true
	t.CompletedAt = now
	t.UpdatedAt = now
	return true
}

// MarkIncomplete снимает отметку выполнения.
// Возвращает false, если задача и так не выполнена.
func (t *Task) MarkIncomplete(now time.Time) bool {
	if !t.Completed {
		return false
	}
	t.Completed = false
	t.CompletedAt = time.Time{}
	t.UpdatedAt = now
	return true
}

// Update меняет редактируемые поля задачи.
func (t *Task) Update(title, description string, priority Priority, dueDate time.Time) error {
	if title == "" {
		return shared.ErrEmptyTaskTitle
	}
	if !priority.IsValid() {
		return shared.NewDomainError("task", "Update", shared.ErrInvalidInput, "invalid priority")
	}

	t.Title = title
	t.Description = description
	t.Priority = priority
	t.DueDate = dueDate
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление для логирования.
func (t *Task) String() string {
	return fmt.Sprintf("Task{ID: %s, User: %s, Title: %q, Completed: %v}",
		t.ID, t.UserID, t.Title, t.Completed)
}
