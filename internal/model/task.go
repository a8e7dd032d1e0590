package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStore defines owner-scoped persistence operations for tasks.
// Every method except Create matches on both owner and task id, so a task
// owned by someone else is indistinguishable from a missing one.
type TaskStore interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (Task, error)
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]Task, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, update TaskUpdate) (Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// TaskStatus enumerates task progress states.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task represents a stored task entity.
type Task struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CheckEnums returns ErrInvalidTask when the status or priority is unknown.
func (t Task) CheckEnums() error {
	if !t.Status.Valid() || !t.Priority.Valid() {
		return ErrInvalidTask
	}
	return nil
}

// TaskFilter narrows a task listing. Zero values mean "any".
type TaskFilter struct {
	Status   TaskStatus
	Priority TaskPriority
}

// TaskUpdate carries the fields to change. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
}

// Empty reports whether the update changes nothing.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil
}

// CheckEnums returns ErrInvalidTask when a set status or priority is unknown.
func (u TaskUpdate) CheckEnums() error {
	if u.Status != nil && !u.Status.Valid() {
		return ErrInvalidTask
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return ErrInvalidTask
	}
	return nil
}

// Apply copies the set fields of u onto t.
func (u TaskUpdate) Apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
}

// CreateTaskParams contains caller input for a new task.
type CreateTaskParams struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateTaskParams contains caller input for a partial task update.
type UpdateTaskParams struct {
	Title       *string `json:"title" validate:"omitnil,min=1"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitnil,oneof=pending in-progress completed"`
	Priority    *string `json:"priority" validate:"omitnil,oneof=low medium high"`
}

// ListTasksParams contains optional listing filters as received from callers.
type ListTasksParams struct {
	Status   string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
}
