package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/apierror"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/validate"
)

// Task implements owner-scoped task operations.
type Task struct {
	taskStore model.TaskStore
	validator *validate.Validator
	logger    *logger.Logger
	now       func() time.Time
}

func NewTask(taskStore model.TaskStore, logger *logger.Logger) *Task {
	return &Task{
		taskStore: taskStore,
		validator: validate.New(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateTask stores a new task owned by ownerID. Missing status and priority
// default to pending and medium.
func (s *Task) CreateTask(ctx context.Context, ownerID uuid.UUID, params model.CreateTaskParams) (model.Task, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Description = strings.TrimSpace(params.Description)

	if err := s.validator.Struct(params); err != nil {
		return model.Task{}, err
	}

	status := model.TaskStatus(params.Status)
	if status == "" {
		status = model.TaskStatusPending
	}
	priority := model.TaskPriority(params.Priority)
	if priority == "" {
		priority = model.TaskPriorityMedium
	}

	now := s.now()
	task, err := s.taskStore.Create(ctx, model.Task{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       params.Title,
		Description: params.Description,
		Status:      status,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error("Task service: failed to create task",
			"user_id", ownerID.String(),
			"error", err.Error())
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns the owner's tasks, newest first, optionally filtered.
func (s *Task) ListTasks(ctx context.Context, ownerID uuid.UUID, params model.ListTasksParams) ([]model.Task, error) {
	if err := s.validator.Struct(params); err != nil {
		return nil, err
	}

	tasks, err := s.taskStore.List(ctx, ownerID, model.TaskFilter{
		Status:   model.TaskStatus(params.Status),
		Priority: model.TaskPriority(params.Priority),
	})
	if err != nil {
		s.logger.Error("Task service: failed to list tasks",
			"user_id", ownerID.String(),
			"error", err.Error())
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

func (s *Task) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (model.Task, error) {
	task, err := s.taskStore.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return model.Task{}, s.storeError("get", ownerID, taskID, err)
	}
	return task, nil
}

// UpdateTask applies the supplied fields. Omitted fields keep their values.
func (s *Task) UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, params model.UpdateTaskParams) (model.Task, error) {
	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		params.Title = &title
	}
	if params.Description != nil {
		description := strings.TrimSpace(*params.Description)
		params.Description = &description
	}

	if err := s.validator.Struct(params); err != nil {
		return model.Task{}, err
	}

	update := model.TaskUpdate{
		Title:       params.Title,
		Description: params.Description,
	}
	if params.Status != nil {
		status := model.TaskStatus(*params.Status)
		update.Status = &status
	}
	if params.Priority != nil {
		priority := model.TaskPriority(*params.Priority)
		update.Priority = &priority
	}

	if update.Empty() {
		return s.GetTask(ctx, ownerID, taskID)
	}

	task, err := s.taskStore.Update(ctx, ownerID, taskID, update)
	if err != nil {
		return model.Task{}, s.storeError("update", ownerID, taskID, err)
	}
	return task, nil
}

func (s *Task) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, ownerID, taskID); err != nil {
		return s.storeError("delete", ownerID, taskID, err)
	}
	return nil
}

// storeError hides whether a missing task exists under another owner.
func (s *Task) storeError(op string, ownerID, taskID uuid.UUID, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrTaskNotFound()
	}
	s.logger.Error("Task service: store operation failed",
		"op", op,
		"user_id", ownerID.String(),
		"task_id", taskID.String(),
		"error", err.Error())
	return fmt.Errorf("failed to %s task: %w", op, err)
}
