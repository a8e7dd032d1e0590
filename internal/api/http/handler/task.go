package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/tasktracker-server/internal/api/http/response"
	"github.com/dtroode/tasktracker-server/internal/apierror"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// TaskService defines owner-scoped task operations.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, params model.CreateTaskParams) (model.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, params model.ListTasksParams) ([]model.Task, error)
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (model.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, params model.UpdateTaskParams) (model.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error
}

// Task handles REST endpoints for the caller's tasks.
type Task struct {
	taskService    TaskService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewTask creates a new Task handler.
func NewTask(taskService TaskService, contextManager model.ContextManager, logger *logger.Logger) *Task {
	return &Task{
		taskService:    taskService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// List returns the caller's tasks, optionally filtered by status and priority.
func (h *Task) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	params := model.ListTasksParams{
		Status:   query.Get("status"),
		Priority: query.Get("priority"),
	}

	tasks, err := h.taskService.ListTasks(r.Context(), ownerID, params)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response.List(w, toTaskResponses(tasks))
}

// Create adds a task owned by the caller.
func (h *Task) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var params model.CreateTaskParams
	if err := response.DecodeJSON(r, &params); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), ownerID, params)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response.Created(w, toTaskResponse(task))
}

// Get returns one of the caller's tasks.
func (h *Task) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, ok := h.ownerAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), ownerID, taskID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response.OK(w, toTaskResponse(task))
}

// Update changes the supplied fields of one of the caller's tasks.
func (h *Task) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, ok := h.ownerAndTaskID(w, r)
	if !ok {
		return
	}

	var params model.UpdateTaskParams
	if err := response.DecodeJSON(r, &params); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), ownerID, taskID, params)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response.OK(w, toTaskResponse(task))
}

// Delete removes one of the caller's tasks.
func (h *Task) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, taskID, ok := h.ownerAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), ownerID, taskID); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task deleted successfully",
	})
}

func (h *Task) ownerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	caller, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		handleError(w, r, h.logger, apierror.NewErrMissingAuthorizationToken())
		return uuid.Nil, false
	}
	return caller.ID, true
}

// ownerAndTaskID resolves the caller and the {id} path parameter. A malformed id cannot name any task.
func (h *Task) ownerAndTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.logger, apierror.NewErrTaskNotFound())
		return uuid.Nil, uuid.Nil, false
	}

	return ownerID, taskID, true
}
