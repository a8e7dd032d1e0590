package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/tasktracker-server/internal/api/http/response"
	"github.com/dtroode/tasktracker-server/internal/logger"
)

// MaintenanceService wipes all stored data.
type MaintenanceService interface {
	Reset(ctx context.Context) error
}

// Maintenance exposes destructive operations meant for test environments.
type Maintenance struct {
	service MaintenanceService
	logger  *logger.Logger
}

// NewMaintenance creates a new Maintenance handler.
func NewMaintenance(service MaintenanceService, logger *logger.Logger) *Maintenance {
	return &Maintenance{service: service, logger: logger}
}

// Clean deletes every user and task.
func (h *Maintenance) Clean(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Warn("Maintenance handler: storage wiped")

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Database cleaned",
	})
}
