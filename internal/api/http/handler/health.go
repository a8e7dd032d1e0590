package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/tasktracker-server/internal/api/http/response"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health reports liveness and storage reachability.
type Health struct {
	pinger model.Pinger
	logger *logger.Logger
}

// NewHealth creates a new Health handler.
func NewHealth(pinger model.Pinger, logger *logger.Logger) *Health {
	return &Health{pinger: pinger, logger: logger}
}

// Check answers 200 while storage responds to pings and 503 otherwise.
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Error("Health handler: storage ping failed", "error", err.Error())
		response.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:  "UNAVAILABLE",
			Message: "Storage is unreachable",
		})
		return
	}

	response.WriteJSON(w, http.StatusOK, healthResponse{Status: "OK", Message: "Server is running"})
}
