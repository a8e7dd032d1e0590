package handler

import (
	"net/http"

	"github.com/dtroode/tasktracker-server/internal/api/http/response"
	"github.com/dtroode/tasktracker-server/internal/apierror"
	"github.com/dtroode/tasktracker-server/internal/logger"
)

// handleError writes err to the client. Unclassified errors are logged and hidden behind a 500.
func handleError(w http.ResponseWriter, r *http.Request, lg *logger.Logger, err error) {
	if apierror.KindOf(err) == "" {
		lg.Error("HTTP handler: unexpected error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
	}
	response.WriteError(w, err)
}
