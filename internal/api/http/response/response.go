// Package response writes the JSON envelopes used by every REST endpoint.
package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dtroode/tasktracker-server/internal/apierror"
)

// Envelope wraps successful payloads.
type Envelope struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data,omitempty"`
}

// ErrorBody is written for every failure.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 response with {"success": true, "data": ...}.
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with {"success": true, "data": ...}.
func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// List writes a 200 response with the item count and the items.
func List[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Count: &count, Data: items})
}

// WriteError renders err. Errors that are not API errors become a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPCode
		message = apiErr.Message
	}

	WriteJSON(w, status, ErrorBody{Success: false, Message: message})
}

// DecodeJSON decodes a single JSON object from the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierror.NewErrValidation("request body is empty")
		}
		return apierror.NewErrValidation("invalid JSON body")
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apierror.NewErrValidation("request body must contain a single JSON object")
	}

	return nil
}
