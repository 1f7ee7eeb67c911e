package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tindog-backend/internal/apperr"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var kindStatus = map[apperr.Kind]int{
	apperr.Unauthenticated:  http.StatusUnauthorized,
	apperr.InvalidArgument:  http.StatusBadRequest,
	apperr.PermissionDenied: http.StatusForbidden,
	apperr.AlreadyExists:    http.StatusConflict,
	apperr.NotFound:         http.StatusNotFound,
	apperr.Unavailable:      http.StatusServiceUnavailable,
	apperr.Internal:         http.StatusInternalServerError,
}

// statusOf maps an error kind to its HTTP status
func statusOf(kind apperr.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, kind apperr.Kind) {
	respondJSON(w, statusOf(kind), ErrorResponse{Error: message, Code: string(kind)})
}

// respondServiceError sends the caller-facing part of a service error.
// Internal causes are never exposed.
func respondServiceError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		respondError(w, "internal error", apperr.Internal)
		return
	}
	respondError(w, appErr.Message, appErr.Kind)
}

func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// decodeBody reads a JSON request body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, "Invalid request body", apperr.InvalidArgument)
		return false
	}
	return true
}
