package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"palika_profile/middleware"
	"palika_profile/repository"
)

// API error codes. Callers get a structured error object; internal causes
// stay in the server log.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeBadRequest   = "BAD_REQUEST"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL"
)

var codeStatus = map[string]int{
	CodeUnauthorized: http.StatusUnauthorized,
	CodeBadRequest:   http.StatusBadRequest,
	CodeConflict:     http.StatusConflict,
	CodeNotFound:     http.StatusNotFound,
	CodeInternal:     http.StatusInternalServerError,
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Error   apiError `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, code, message string) {
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	respondJSON(w, status, errorResponse{Success: false, Error: apiError{Code: code, Message: message}})
}

// respondRepoError maps repository sentinels to API codes. Anything else is
// a storage fault: the cause is logged, the caller sees a generic message.
func respondRepoError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, repository.ErrConflict):
		respondError(w, CodeConflict, "a record for this key already exists")
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, CodeNotFound, "record not found")
	default:
		log.Printf("%s: %v", operation, err)
		respondError(w, CodeInternal, "internal server error")
	}
}

// requireAuthz runs the policy for a write and reports the failure itself.
// Returns true when the caller may proceed.
func requireAuthz(w http.ResponseWriter, r *http.Request, action, resource string) bool {
	actor := middleware.ActorFromContext(r.Context())
	if middleware.Authorize(actor, action, resource) != middleware.Allow {
		respondError(w, CodeUnauthorized, "administrator role required")
		return false
	}
	return true
}
