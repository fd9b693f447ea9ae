package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/timebudget/timebudget/internal/apperr"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatusFor maps an error kind to the HTTP status returned to the client.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as an ErrorResponse. Storage and unknown errors are
// logged and reported without driver details.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	response := ErrorResponse{Error: err.Error()}
	if status == http.StatusInternalServerError {
		log.Errorf("request failed: %v", err)
		response = ErrorResponse{Error: "Internal server error"}
	}
	WriteJSON(w, status, response)
}

// WriteBadRequest reports a malformed request that never reached a service.
func WriteBadRequest(w http.ResponseWriter, msg, details string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, Details: details})
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

// IntVar reads a numeric path variable registered on the mux route.
func IntVar(r *http.Request, name string) (int, error) {
	value, ok := mux.Vars(r)[name]
	if !ok {
		return 0, apperr.Validation("missing path parameter %s", name)
	}
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s: %q", name, value)
	}
	return id, nil
}
