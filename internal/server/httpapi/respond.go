package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jkalnina/docshelf/internal/common"
	"github.com/jkalnina/docshelf/internal/server/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Validation failures are the caller's fault; store failures bubble up with
// the distinct message the services attached, so the client can tell which
// store diverged.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrUploadFailed),
		errors.Is(err, services.ErrStorageDeleteFailed),
		errors.Is(err, services.ErrPreviewFailed):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
