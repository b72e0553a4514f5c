package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/obsidianvault/internal/common"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeServiceError maps service-layer sentinels to HTTP statuses. Storage
// and other unexpected failures surface as a generic 500 with no internal
// detail.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, common.ErrInvalidSession):
		writeError(w, http.StatusUnauthorized, "Invalid session")
	case errors.Is(err, common.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "Session expired")
	case errors.Is(err, common.ErrUpstreamAuth):
		writeError(w, http.StatusUnauthorized, "Authentication failed")
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
	case errors.Is(err, common.ErrDuplicateCredential):
		writeError(w, http.StatusConflict, "Credential already registered")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
