package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

type registerCredentialRequest struct {
	CredentialID string `json:"credential_id"`
	PublicKey    string `json:"public_key"`
}

func (s *Server) handleRegisterCredential(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req registerCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if _, err := s.credentials.Register(r.Context(), user.ID, req.CredentialID, req.PublicKey); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "WebAuthn credential registered"})
}

func (s *Server) handleListCredentials(w http.ResponseWriter, r *http.Request, user *models.User) {
	list, err := s.credentials.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDeleteCredential(w http.ResponseWriter, r *http.Request, user *models.User) {
	credentialID := r.PathValue("credential_id")

	if err := s.credentials.Remove(r.Context(), user.ID, credentialID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Credential deleted"})
}
