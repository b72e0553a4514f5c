package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

type encryptedPayloadRequest struct {
	EncryptedData string `json:"encrypted_data"`
	IV            string `json:"iv"`
	Salt          string `json:"salt"`
}

type savedResponse struct {
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updated_at"`
}

// handleGetData returns the user's blob, or a JSON null when the vault is
// still empty.
func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request, user *models.User) {
	blob, err := s.vault.Get(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blob)
}

func (s *Server) handleSaveData(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req encryptedPayloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	blob, err := s.vault.Save(r.Context(), user.ID, req.EncryptedData, req.IV, req.Salt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, savedResponse{Message: "Data saved", UpdatedAt: blob.UpdatedAt})
}

type saveSettingsRequest struct {
	EncryptedSettings string `json:"encrypted_settings"`
	IV                string `json:"iv"`
	Salt              string `json:"salt"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request, user *models.User) {
	blob, err := s.settings.Get(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blob)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req saveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if _, err := s.settings.Save(r.Context(), user.ID, req.EncryptedSettings, req.IV, req.Salt); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Settings saved"})
}
