package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

type createBackupResponse struct {
	Message  string `json:"message"`
	BackupID string `json:"backup_id"`
}

type backupResponse struct {
	*models.Backup
	DownloadURL string `json:"download_url,omitempty"`
}

// handleCreateBackup appends a snapshot. The backup type comes from the
// backup_type query parameter and defaults inside the service.
func (s *Server) handleCreateBackup(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req encryptedPayloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	backupType := r.URL.Query().Get("backup_type")

	backup, err := s.backups.Create(r.Context(), user.ID, backupType, req.EncryptedData, req.IV, req.Salt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createBackupResponse{Message: "Backup created", BackupID: backup.ID})
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request, user *models.User) {
	list, err := s.backups.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetBackup(w http.ResponseWriter, r *http.Request, user *models.User) {
	id := r.PathValue("id")

	backup, downloadURL, err := s.backups.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, backupResponse{Backup: backup, DownloadURL: downloadURL})
}
