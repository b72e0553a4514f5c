package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

type createSessionRequest struct {
	SessionID string `json:"session_id"`
}

type createSessionResponse struct {
	User         *models.User `json:"user"`
	SessionToken string       `json:"session_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "ObsidianVault API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCreateSession exchanges a one-time identifier from the identity
// provider for a local session. The token travels back both in the body and
// as the session cookie.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "session_id required")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id required")
		return
	}

	user, token, err := s.auth.ExchangeSession(r.Context(), req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, createSessionResponse{User: user, SessionToken: token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user *models.User) {
	writeJSON(w, http.StatusOK, user)
}

// handleLogout deletes the presented session and clears the cookie. A
// request with no token at all still succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), sessionToken(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}
