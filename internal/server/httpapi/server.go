// Package httpapi exposes the vault backend as an HTTP JSON surface under
// the /api prefix. Handlers parse and validate requests, delegate to the
// services, and own the error-to-status mapping; no business rules live here.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/obsidianvault/internal/logging"
	"github.com/dmitrijs2005/obsidianvault/internal/server/config"
	"github.com/dmitrijs2005/obsidianvault/internal/server/services"
)

// Server is the HTTP front of the vault backend.
type Server struct {
	auth        *services.AuthService
	vault       *services.VaultService
	settings    *services.SettingsService
	credentials *services.CredentialService
	backups     *services.BackupService
	logger      logging.Logger
	httpServer  *http.Server
}

func NewServer(cfg *config.Config, auth *services.AuthService, vault *services.VaultService,
	settings *services.SettingsService, credentials *services.CredentialService,
	backups *services.BackupService, logger logging.Logger) *Server {

	s := &Server{
		auth:        auth,
		vault:       vault,
		settings:    settings,
		credentials: credentials,
		backups:     backups,
		logger:      logger.With("module", "httpapi"),
	}

	s.httpServer = &http.Server{
		Addr:    cfg.EndpointAddrHTTP,
		Handler: s.Handler(),
	}

	return s
}

// Handler builds the route table. Everything lives under /api; the session
// gateway wraps every route that touches per-user state.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/", s.handleRoot)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/session", s.handleCreateSession)
	mux.HandleFunc("GET /api/auth/me", s.withUser(s.handleMe))
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)

	mux.HandleFunc("GET /api/data", s.withUser(s.handleGetData))
	mux.HandleFunc("POST /api/data", s.withUser(s.handleSaveData))

	mux.HandleFunc("GET /api/settings", s.withUser(s.handleGetSettings))
	mux.HandleFunc("POST /api/settings", s.withUser(s.handleSaveSettings))

	mux.HandleFunc("POST /api/webauthn/register", s.withUser(s.handleRegisterCredential))
	mux.HandleFunc("GET /api/webauthn/credentials", s.withUser(s.handleListCredentials))
	mux.HandleFunc("DELETE /api/webauthn/credentials/{credential_id}", s.withUser(s.handleDeleteCredential))

	mux.HandleFunc("POST /api/backup/create", s.withUser(s.handleCreateBackup))
	mux.HandleFunc("GET /api/backup/list", s.withUser(s.handleListBackups))
	mux.HandleFunc("GET /api/backup/{id}", s.withUser(s.handleGetBackup))

	return mux
}

// Run serves until the listener fails. http.ErrServerClosed is the normal
// shutdown result and is not reported as an error.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "starting http server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
