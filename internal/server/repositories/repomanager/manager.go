package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/obsidianvault/internal/dbx"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/backups"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/settings"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/users"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/vault"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Vault(db dbx.DBTX) vault.Repository
	Settings(db dbx.DBTX) settings.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	Backups(db dbx.DBTX) backups.Repository
}
