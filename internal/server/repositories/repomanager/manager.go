package repomanager

import (
	"context"
	"database/sql"

	"github.com/dsmirnov/authkeeper/internal/dbx"
	"github.com/dsmirnov/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dsmirnov/authkeeper/internal/server/repositories/tenants"
	"github.com/dsmirnov/authkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX handle
// (either the pooled *sql.DB or a transaction) and exposes a schema
// migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Tenants(db dbx.DBTX) tenants.Repository
}
