// Package repomanager hands out repositories bound to a DBTX so services can
// run the same repository code inside or outside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/neatly/internal/dbx"
	"github.com/dmitrijs2005/neatly/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/neatly/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
