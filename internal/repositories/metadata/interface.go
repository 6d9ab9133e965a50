// Package metadata is the key/value persistence layer behind the profile
// record and the pending-capture marker.
//
// Two implementations share the Repository contract: SQLiteRepository for the
// local database (the default) and PostgresRepository for a shared server
// database. Both accept a dbx.DBTX, so they run equally over *sql.DB or
// inside dbx.WithTx.
package metadata

import (
	"context"

	"github.com/dmitrijs2005/profilekeeper/internal/dbx"
)

// Repository stores opaque values under string keys.
//
// Get returns (nil, nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Factory binds a Repository to a connection or transaction.
type Factory func(db dbx.DBTX) Repository

// ForDialect returns the Factory matching the database dialect.
func ForDialect(d dbx.Dialect) Factory {
	if d == dbx.DialectPostgres {
		return func(db dbx.DBTX) Repository { return NewPostgresRepository(db) }
	}
	return func(db dbx.DBTX) Repository { return NewSQLiteRepository(db) }
}
