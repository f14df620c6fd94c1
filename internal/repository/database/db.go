package database

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported values for the DATABASE_DRIVER setting.
const (
	DriverSQLite   = "sqlite"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

const defaultSQLiteFile = "todo.db"

func init() {
	// sqlx has no bind type registered for modernc's driver name.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// New opens a connection pool for the given driver and verifies it with a
// ping. SQLite pools are limited to one connection so in-memory databases and
// writers never see each other's locks.
func New(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	switch driver {
	case "", DriverSQLite:
		driver = DriverSQLite
		if strings.TrimSpace(dsn) == "" {
			dsn = defaultSQLiteFile
		}
	case DriverPgx, DriverPostgres:
		if strings.TrimSpace(dsn) == "" {
			return nil, fmt.Errorf("database: %s driver requires DATABASE_URL", driver)
		}
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func isSQLite(db sqlx.ExtContext) bool {
	return db.DriverName() == DriverSQLite
}
