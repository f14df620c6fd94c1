package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/njprem/Todo_APP_BackEnd/internal/repository/database/migrations"
)

type columnPatch struct {
	table  string
	column string
	sqlite string
	pg     string
}

// Columns that older databases may be missing. Tables created by the first
// migration already have them; the patches only touch legacy files.
var columnPatches = []columnPatch{
	{table: "users", column: "first_name", sqlite: "TEXT", pg: "TEXT"},
	{table: "users", column: "last_name", sqlite: "TEXT", pg: "TEXT"},
	{table: "tasks", column: "title", sqlite: "TEXT", pg: "TEXT"},
	{table: "tasks", column: "description", sqlite: "TEXT", pg: "TEXT"},
	{table: "tasks", column: "owner_id", sqlite: "INTEGER", pg: "BIGINT"},
	{table: "tasks", column: "date", sqlite: "TEXT", pg: "TEXT"},
	{table: "tasks", column: "time", sqlite: "TEXT", pg: "TEXT"},
	{table: "tasks", column: "completed", sqlite: "BOOLEAN NOT NULL DEFAULT 0", pg: "BOOLEAN NOT NULL DEFAULT FALSE"},
}

// Migrate creates the schema if it is absent and then adds any expected
// column an existing table lacks.
func Migrate(ctx context.Context, db *sqlx.DB, logger zerolog.Logger) error {
	dialect := goose.DialectPostgres
	dir := "postgres"
	if isSQLite(db) {
		dialect = goose.DialectSQLite3
		dir = "sqlite"
	}

	fsys, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("migrate: open %s migrations: %w", dir, err)
	}
	provider, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("migrate: init provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: up: %w", err)
	}
	for _, res := range results {
		logger.Info().
			Int64("version", res.Source.Version).
			Str("file", res.Source.Path).
			Dur("took", res.Duration).
			Msg("migration applied")
	}

	return ensureColumns(ctx, db, logger)
}

func ensureColumns(ctx context.Context, db *sqlx.DB, logger zerolog.Logger) error {
	existing := make(map[string]map[string]bool)
	for _, patch := range columnPatches {
		cols, ok := existing[patch.table]
		if !ok {
			names, err := tableColumns(ctx, db, patch.table)
			if err != nil {
				return fmt.Errorf("migrate: inspect %s: %w", patch.table, err)
			}
			cols = make(map[string]bool, len(names))
			for _, name := range names {
				cols[name] = true
			}
			existing[patch.table] = cols
		}
		if cols[patch.column] {
			continue
		}

		ddl := patch.pg
		if isSQLite(db) {
			ddl = patch.sqlite
		}
		stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN "%s" %s`, patch.table, patch.column, ddl)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: add %s.%s: %w", patch.table, patch.column, err)
		}
		cols[patch.column] = true
		logger.Warn().Str("table", patch.table).Str("column", patch.column).Msg("added missing column")
	}
	return nil
}

func tableColumns(ctx context.Context, db *sqlx.DB, table string) ([]string, error) {
	query := `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ?`
	if isSQLite(db) {
		query = `SELECT name FROM pragma_table_info(?)`
	}
	var names []string
	if err := sqlx.SelectContext(ctx, db, &names, db.Rebind(query), table); err != nil {
		return nil, err
	}
	return names, nil
}
