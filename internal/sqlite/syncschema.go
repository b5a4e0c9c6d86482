package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/random"
	"github.com/jmoiron/sqlx"
	"log/slog"
	"strings"
)

// ErrDestructiveChange is returned when the target schema would lose a column of an existing table.
var ErrDestructiveChange = errors.NewSentinel("destructive schema change")

type missingColumn struct {
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull bool           `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
}

// syncSchema brings the database up to the declarative schema additively: missing tables,
// columns and indexes are created. Columns are never dropped.
//
// The target schema is first built in a scratch in-memory database that is attached for
// comparison, an approach borrowed from
// https://david.rothlis.net/declarative-schema-migration-for-sqlite/.
func (db *Database) syncSchema(ctx context.Context, schema string) (err error) {
	var target string
	if target, err = random.Letters(20); err != nil { //nolint:mnd // long enough to be unique
		return errors.Wrap(err, "generate schema target name")
	}
	targetDSN := fmt.Sprintf("file:%s?mode=memory&cache=shared", target)

	var scratch *sqlx.DB
	if scratch, err = sqlx.Open("sqlite3", targetDSN); err != nil {
		return errors.Wrap(err, "open schema target")
	}
	defer func() {
		if closeErr := scratch.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close schema target",
				errors.SlogError(errors.Wrap(closeErr, "close schema target")))
		}
	}()
	if _, err = scratch.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "build schema target")
	}

	// ATTACH is not allowed inside a transaction so hold one connection for the whole sync.
	var conn *sqlx.Conn
	if conn, err = db.ReadWrite.Connx(ctx); err != nil {
		return errors.Wrap(err, "acquire connection")
	}
	defer conn.Close()
	if _, err = conn.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", targetDSN); err != nil {
		return errors.Wrap(err, "attach schema target")
	}
	defer func() {
		if _, detachErr := conn.ExecContext(ctx, "DETACH DATABASE schemaTarget"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach schema target",
				errors.SlogError(errors.Wrap(detachErr, "detach schema target")))
		}
	}()

	var tx *sqlx.Tx
	if tx, err = conn.BeginTxx(ctx, nil); err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = db.createTables(ctx, tx); err != nil {
		return err
	}
	if err = db.addColumns(ctx, tx); err != nil {
		return err
	}
	if err = db.createIndexes(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit schema sync")
	}
	return nil
}

func (db *Database) createTables(ctx context.Context, tx *sqlx.Tx) error {
	var statements []string
	if err := tx.SelectContext(ctx, &statements, `SELECT target.sql
FROM schemaTarget.sqlite_schema AS target
LEFT JOIN main.sqlite_schema AS current ON current.name = target.name AND current.type = target.type
WHERE target.type = 'table' AND current.name IS NULL AND target.name NOT LIKE 'sqlite_%'`); err != nil {
		return errors.Wrap(err, "query new tables")
	}
	for _, stmt := range statements {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", stmt))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create table", slog.String("query", stmt))
		}
	}
	return nil
}

func (db *Database) addColumns(ctx context.Context, tx *sqlx.Tx) error {
	var tables []string
	if err := tx.SelectContext(ctx, &tables, `SELECT name FROM schemaTarget.sqlite_schema
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`); err != nil {
		return errors.Wrap(err, "query target tables")
	}
	for _, table := range tables {
		var dropped []string
		if err := tx.SelectContext(ctx, &dropped, `SELECT current.name
FROM pragma_table_info(:table) AS current
LEFT JOIN pragma_table_info(:table, 'schemaTarget') AS target ON target.name = current.name
WHERE target.name IS NULL`, sql.Named("table", table)); err != nil {
			return errors.Wrap(err, "query dropped columns", slog.String("table", table))
		}
		if len(dropped) > 0 {
			return errors.Wrap(ErrDestructiveChange, "columns removed from schema",
				slog.String("table", table), slog.String("columns", strings.Join(dropped, ",")))
		}

		var missing []missingColumn
		if err := tx.SelectContext(ctx, &missing, `SELECT target.name, target.type, target."notnull", target.dflt_value
FROM pragma_table_info(:table, 'schemaTarget') AS target
LEFT JOIN pragma_table_info(:table) AS current ON current.name = target.name
WHERE current.name IS NULL`, sql.Named("table", table)); err != nil {
			return errors.Wrap(err, "query missing columns", slog.String("table", table))
		}
		for _, col := range missing {
			def := fmt.Sprintf(`"%s" %s`, col.Name, col.Type)
			if col.Default.Valid {
				def += " DEFAULT " + col.Default.String
			}
			if col.NotNull {
				if !col.Default.Valid {
					return errors.Wrap(ErrDestructiveChange, "new NOT NULL column needs a default",
						slog.String("table", table), slog.String("column", col.Name))
				}
				def += " NOT NULL"
			}
			stmt := fmt.Sprintf(`ALTER TABLE "%s" ADD COLUMN %s`, table, def)
			db.logger.LogAttrs(ctx, slog.LevelInfo, "adding column", slog.String("query", stmt))
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return errors.Wrap(err, "add column", slog.String("query", stmt))
			}
		}
	}
	return nil
}

func (db *Database) createIndexes(ctx context.Context, tx *sqlx.Tx) error {
	var statements []string
	if err := tx.SelectContext(ctx, &statements, `SELECT target.sql
FROM schemaTarget.sqlite_schema AS target
LEFT JOIN main.sqlite_schema AS current ON current.name = target.name AND current.type = target.type
WHERE target.type = 'index' AND current.name IS NULL AND target.sql IS NOT NULL`); err != nil {
		return errors.Wrap(err, "query new indexes")
	}
	for _, stmt := range statements {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating index", slog.String("query", stmt))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create index", slog.String("query", stmt))
		}
	}
	return nil
}
