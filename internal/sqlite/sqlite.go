package sqlite

import (
	"context"
	"fmt"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/random"
	"github.com/jmoiron/sqlx"
	"log/slog"
	"strings"
	"time"

	_ "embed"
	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 driver
)

//go:embed schema.sql
var schemaDefinition string

const maxReadConns = 4

type Database struct {
	ReadWrite *sqlx.DB
	ReadOnly  *sqlx.DB
	logger    *slog.Logger
}

// Open connects to the lead database, synchronizes the schema, and starts the optimizer that runs
// until ctx is done.
//
// Writes go through a single connection and reads through a small pool, see
// https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995.
//
// The url parameter is the path to the SQLite database file or ":memory:" for an in-memory database.
func Open(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	var (
		db  *Database
		err error
	)
	if db, err = connect(url, logger); err != nil {
		return nil, err
	}
	if err = db.syncSchema(ctx, schemaDefinition); err != nil {
		return nil, errors.Wrap(err, "synchronize schema")
	}
	go db.StartDatabaseOptimizer(ctx)
	return db, nil
}

func connect(url string, logger *slog.Logger) (*Database, error) {
	var (
		err         error
		readWriteDB *sqlx.DB
		readDB      *sqlx.DB
	)

	// Both pools must see the same in-memory database, and each in-memory database gets a unique
	// name so that parallel tests don't share data. See https://www.sqlite.org/inmemorydb.html.
	inMemoryConfig := ""
	if strings.Contains(url, ":memory:") {
		var name string
		if name, err = random.Letters(20); err != nil { //nolint:mnd // long enough to be unique
			return nil, errors.Wrap(err, "generate in-memory database name")
		}
		url = name
		inMemoryConfig = "&mode=memory&cache=shared"
	}
	// Underscore options are pragmas https://www.sqlite.org/pragma.html, the rest are URI
	// parameters https://www.sqlite.org/uri.html.
	pragmas := strings.Join([]string{
		"_journal_mode=wal",
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
		"_temp_store=memory",
	}, "&")

	readWriteDSN := fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s%s", url, pragmas, inMemoryConfig)
	readDSN := fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s%s", url, pragmas, inMemoryConfig)

	if readWriteDB, err = sqlx.Open("sqlite3", readWriteDSN); err != nil {
		return nil, errors.Wrap(err, "open read-write database")
	}
	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	if readDB, err = sqlx.Open("sqlite3", readDSN); err != nil {
		return nil, errors.Wrap(err, "open read database")
	}
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{ReadWrite: readWriteDB, ReadOnly: readDB, logger: logger}, nil
}

// Close closes both pools.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
