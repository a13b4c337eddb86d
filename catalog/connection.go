// Package catalog materializes loaded relaxation data into a SQLite file so
// it can be queried with ordinary SQL tools. The catalog is an output only;
// stores never read from it.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/logger"
)

// SQLiteBusyTimeoutMS is how long a writer waits on a locked catalog.
const SQLiteBusyTimeoutMS = 5000

var pragmas = []struct {
	stmt, what string
}{
	{"PRAGMA journal_mode = WAL", "enable WAL mode"},
	{"PRAGMA foreign_keys = ON", "enable foreign keys"},
	{fmt.Sprintf("PRAGMA busy_timeout = %d", SQLiteBusyTimeoutMS), "set busy timeout"},
}

// Open opens the SQLite catalog at path, creating it if needed.
// A nil log operates silently.
func Open(path string, log *zap.SugaredLogger) (*sql.DB, error) {
	log = logger.AddCatalogSymbol(logger.OrNop(log))
	log.Debugw("opening catalog", logger.FieldPath, path)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open catalog %s", path)
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "%s on %s", p.what, path)
		}
	}

	log.Infow("catalog opened",
		logger.FieldPath, path,
		"wal_mode", true,
		"foreign_keys", true,
	)
	return db, nil
}

// OpenWithMigrations opens the catalog and brings its schema up to date.
func OpenWithMigrations(path string, log *zap.SugaredLogger) (*sql.DB, error) {
	db, err := Open(path, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, log); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "migrate catalog %s", path)
	}
	return db, nil
}
