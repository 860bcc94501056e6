// Package kvstore implements core.Store on top of the supported storage drivers.
package kvstore

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/storage/database"
)

const (
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the Store selected by conf.Storage.Driver. SQL stores are migrated before use.
func Open(conf *core.Config) (core.Store, error) {
	switch conf.Storage.Driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverBolt:
		return OpenBolt(conf.Storage.BoltPath)
	case DriverSQLite:
		return OpenSQLite(conf.Storage.SQLitePath)
	case DriverPostgres:
		return openPostgres(conf)
	default:
		return nil, errors.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}

func OpenSQLite(path string) (core.Store, error) {
	if dir := filepath.Dir(path); dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating data directory")
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	// one writer at a time; this also serializes Update
	db.SetMaxOpenConns(1)

	if err = database.Migrate(db.DB, database.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQL(db), nil
}

func openPostgres(conf *core.Config) (core.Store, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = database.Migrate(db, database.DialectPostgres); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQL(sqlx.NewDb(db, "postgres")), nil
}
