package kvstore

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
)

type sqlStore struct {
	db *sqlx.DB
	// postgres locks the row being updated; sqlite runs on a single connection instead
	lockRow bool
}

// NewSQL returns a Store over the migrated "stores" table of db.
func NewSQL(db *sqlx.DB) core.Store {
	return &sqlStore{db: db, lockRow: db.DriverName() == "postgres"}
}

func (s *sqlStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := s.db.GetContext(ctx, &data, s.db.Rebind(`SELECT data FROM stores WHERE name = ?`), key)
	switch {
	case err == sql.ErrNoRows:
		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(err, "selecting %s", key)
	case data == "":
		return nil, nil
	}
	return []byte(data), nil
}

func (s *sqlStore) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// the row must exist to be locked
	if _, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO stores (name, data) VALUES (?, '') ON CONFLICT (name) DO NOTHING`), key); err != nil {
		return errors.Wrapf(err, "inserting %s", key)
	}

	q := `SELECT data FROM stores WHERE name = ?`
	if s.lockRow {
		q += ` FOR UPDATE`
	}
	var data string
	if err = tx.GetContext(ctx, &data, tx.Rebind(q), key); err != nil {
		return errors.Wrapf(err, "selecting %s", key)
	}
	var current []byte
	if data != "" {
		current = []byte(data)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE stores SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?`), string(next), key); err != nil {
		return errors.Wrapf(err, "updating %s", key)
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
