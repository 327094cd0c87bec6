package captcha

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/H1W0XXX/chiralcarbon/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS challenges (
	id TEXT PRIMARY KEY,
	regions TEXT NOT NULL,
	answers TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_challenges_expires ON challenges(expires_at);
`

// SQLiteStore persists challenges so they survive a restart.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create database directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}
	// One connection keeps ":memory:" to a single database and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, c *Challenge) error {
	regions, err := json.Marshal(c.Regions)
	if err != nil {
		return errors.Wrap(err, "encode regions")
	}
	answers, err := json.Marshal(c.Answers)
	if err != nil {
		return errors.Wrap(err, "encode answers")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO challenges (id, regions, answers, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, string(regions), string(answers), c.CreatedAt.UnixNano(), c.ExpiresAt.UnixNano())
	return errors.Wrapf(err, "insert challenge %s", c.ID)
}

func (s *SQLiteStore) Take(ctx context.Context, id string) (*Challenge, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	var regions, answers string
	var created, expires int64
	err = tx.QueryRowContext(ctx,
		`SELECT regions, answers, created_at, expires_at FROM challenges WHERE id = ?`, id).
		Scan(&regions, &answers, &created, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select challenge %s", id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM challenges WHERE id = ?`, id); err != nil {
		return nil, errors.Wrapf(err, "delete challenge %s", id)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}

	c := &Challenge{
		ID:        id,
		CreatedAt: time.Unix(0, created),
		ExpiresAt: time.Unix(0, expires),
	}
	if err := json.Unmarshal([]byte(regions), &c.Regions); err != nil {
		return nil, errors.Wrap(err, "decode regions")
	}
	if err := json.Unmarshal([]byte(answers), &c.Answers); err != nil {
		return nil, errors.Wrap(err, "decode answers")
	}
	return c, nil
}

func (s *SQLiteStore) Purge(ctx context.Context, t time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM challenges WHERE expires_at < ?`, t.UnixNano())
	if err != nil {
		return 0, errors.Wrap(err, "purge challenges")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "purge challenges")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
