package localstore

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteStore persists buckets in the buckets table created by the
// database package's migrations.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, b Bucket) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM buckets WHERE name = ?`, string(b)).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get bucket %s: %w", b, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, b Bucket, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO buckets (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		string(b), value,
	)
	if err != nil {
		return fmt.Errorf("set bucket %s: %w", b, err)
	}
	return nil
}

func (s *SQLiteStore) SetIfAbsent(ctx context.Context, b Bucket, value []byte) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO buckets (name, value) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		string(b), value,
	)
	if err != nil {
		return false, fmt.Errorf("seed bucket %s: %w", b, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
