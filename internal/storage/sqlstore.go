package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore keeps quiz state in a quiz_state table, one row per
// (exoname, attr). Works against sqlite and postgres via Open.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Read(ctx context.Context, exoname, attr string, out any) error {
	row := s.db.QueryRowContext(ctx,
		`SELECT value_json FROM quiz_state WHERE exoname=$1 AND attr=$2`, exoname, attr)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s.%s: %w", exoname, attr, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode %s.%s: %w", exoname, attr, err)
	}
	return nil
}

func (s *SQLStore) Save(ctx context.Context, exoname, attr string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s.%s: %w", exoname, attr, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_state (exoname, attr, value_json, updated_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (exoname, attr) DO UPDATE SET value_json=EXCLUDED.value_json, updated_at=EXCLUDED.updated_at`,
		exoname, attr, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save %s.%s: %w", exoname, attr, err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context, exoname string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM quiz_state WHERE exoname=$1`, exoname); err != nil {
		return fmt.Errorf("clear %s: %w", exoname, err)
	}
	return nil
}
