package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"cotsync/internal/application/port"
)

// Store is the Postgres-backed SeriesStore, schema-compatible with the
// sqlite backend.
type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS sheets (
  name TEXT PRIMARY KEY,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS rows (
  sheet TEXT NOT NULL,
  idx INTEGER NOT NULL,
  cells TEXT NOT NULL,
  PRIMARY KEY(sheet, idx)
);
`)
	return err
}

func (s *Store) Exists(ctx context.Context, sheet string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sheets WHERE name=$1`, sheet).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Create(ctx context.Context, sheet string, header []string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sheets(name, created_at) VALUES($1, $2)
		ON CONFLICT(name) DO NOTHING
	`, sheet, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	return s.WriteRow(ctx, sheet, 0, header)
}

func (s *Store) ReadColumn(ctx context.Context, sheet string, col int) ([]string, error) {
	if err := s.requireSheet(ctx, sheet); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT cells FROM rows WHERE sheet=$1 ORDER BY idx`, sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(payload), &cells); err != nil {
			return nil, fmt.Errorf("decode row cells: %w", err)
		}
		if col < len(cells) {
			out = append(out, cells[col])
		} else {
			out = append(out, "")
		}
	}
	return out, rows.Err()
}

func (s *Store) WriteRow(ctx context.Context, sheet string, idx int, cells []string) error {
	if err := s.requireSheet(ctx, sheet); err != nil {
		return err
	}

	payload, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rows(sheet, idx, cells) VALUES($1, $2, $3)
		ON CONFLICT(sheet, idx) DO UPDATE SET cells=excluded.cells
	`, sheet, idx, string(payload))
	return err
}

func (s *Store) RowCount(ctx context.Context, sheet string) (int, error) {
	if err := s.requireSheet(ctx, sheet); err != nil {
		return 0, err
	}

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rows WHERE sheet=$1`, sheet).Scan(&n)
	return n, err
}

// StyleRow is a no-op, as in the sqlite backend.
func (s *Store) StyleRow(ctx context.Context, sheet string, idx int) error {
	return nil
}

func (s *Store) requireSheet(ctx context.Context, sheet string) error {
	ok, err := s.Exists(ctx, sheet)
	if err != nil {
		return err
	}
	if !ok {
		return port.ErrSheetMissing
	}
	return nil
}

var _ port.SeriesStore = (*Store)(nil)
