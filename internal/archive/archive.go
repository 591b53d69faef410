// Package archive keeps a local write-behind copy of transmissions. The
// archive is a convenience for reviewing past operations; session state never
// reads from it, so a failed or missing archive changes nothing upstream.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"shadownet/internal/api"
)

type Store struct {
	mu sync.Mutex
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty archive path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL suits the append-only workload.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS transmissions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		recorded_at TEXT NOT NULL,
		codename TEXT NOT NULL,
		direct_order TEXT NOT NULL,
		response TEXT NOT NULL,
		risk_level TEXT NOT NULL DEFAULT ''
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Append(tx api.Transmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO transmissions (id, turn, recorded_at, codename, direct_order, response, risk_level)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Turn, tx.Timestamp, tx.Codename, tx.Order, tx.Response, tx.RiskLevel,
	)
	if err != nil {
		return fmt.Errorf("archive transmission %s: %w", tx.ID, err)
	}
	return nil
}

// Recent returns up to limit transmissions, newest first.
func (s *Store) Recent(limit int) ([]api.Transmission, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT id, turn, recorded_at, codename, direct_order, response, risk_level
		 FROM transmissions ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.Transmission
	for rows.Next() {
		var tx api.Transmission
		if err := rows.Scan(&tx.ID, &tx.Turn, &tx.Timestamp, &tx.Codename, &tx.Order, &tx.Response, &tx.RiskLevel); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
