// Package storage archives ingested ticks into an embedded SQLite database.
// The analytics pipeline never reads from it; it exists for offline analysis.
package storage

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"pairs-analytics-go/market"
)

// TickStore persists tick batches to a SQLite file.
type TickStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenTickStore opens (or creates) the database and runs migrations.
func OpenTickStore(path string) (*TickStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while the archiver writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &TickStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *TickStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ticks (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			ts     INTEGER NOT NULL,
			price  REAL NOT NULL,
			size   REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_symbol_ts ON ticks(symbol, ts)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// InsertBatch writes a batch of ticks in one transaction. An empty batch is
// a no-op.
func (s *TickStore) InsertBatch(ticks []market.Tick) error {
	if len(ticks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO ticks (symbol, ts, price, size) VALUES (?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range ticks {
		if _, err := stmt.Exec(t.Symbol, t.TS.UnixMilli(), t.Price, t.Size); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert tick: %w", err)
		}
	}
	return tx.Commit()
}

// Count returns the number of archived ticks for a symbol.
func (s *TickStore) Count(symbol string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM ticks WHERE symbol = ?`, symbol).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *TickStore) Close() error {
	return s.db.Close()
}
