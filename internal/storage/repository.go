// Package storage provides the SQLite-backed ledger store. The donors table
// holds one row per donor; a run replaces the whole table inside a single
// transaction so a failed write leaves the prior table intact.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"donorledger/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadAll returns the persisted ledger ordered by donor id. An empty table
// yields an empty slice, not an error; any scan or query failure is fatal
// because silently treating it as "no prior table" would discard history.
func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT donor_id, name, lifetime_cents, last_donation FROM donors ORDER BY donor_id`)
	if err != nil {
		return nil, fmt.Errorf("query donors: %w", err)
	}
	defer rows.Close()

	var entries []core.LedgerEntry
	for rows.Next() {
		var (
			e       core.LedgerEntry
			dateStr string
		)
		if err := rows.Scan(&e.DonorID, &e.Name, &e.Lifetime.Cents, &dateStr); err != nil {
			return nil, fmt.Errorf("scan donor row: %w", err)
		}
		e.LastDonation, err = core.ParseISODate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("donor %d has corrupt last_donation %q: %w", e.DonorID, dateStr, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donor rows: %w", err)
	}
	return entries, nil
}

// ReplaceAll swaps the persisted table for the given entries. Delete and
// insert run in one transaction; on any failure the transaction rolls back
// and the old table survives.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, entries []core.LedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM donors`); err != nil {
		return fmt.Errorf("clear donors table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO donors (donor_id, name, lifetime_cents, last_donation) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("refusing to persist invalid entry for donor %d: %w", e.DonorID, err)
		}
		if _, err := stmt.ExecContext(ctx, e.DonorID, e.Name, e.Lifetime.Cents, e.LastDonation.ISO()); err != nil {
			return fmt.Errorf("insert donor %d: %w", e.DonorID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replacement table: %w", err)
	}

	slog.InfoContext(ctx, "Ledger table replaced", "donors", len(entries))
	return nil
}
