package backend

import (
	"context"

	"donorledger/internal/core"
)

// LedgerStore is the persistence contract for the lifetime-giving table.
// LoadAll must distinguish an empty table (empty slice, nil error) from a
// read failure; a failure must never be treated as "no prior table".
type LedgerStore interface {
	LoadAll(ctx context.Context) ([]core.LedgerEntry, error)
	ReplaceAll(ctx context.Context, entries []core.LedgerEntry) error
	Close() error
}

// Result contains the store instance and an optional cleanup function.
type Result struct {
	Store   LedgerStore
	Cleanup func() error
}

// BackendType selects the persistence implementation.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MongoBackend  BackendType = "mongo"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MongoBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
