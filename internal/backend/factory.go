// Package backend selects and builds the ledger store named by
// configuration: SQLite for local single-writer runs, MongoDB when the
// ledger lives in a shared datalake, memory for tests.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"donorledger/internal/memory"
	"donorledger/internal/storage"
)

// Factory creates ledger stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateStore implements Factory.CreateStore.
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite ledger store: %w", err)
		}
		f.logger.Info("Initialized SQLite ledger store", "db_path", config.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case MongoBackend:
		repo, err := storage.NewMongoRepositoryFromURI(ctx, config.MongoURI, config.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("initialize Mongo ledger store: %w", err)
		}
		f.logger.Info("Initialized Mongo ledger store", "database", config.MongoDatabase)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case MemoryBackend:
		store := memory.New()
		f.logger.Info("Initialized memory ledger store")
		return &Result{Store: store, Cleanup: nil}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
