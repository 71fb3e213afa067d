package backend

import (
	"context"
	"fmt"
	"log/slog"

	"wallet/internal/seed"
	"wallet/internal/storage"
	"wallet/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the configured backend and loads the seed file, if any.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		result = f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.SeedFile != "" {
		st, err := seed.LoadFile(ctx, result.Backend, config.SeedFile)
		if err != nil {
			if cerr := result.Cleanup(); cerr != nil {
				f.logger.Warn("Backend cleanup failed", "error", cerr)
			}
			return nil, fmt.Errorf("load seed file: %w", err)
		}
		f.logger.Info("Loaded seed data",
			"file", config.SeedFile,
			"transactions", st.Transactions,
			"snapshots", st.Snapshots,
			"categories", st.Categories)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{Backend: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createMemoryBackend() *BackendResult {
	store := memory.New()

	f.logger.Info("Initialized memory backend")

	return &BackendResult{Backend: store, Cleanup: store.Close}
}
