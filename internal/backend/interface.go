package backend

import (
	"context"

	"wallet/internal/analytics"
	"wallet/internal/seed"
)

// Backend is a data store the reports can read from and seed data can be
// written to.
type Backend interface {
	analytics.Store
	seed.Writer
	Ping(ctx context.Context) error
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult contains the backend instance and its cleanup function.
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}
