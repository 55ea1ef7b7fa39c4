package backend

import (
	"context"

	"epaypro/internal/ledger"
)

// Backend bundles every ledger port the application needs.
type Backend interface {
	ledger.TransactionRecorder
	ledger.TransactionLister
	ledger.ClientRegistrar
	ledger.ClientLister
	ledger.SupplierLister
	ledger.MaintenanceOpener
	ledger.MaintenanceLister
	ledger.MaintenanceStatusUpdater
	ledger.VersionReader
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function.
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// Memory backend specific
	DataDirectory string
}

// BackendType represents the type of backend. Memory is the only backend:
// the ledger is volatile by design and resets on restart.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer.
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	return bt == MemoryBackend
}
