package interfaces

import (
	"context"

	"github.com/goliatone/go-press/pkg/storage"
)

// StorageProvider aliases the canonical provider contract so callers can keep
// importing a single interfaces package. Implementations should satisfy
// pkg/storage.Provider (and optional mix-ins) directly.
type StorageProvider = storage.Provider

// StorageReloadable mirrors storage.Reloadable for compatibility.
type StorageReloadable interface {
	Reload(ctx context.Context, cfg storage.Config) error
}

// StorageCapabilityReporter mirrors storage.CapabilityReporter for compatibility.
type StorageCapabilityReporter interface {
	Capabilities() storage.Capabilities
}

// Rows aliases the storage.Rows type.
type Rows = storage.Rows

// Result aliases the storage.Result type.
type Result = storage.Result

// Transaction aliases the storage.Transaction type.
type Transaction = storage.Transaction
