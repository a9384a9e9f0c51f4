// Package store persists the workspace continuity ledger.
//
// A store holds exactly one ledger. Load on a workspace that has never
// persisted returns an empty ledger rather than an error - absence is the
// initial state. Persist replaces the whole record atomically and durably:
// once it returns, a Load in a fresh process observes the write, and a reader
// never observes a partially-written record.
//
// Stores perform no retries and no silent recovery. Ledger writes are small,
// infrequent, and idempotent to repeat, so retry policy belongs to the caller.
package store

import (
	"context"
	"errors"

	"github.com/dyluth/drey/pkg/ledger"
)

// ErrStorageUnavailable wraps read/write failures where the storage target
// cannot be accessed. A missing ledger is NOT this error; it is the empty
// initial state.
var ErrStorageUnavailable = errors.New("ledger storage unavailable")

// IsStorageUnavailable checks if an error indicates an unreachable storage
// target, at any level of wrapping.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// Store is the persistence contract for a workspace's single ledger.
type Store interface {
	// Load reads the persisted ledger. If none exists yet, returns an empty
	// ledger with all sequences present and empty.
	Load(ctx context.Context) (*ledger.Ledger, error)

	// Persist writes the full ledger, replacing prior content. Durable before
	// returning; no partial state is ever persisted.
	Persist(ctx context.Context, l *ledger.Ledger) error
}
