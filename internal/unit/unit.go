// Package unit enforces the unit-of-work lifecycle around the ledger store:
//
//	start → loaded → (amending)* → persisted
//
// Begin loads the current snapshot, Amend folds mutations over it, Persist
// writes it back durably. A discontinuity branches through Rebuild, which
// reconstructs the snapshot from visible context and resumes amending. Calls
// outside the allowed transitions are errors - the ledger is never amended
// before it has been read, and a persisted unit accepts no further work until
// the next Begin.
package unit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dyluth/drey/internal/continuity"
	"github.com/dyluth/drey/internal/store"
	"github.com/dyluth/drey/pkg/ledger"
)

// Phase is the lifecycle state of a unit of work.
type Phase string

const (
	PhaseStart     Phase = "start"
	PhaseLoaded    Phase = "loaded"
	PhaseAmending  Phase = "amending"
	PhasePersisted Phase = "persisted"
)

// Unit is a single bounded interaction with the workspace ledger.
// Single-writer: one unit of work mutates the ledger at a time, and all
// operations are synchronous.
type Unit struct {
	store       store.Store
	phase       Phase
	snapshot    *ledger.Ledger
	unpersisted bool
}

// New creates a unit of work over the given store, in the start phase.
func New(s store.Store) *Unit {
	return &Unit{store: s, phase: PhaseStart}
}

// Phase returns the current lifecycle phase.
func (u *Unit) Phase() Phase {
	return u.phase
}

// Snapshot returns the current in-memory ledger. Callers must treat it as
// read-only; amendments go through Amend.
func (u *Unit) Snapshot() *ledger.Ledger {
	return u.snapshot
}

// Unpersisted reports whether the current snapshot carries amendments that a
// failed Persist could not write. The unit of work proceeds on the in-memory
// snapshot, but the caller must surface that persistence did not occur.
func (u *Unit) Unpersisted() bool {
	return u.unpersisted
}

// Begin starts the unit of work by loading the persisted ledger. A workspace
// with no ledger yet begins from the empty record. Valid from start, or from
// persisted to roll into the next unit of work.
func (u *Unit) Begin(ctx context.Context) (*ledger.Ledger, error) {
	if u.phase != PhaseStart && u.phase != PhasePersisted {
		return nil, fmt.Errorf("cannot begin: unit is in phase %q", u.phase)
	}

	l, err := u.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	u.snapshot = l
	u.phase = PhaseLoaded
	u.unpersisted = false
	return l, nil
}

// Amend folds mutations over the current snapshot and returns the result.
// Further amendments compose. Valid once the ledger has been loaded.
func (u *Unit) Amend(muts ...ledger.Mutation) (*ledger.Ledger, error) {
	if u.phase != PhaseLoaded && u.phase != PhaseAmending {
		return nil, fmt.Errorf("cannot amend: unit is in phase %q", u.phase)
	}

	amended, err := ledger.Apply(u.snapshot, muts...)
	if err != nil {
		return nil, err
	}

	u.snapshot = amended
	u.phase = PhaseAmending
	return amended, nil
}

// Persist stamps a fresh revision on the snapshot and writes it through the
// store. Durable before returning. On failure the unit stays in amending with
// its snapshot intact and Unpersisted reports true; the store performs no
// retries, so retrying is the caller's call.
func (u *Unit) Persist(ctx context.Context) error {
	if u.phase != PhaseAmending {
		return fmt.Errorf("cannot persist: unit is in phase %q", u.phase)
	}

	stamped := u.snapshot.Clone()
	stamped.Revision = uuid.New().String()
	stamped.UpdatedAtMs = time.Now().UnixMilli()

	if err := u.store.Persist(ctx, stamped); err != nil {
		u.unpersisted = true
		return err
	}

	u.snapshot = stamped
	u.phase = PhasePersisted
	u.unpersisted = false
	return nil
}

// CheckContinuity compares the loaded snapshot against the ledger content the
// caller can currently see. A discontinuous report means the caller must
// branch through Rebuild before continuing.
func (u *Unit) CheckContinuity(visible *ledger.Ledger) (continuity.Report, error) {
	if u.phase == PhaseStart {
		return continuity.Report{}, fmt.Errorf("cannot check continuity before begin")
	}
	return continuity.Detect(u.snapshot, visible), nil
}

// Rebuild replaces the snapshot with a reconstruction from visible context
// only, every carried entry tagged UNCONFIRMED, and resumes amending. The
// rebuilt ledger still needs a Persist to become the authoritative record.
func (u *Unit) Rebuild(visible *ledger.Ledger) *ledger.Ledger {
	u.snapshot = continuity.Rebuild(visible)
	u.phase = PhaseAmending
	return u.snapshot
}
