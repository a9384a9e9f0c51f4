// Package ledger provides type-safe definitions and codecs for the drey
// continuity ledger - the single structured state record a workspace carries
// between units of work.
//
// # Overview
//
// The ledger is the sole authoritative carry-over state for a workspace. It is
// read at the start of every unit of work, amended in place through typed
// mutations, and persisted as a whole before the unit ends. Agents that lose
// part of their visible history (compaction, summarization) rebuild the ledger
// from what remains, tagging everything unverified as UNCONFIRMED rather than
// asserting it as fact.
//
// # Core concepts
//
// A Ledger holds six fields, all always present even when empty: the goal,
// ordered constraint and decision entries, three state buckets (done/now/next),
// open questions, and a named working set of file/id/command pointers.
//
// Every Entry carries a confirmed flag. Unconfirmed entries render with an
// explicit [UNCONFIRMED] tag so uncertainty is visible in the persisted record
// and machine-checkable in tests.
//
// Mutations are applied with Apply, which folds them over a deep copy and
// returns the result: callers never observe a half-mutated ledger.
//
// # Codecs
//
// Render and Parse convert between a Ledger and its canonical fixed-heading
// text record (the on-disk format). LedgerToHash and HashToLedger convert to
// and from the flat string map used by the Redis backend, with sequence fields
// JSON-encoded into single hash fields.
//
// # Invariants
//
//   - Exactly one ledger exists per workspace.
//   - A state item belongs to at most one of done/now/next.
//   - Working set names are unique within the ledger.
//   - Uncertain content is tagged UNCONFIRMED, never guessed or omitted.
package ledger
