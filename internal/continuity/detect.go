// Package continuity detects discontinuities between the persisted ledger and
// the context an agent can still see, and rebuilds the ledger when one fires.
//
// A discontinuity means the caller's visible history has been compacted or
// summarized since the ledger was last persisted: the persisted record knows
// more than the caller does. Once detected, nothing outside the ledger is
// trusted - the ledger is rebuilt from visible context only, every carried
// entry is tagged UNCONFIRMED, and up to three targeted clarifying questions
// are surfaced before work continues.
package continuity

import (
	"fmt"

	"github.com/dyluth/drey/pkg/ledger"
)

// MaxClarifyingQuestions caps how many questions a rebuild surfaces before
// continuing. Three is enough to recover the load-bearing fields without
// stalling the unit of work.
const MaxClarifyingQuestions = 3

// Report is the outcome of a discontinuity check.
type Report struct {
	Discontinuous bool     // True when visible context is inconsistent with the persisted ledger
	Reasons       []string // One entry per heuristic that fired
	Questions     []string // Up to MaxClarifyingQuestions targeted questions, most load-bearing first
}

// Detect compares the persisted ledger against the snapshot of it the caller
// can currently see. The visible snapshot showing strictly less than the
// persisted record - a blank goal, fewer decisions, missing state items -
// signals that a compaction happened and the ledger must be rebuilt.
//
// Not fatal: callers branch to Rebuild rather than aborting.
func Detect(persisted, visible *ledger.Ledger) Report {
	var r Report

	if persisted.Goal.Text != "" && visible.Goal.Text == "" {
		r.flag("persisted goal is no longer visible",
			"What is the current goal, including its success criteria?")
	}

	if len(visible.Decisions) < len(persisted.Decisions) {
		r.flag(fmt.Sprintf("persisted ledger records %d decisions but only %d are visible",
			len(persisted.Decisions), len(visible.Decisions)),
			"Which of the recorded key decisions still stand?")
	}

	persistedItems := stateItemCount(&persisted.State)
	visibleItems := stateItemCount(&visible.State)
	if visibleItems < persistedItems {
		r.flag(fmt.Sprintf("persisted state tracks %d items but only %d are visible",
			persistedItems, visibleItems),
			"What is done, what is in progress right now, and what is next?")
	}

	if len(visible.Constraints) < len(persisted.Constraints) {
		r.flag(fmt.Sprintf("persisted ledger records %d constraints but only %d are visible",
			len(persisted.Constraints), len(visible.Constraints)),
			"Do the recorded constraints and assumptions still apply?")
	}

	if len(visible.OpenQuestions) < len(persisted.OpenQuestions) {
		r.flag(fmt.Sprintf("persisted ledger records %d open questions but only %d are visible",
			len(persisted.OpenQuestions), len(visible.OpenQuestions)),
			"Which open questions are still unanswered?")
	}

	if len(visible.WorkingSet) < len(persisted.WorkingSet) {
		r.flag(fmt.Sprintf("persisted working set has %d entries but only %d are visible",
			len(persisted.WorkingSet), len(visible.WorkingSet)),
			"Which files, ids, and commands are still in the working set?")
	}

	return r
}

// flag records a fired heuristic and its clarifying question, respecting the
// question cap.
func (r *Report) flag(reason, question string) {
	r.Discontinuous = true
	r.Reasons = append(r.Reasons, reason)
	if len(r.Questions) < MaxClarifyingQuestions {
		r.Questions = append(r.Questions, question)
	}
}

func stateItemCount(s *ledger.State) int {
	return len(s.Done) + len(s.Now) + len(s.Next)
}

// Rebuild reconstructs the ledger from visible context only. Every carried
// entry is tagged UNCONFIRMED - after a discontinuity nothing is asserted as
// fact until re-verified. Revision identity is cleared; the next persist
// stamps a fresh one.
func Rebuild(visible *ledger.Ledger) *ledger.Ledger {
	l := visible.Clone()
	l.Revision = ""
	l.UpdatedAtMs = 0

	if l.Goal.Text != "" {
		l.Goal.Confirmed = false
	}
	untag(l.Constraints)
	untag(l.Decisions)
	untag(l.State.Done)
	untag(l.State.Now)
	untag(l.State.Next)
	untag(l.OpenQuestions)
	for i := range l.WorkingSet {
		l.WorkingSet[i].Confirmed = false
	}

	return l
}

func untag(entries []ledger.Entry) {
	for i := range entries {
		entries[i].Confirmed = false
	}
}
