package ledger

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Entry is a single free-text item in the ledger. Confirmed distinguishes
// verified facts from content carried over without verification; unconfirmed
// entries render with an explicit [UNCONFIRMED] tag.
type Entry struct {
	Text      string `json:"text"`
	Confirmed bool   `json:"confirmed"`
}

// ConfirmedEntry returns a confirmed entry with the given text.
func ConfirmedEntry(text string) Entry {
	return Entry{Text: text, Confirmed: true}
}

// UnconfirmedEntry returns an entry tagged UNCONFIRMED.
func UnconfirmedEntry(text string) Entry {
	return Entry{Text: text, Confirmed: false}
}

// Bucket identifies one of the three state buckets.
type Bucket string

const (
	BucketDone Bucket = "done"
	BucketNow  Bucket = "now"
	BucketNext Bucket = "next"
)

// Validate checks if the Bucket is a valid enum value.
func (b Bucket) Validate() error {
	switch b {
	case BucketDone, BucketNow, BucketNext:
		return nil
	default:
		return fmt.Errorf("unknown bucket: %q", b)
	}
}

// State holds the three ordered work-item buckets. An item belongs to at most
// one bucket at any time.
type State struct {
	Done []Entry `json:"done"`
	Now  []Entry `json:"now"`
	Next []Entry `json:"next"`
}

// bucket returns a pointer to the named bucket's slice.
func (s *State) bucket(b Bucket) *[]Entry {
	switch b {
	case BucketDone:
		return &s.Done
	case BucketNow:
		return &s.Now
	case BucketNext:
		return &s.Next
	}
	return nil
}

// Find returns the bucket holding an item with the given text, and its index,
// or ("", -1) if no bucket holds it.
func (s *State) Find(text string) (Bucket, int) {
	for _, b := range []Bucket{BucketDone, BucketNow, BucketNext} {
		for i, e := range *s.bucket(b) {
			if e.Text == text {
				return b, i
			}
		}
	}
	return "", -1
}

// WorkingSetEntry maps a reference name to a free-text pointer (a file path,
// identifier, or command).
type WorkingSetEntry struct {
	Name      string `json:"name"`
	Pointer   string `json:"pointer"`
	Confirmed bool   `json:"confirmed"`
}

// Ledger is the single persisted state record for a workspace.
// Every field is always present, even when its sequence is empty.
type Ledger struct {
	Revision      string            `json:"revision"`      // UUID stamped on each persist; empty before first persist
	UpdatedAtMs   int64             `json:"updated_at_ms"` // Unix timestamp in milliseconds of the last persist
	Goal          Entry             `json:"goal"`          // Free text incl. success criteria
	Constraints   []Entry           `json:"constraints"`
	Decisions     []Entry           `json:"decisions"` // Append-mostly; earlier entries are superseded, not deleted
	State         State             `json:"state"`
	OpenQuestions []Entry           `json:"open_questions"`
	WorkingSet    []WorkingSetEntry `json:"working_set"`
}

// NewLedger returns an empty ledger with every sequence present and empty.
// This is the initial state of a workspace that has never persisted a ledger.
func NewLedger() *Ledger {
	return &Ledger{
		Goal:        Entry{Confirmed: true},
		Constraints: []Entry{},
		Decisions:   []Entry{},
		State: State{
			Done: []Entry{},
			Now:  []Entry{},
			Next: []Entry{},
		},
		OpenQuestions: []Entry{},
		WorkingSet:    []WorkingSetEntry{},
	}
}

// Clone returns a deep copy of the ledger. Mutations are applied to clones so
// a caller's snapshot is never observed half-mutated.
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.Constraints = append([]Entry{}, l.Constraints...)
	c.Decisions = append([]Entry{}, l.Decisions...)
	c.State = State{
		Done: append([]Entry{}, l.State.Done...),
		Now:  append([]Entry{}, l.State.Now...),
		Next: append([]Entry{}, l.State.Next...),
	}
	c.OpenQuestions = append([]Entry{}, l.OpenQuestions...)
	c.WorkingSet = append([]WorkingSetEntry{}, l.WorkingSet...)
	return &c
}

// normalize replaces nil sequences with empty ones. Decoded ledgers pass
// through here so every field is present regardless of source.
func (l *Ledger) normalize() {
	if l.Constraints == nil {
		l.Constraints = []Entry{}
	}
	if l.Decisions == nil {
		l.Decisions = []Entry{}
	}
	if l.State.Done == nil {
		l.State.Done = []Entry{}
	}
	if l.State.Now == nil {
		l.State.Now = []Entry{}
	}
	if l.State.Next == nil {
		l.State.Next = []Entry{}
	}
	if l.OpenQuestions == nil {
		l.OpenQuestions = []Entry{}
	}
	if l.WorkingSet == nil {
		l.WorkingSet = []WorkingSetEntry{}
	}
}

// Validate checks if the Ledger has valid field values.
// Returns an error if any validation fails.
func (l *Ledger) Validate() error {
	if l.Revision != "" && !isValidUUID(l.Revision) {
		return fmt.Errorf("invalid revision: not a valid UUID")
	}

	if l.Goal.Text != "" {
		if err := validText(l.Goal.Text); err != nil {
			return fmt.Errorf("goal: %w", err)
		}
	}

	for i, e := range l.Constraints {
		if err := validText(e.Text); err != nil {
			return fmt.Errorf("constraint %d: %w", i, err)
		}
	}

	for i, e := range l.Decisions {
		if err := validText(e.Text); err != nil {
			return fmt.Errorf("decision %d: %w", i, err)
		}
	}

	for i, e := range l.OpenQuestions {
		if err := validText(e.Text); err != nil {
			return fmt.Errorf("open question %d: %w", i, err)
		}
	}

	// A state item belongs to at most one bucket, once.
	seen := make(map[string]Bucket)
	for _, b := range []Bucket{BucketDone, BucketNow, BucketNext} {
		for _, e := range *l.State.bucket(b) {
			if err := validText(e.Text); err != nil {
				return fmt.Errorf("state item in bucket %q: %w", b, err)
			}
			if prev, ok := seen[e.Text]; ok {
				return fmt.Errorf("state item %q appears in both %q and %q", e.Text, prev, b)
			}
			seen[e.Text] = b
		}
	}

	// Working set names are unique and colon-free (the text codec renders
	// entries as "name: pointer").
	names := make(map[string]bool)
	for i, ws := range l.WorkingSet {
		if err := validText(ws.Name); err != nil {
			return fmt.Errorf("working set name at index %d: %w", i, err)
		}
		if strings.Contains(ws.Name, ":") {
			return fmt.Errorf("working set name %q must not contain ':'", ws.Name)
		}
		if names[ws.Name] {
			return fmt.Errorf("duplicate working set name %q", ws.Name)
		}
		names[ws.Name] = true
		if err := validText(ws.Pointer); err != nil {
			return fmt.Errorf("working set pointer for %q: %w", ws.Name, err)
		}
	}

	return nil
}

// validText rejects text the line-oriented record codec cannot carry: blank
// text, control characters (a line break would split the item across record
// lines), and text ending in the literal UNCONFIRMED tag (indistinguishable
// from the confirmation marker when parsed back).
func validText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is empty")
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return fmt.Errorf("text contains a control character")
		}
	}
	if text == unconfirmedTag || strings.HasSuffix(text, " "+unconfirmedTag) {
		return fmt.Errorf("text ends with the reserved %s tag", unconfirmedTag)
	}
	return nil
}

// isValidUUID checks if a string is a valid UUID format.
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
