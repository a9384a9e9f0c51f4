package ledger

import (
	"fmt"
	"strings"
)

// Mutation is a single field-level change to a ledger. Mutations are built
// with the constructor functions below and applied with Apply.
type Mutation interface {
	apply(l *Ledger) error
}

// Apply folds mutations over a deep copy of the ledger and returns the result.
// The input ledger is never modified, so a caller holding the old snapshot
// sees old content or fully new content, never a mix. The returned ledger is
// validated; a mutation that would break an invariant fails the whole batch.
func Apply(l *Ledger, muts ...Mutation) (*Ledger, error) {
	next := l.Clone()
	for i, m := range muts {
		if err := m.apply(next); err != nil {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}
	}
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("amended ledger invalid: %w", err)
	}
	return next, nil
}

// SetGoal replaces the goal.
func SetGoal(e Entry) Mutation { return setGoal{e} }

// AppendConstraint appends a constraint/assumption statement.
func AppendConstraint(e Entry) Mutation { return appendConstraint{e} }

// AppendDecision appends a decision record. Earlier decisions are never
// deleted; a contradicting later entry supersedes them.
func AppendDecision(e Entry) Mutation { return appendDecision{e} }

// AddQuestion appends an open question.
func AddQuestion(e Entry) Mutation { return addQuestion{e} }

// ResolveQuestion removes the open question with the given text.
func ResolveQuestion(text string) Mutation { return resolveQuestion{text} }

// AddStateItem adds a new item to the named bucket. Fails if any bucket
// already holds an item with the same text.
func AddStateItem(b Bucket, e Entry) Mutation { return addStateItem{b, e} }

// MoveStateItem moves the item with the given text from whichever bucket
// holds it to the target bucket. Fails if no bucket holds it.
func MoveStateItem(text string, to Bucket) Mutation { return moveStateItem{text, to} }

// RemoveStateItem removes the item with the given text from its bucket.
func RemoveStateItem(text string) Mutation { return removeStateItem{text} }

// UpsertWorkingSet adds or replaces the working set entry with the given name.
func UpsertWorkingSet(ws WorkingSetEntry) Mutation { return upsertWorkingSet{ws} }

// RemoveWorkingSet removes the working set entry with the given name.
func RemoveWorkingSet(name string) Mutation { return removeWorkingSet{name} }

type setGoal struct{ e Entry }

func (m setGoal) apply(l *Ledger) error {
	l.Goal = m.e
	return nil
}

type appendConstraint struct{ e Entry }

func (m appendConstraint) apply(l *Ledger) error {
	if strings.TrimSpace(m.e.Text) == "" {
		return fmt.Errorf("constraint text cannot be empty")
	}
	l.Constraints = append(l.Constraints, m.e)
	return nil
}

type appendDecision struct{ e Entry }

func (m appendDecision) apply(l *Ledger) error {
	if strings.TrimSpace(m.e.Text) == "" {
		return fmt.Errorf("decision text cannot be empty")
	}
	l.Decisions = append(l.Decisions, m.e)
	return nil
}

type addQuestion struct{ e Entry }

func (m addQuestion) apply(l *Ledger) error {
	if strings.TrimSpace(m.e.Text) == "" {
		return fmt.Errorf("question text cannot be empty")
	}
	l.OpenQuestions = append(l.OpenQuestions, m.e)
	return nil
}

type resolveQuestion struct{ text string }

func (m resolveQuestion) apply(l *Ledger) error {
	for i, e := range l.OpenQuestions {
		if e.Text == m.text {
			l.OpenQuestions = append(l.OpenQuestions[:i], l.OpenQuestions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no open question %q", m.text)
}

type addStateItem struct {
	bucket Bucket
	e      Entry
}

func (m addStateItem) apply(l *Ledger) error {
	if err := m.bucket.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(m.e.Text) == "" {
		return fmt.Errorf("state item text cannot be empty")
	}
	if b, _ := l.State.Find(m.e.Text); b != "" {
		return fmt.Errorf("state item %q already in bucket %q", m.e.Text, b)
	}
	target := l.State.bucket(m.bucket)
	*target = append(*target, m.e)
	return nil
}

type moveStateItem struct {
	text string
	to   Bucket
}

func (m moveStateItem) apply(l *Ledger) error {
	if err := m.to.Validate(); err != nil {
		return err
	}
	from, idx := l.State.Find(m.text)
	if from == "" {
		return fmt.Errorf("no state item %q in any bucket", m.text)
	}
	source := l.State.bucket(from)
	entry := (*source)[idx]
	*source = append((*source)[:idx], (*source)[idx+1:]...)
	target := l.State.bucket(m.to)
	*target = append(*target, entry)
	return nil
}

type removeStateItem struct{ text string }

func (m removeStateItem) apply(l *Ledger) error {
	from, idx := l.State.Find(m.text)
	if from == "" {
		return fmt.Errorf("no state item %q in any bucket", m.text)
	}
	source := l.State.bucket(from)
	*source = append((*source)[:idx], (*source)[idx+1:]...)
	return nil
}

type upsertWorkingSet struct{ ws WorkingSetEntry }

func (m upsertWorkingSet) apply(l *Ledger) error {
	if strings.TrimSpace(m.ws.Name) == "" {
		return fmt.Errorf("working set name cannot be empty")
	}
	if strings.TrimSpace(m.ws.Pointer) == "" {
		return fmt.Errorf("working set pointer cannot be empty")
	}
	for i, ws := range l.WorkingSet {
		if ws.Name == m.ws.Name {
			l.WorkingSet[i] = m.ws
			return nil
		}
	}
	l.WorkingSet = append(l.WorkingSet, m.ws)
	return nil
}

type removeWorkingSet struct{ name string }

func (m removeWorkingSet) apply(l *Ledger) error {
	for i, ws := range l.WorkingSet {
		if ws.Name == m.name {
			l.WorkingSet = append(l.WorkingSet[:i], l.WorkingSet[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no working set entry %q", m.name)
}
