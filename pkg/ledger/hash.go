package ledger

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Serialization helpers for converting between the Ledger struct and a Redis
// hash. Redis stores data as string-to-string maps; sequence fields are
// JSON-encoded into single hash fields so the record stays queryable field by
// field without a second key per sequence.

// LedgerToHash converts a Ledger to Redis hash format.
// Sequence fields are JSON-encoded.
func LedgerToHash(l *Ledger) (map[string]interface{}, error) {
	goalJSON, err := json.Marshal(l.Goal)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal goal: %w", err)
	}

	constraintsJSON, err := json.Marshal(l.Constraints)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal constraints: %w", err)
	}

	decisionsJSON, err := json.Marshal(l.Decisions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal decisions: %w", err)
	}

	stateJSON, err := json.Marshal(l.State)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	questionsJSON, err := json.Marshal(l.OpenQuestions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal open questions: %w", err)
	}

	workingSetJSON, err := json.Marshal(l.WorkingSet)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal working set: %w", err)
	}

	hash := map[string]interface{}{
		"revision":       l.Revision,
		"updated_at_ms":  l.UpdatedAtMs,
		"goal":           string(goalJSON),
		"constraints":    string(constraintsJSON),
		"decisions":      string(decisionsJSON),
		"state":          string(stateJSON),
		"open_questions": string(questionsJSON),
		"working_set":    string(workingSetJSON),
	}

	return hash, nil
}

// HashToLedger converts a Redis hash back to a Ledger.
// JSON fields are decoded back to Go types; nil sequences normalize to empty.
func HashToLedger(hash map[string]string) (*Ledger, error) {
	l := NewLedger()

	l.Revision = hash["revision"]
	if ms := hash["updated_at_ms"]; ms != "" {
		parsed, err := strconv.ParseInt(ms, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid updated_at_ms field: %w", err)
		}
		l.UpdatedAtMs = parsed
	}

	if goalJSON := hash["goal"]; goalJSON != "" {
		if err := json.Unmarshal([]byte(goalJSON), &l.Goal); err != nil {
			return nil, fmt.Errorf("failed to unmarshal goal: %w", err)
		}
	}

	if err := unmarshalEntries(hash["constraints"], &l.Constraints); err != nil {
		return nil, fmt.Errorf("failed to unmarshal constraints: %w", err)
	}

	if err := unmarshalEntries(hash["decisions"], &l.Decisions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decisions: %w", err)
	}

	if stateJSON := hash["state"]; stateJSON != "" {
		if err := json.Unmarshal([]byte(stateJSON), &l.State); err != nil {
			return nil, fmt.Errorf("failed to unmarshal state: %w", err)
		}
	}

	if err := unmarshalEntries(hash["open_questions"], &l.OpenQuestions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal open_questions: %w", err)
	}

	if workingSetJSON := hash["working_set"]; workingSetJSON != "" {
		if err := json.Unmarshal([]byte(workingSetJSON), &l.WorkingSet); err != nil {
			return nil, fmt.Errorf("failed to unmarshal working_set: %w", err)
		}
	}

	l.normalize()

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("deserialized ledger invalid: %w", err)
	}

	return l, nil
}

func unmarshalEntries(data string, target *[]Entry) error {
	if data == "" {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}
	*target = entries
	return nil
}
