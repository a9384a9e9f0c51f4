package ledger

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Canonical text record layout. Every heading is always present, in this
// order, even when its section is empty:
//
//	goal (incl. success criteria):
//	constraints/assumptions:
//	key decisions:
//	state:
//	 done
//	 now
//	 next
//	open questions: (UNCONFIRMED if needed):
//	working set (files/ids/commands):
//
// Items render as "- text", with a trailing [UNCONFIRMED] tag on unconfirmed
// entries. State items are indented one space under their bucket label.
// Working set entries render as "- name: pointer".

const (
	headingGoal        = "goal (incl. success criteria):"
	headingConstraints = "constraints/assumptions:"
	headingDecisions   = "key decisions:"
	headingState       = "state:"
	headingQuestions   = "open questions: (UNCONFIRMED if needed):"
	headingWorkingSet  = "working set (files/ids/commands):"

	unconfirmedTag = "[UNCONFIRMED]"
	headerPrefix   = "# drey ledger"
)

// Render converts a ledger to its canonical text record.
// Parse(Render(l)) returns a ledger equal to l.
func Render(l *Ledger) string {
	var b strings.Builder

	if l.Revision != "" {
		fmt.Fprintf(&b, "%s rev=%s updated_ms=%d\n", headerPrefix, l.Revision, l.UpdatedAtMs)
	}

	b.WriteString(headingGoal + "\n")
	if l.Goal.Text != "" {
		b.WriteString(renderItem("- ", l.Goal))
	}

	b.WriteString(headingConstraints + "\n")
	for _, e := range l.Constraints {
		b.WriteString(renderItem("- ", e))
	}

	b.WriteString(headingDecisions + "\n")
	for _, e := range l.Decisions {
		b.WriteString(renderItem("- ", e))
	}

	b.WriteString(headingState + "\n")
	for _, bucket := range []Bucket{BucketDone, BucketNow, BucketNext} {
		fmt.Fprintf(&b, " %s\n", bucket)
		for _, e := range *l.State.bucket(bucket) {
			b.WriteString(renderItem(" - ", e))
		}
	}

	b.WriteString(headingQuestions + "\n")
	for _, e := range l.OpenQuestions {
		b.WriteString(renderItem("- ", e))
	}

	b.WriteString(headingWorkingSet + "\n")
	for _, ws := range l.WorkingSet {
		b.WriteString(renderItem("- ", Entry{
			Text:      ws.Name + ": " + ws.Pointer,
			Confirmed: ws.Confirmed,
		}))
	}

	return b.String()
}

func renderItem(prefix string, e Entry) string {
	if e.Confirmed {
		return prefix + e.Text + "\n"
	}
	return prefix + e.Text + " " + unconfirmedTag + "\n"
}

// section identifies which part of the record the parser is inside.
type section int

const (
	sectionNone section = iota
	sectionGoal
	sectionConstraints
	sectionDecisions
	sectionState
	sectionQuestions
	sectionWorkingSet
)

// sectionHeadings maps each section to its heading, in record order.
var sectionHeadings = [...]string{
	sectionGoal:        headingGoal,
	sectionConstraints: headingConstraints,
	sectionDecisions:   headingDecisions,
	sectionState:       headingState,
	sectionQuestions:   headingQuestions,
	sectionWorkingSet:  headingWorkingSet,
}

// Parse converts a canonical text record back to a ledger.
// All six headings must be present in order; the header line is optional
// (a hand-written or rebuilt record may not carry a revision yet).
func Parse(data string) (*Ledger, error) {
	l := NewLedger()
	l.Goal = Entry{Confirmed: true}

	current := sectionNone
	var currentBucket Bucket
	goalSeen := false

	headings := map[string]section{
		headingGoal:        sectionGoal,
		headingConstraints: sectionConstraints,
		headingDecisions:   sectionDecisions,
		headingState:       sectionState,
		headingQuestions:   sectionQuestions,
		headingWorkingSet:  sectionWorkingSet,
	}

	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}

		// Optional header line carrying revision identity.
		if strings.HasPrefix(line, headerPrefix) {
			if current != sectionNone {
				return nil, fmt.Errorf("line %d: header line after content", lineNo)
			}
			if err := parseHeader(line, l); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		// Section heading? Headings appear exactly once, in record order,
		// with none skipped.
		if next, ok := headings[line]; ok {
			if next <= current {
				return nil, fmt.Errorf("line %d: heading %q out of order", lineNo, line)
			}
			if next != current+1 {
				return nil, fmt.Errorf("line %d: missing heading %q", lineNo, sectionHeadings[current+1])
			}
			current = next
			currentBucket = ""
			continue
		}

		switch current {
		case sectionNone:
			return nil, fmt.Errorf("line %d: content before first heading: %q", lineNo, line)

		case sectionGoal:
			if goalSeen {
				return nil, fmt.Errorf("line %d: multiple goal entries", lineNo)
			}
			text, confirmed, err := parseItem(line, "- ")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			l.Goal = Entry{Text: text, Confirmed: confirmed}
			goalSeen = true

		case sectionConstraints:
			e, err := parseEntry(line, "- ")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			l.Constraints = append(l.Constraints, e)

		case sectionDecisions:
			e, err := parseEntry(line, "- ")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			l.Decisions = append(l.Decisions, e)

		case sectionState:
			// Bucket labels are indented one space: " done" / " now" / " next".
			if b := Bucket(strings.TrimPrefix(line, " ")); !strings.HasPrefix(line, " -") && b.Validate() == nil {
				currentBucket = b
				continue
			}
			if currentBucket == "" {
				return nil, fmt.Errorf("line %d: state item before bucket label: %q", lineNo, line)
			}
			e, err := parseEntry(line, " - ")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			target := l.State.bucket(currentBucket)
			*target = append(*target, e)

		case sectionQuestions:
			e, err := parseEntry(line, "- ")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			l.OpenQuestions = append(l.OpenQuestions, e)

		case sectionWorkingSet:
			e, err := parseEntry(line, "- ")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			name, pointer, found := strings.Cut(e.Text, ": ")
			if !found {
				return nil, fmt.Errorf("line %d: working set entry missing ': ' separator: %q", lineNo, line)
			}
			l.WorkingSet = append(l.WorkingSet, WorkingSetEntry{
				Name:      name,
				Pointer:   pointer,
				Confirmed: e.Confirmed,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	if current != sectionWorkingSet {
		return nil, fmt.Errorf("incomplete record: missing heading %q", sectionHeadings[current+1])
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("parsed ledger invalid: %w", err)
	}

	return l, nil
}

// parseHeader extracts revision identity from the "# drey ledger" line.
func parseHeader(line string, l *Ledger) error {
	for _, field := range strings.Fields(strings.TrimPrefix(line, headerPrefix)) {
		key, value, found := strings.Cut(field, "=")
		if !found {
			return fmt.Errorf("malformed header field %q", field)
		}
		switch key {
		case "rev":
			if !isValidUUID(value) {
				return fmt.Errorf("invalid revision in header: %q", value)
			}
			l.Revision = value
		case "updated_ms":
			ms, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid updated_ms in header: %q", value)
			}
			l.UpdatedAtMs = ms
		default:
			return fmt.Errorf("unknown header field %q", key)
		}
	}
	return nil
}

func parseEntry(line, prefix string) (Entry, error) {
	text, confirmed, err := parseItem(line, prefix)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Text: text, Confirmed: confirmed}, nil
}

// parseItem strips the item prefix and the optional trailing UNCONFIRMED tag.
func parseItem(line, prefix string) (text string, confirmed bool, err error) {
	if !strings.HasPrefix(line, prefix) {
		return "", false, fmt.Errorf("expected item prefix %q: %q", prefix, line)
	}
	text = line[len(prefix):]
	confirmed = true
	if strings.HasSuffix(text, " "+unconfirmedTag) {
		text = strings.TrimSuffix(text, " "+unconfirmedTag)
		confirmed = false
	} else if text == unconfirmedTag {
		return "", false, fmt.Errorf("item has UNCONFIRMED tag but no text")
	}
	if strings.TrimSpace(text) == "" {
		return "", false, fmt.Errorf("empty item text")
	}
	return text, confirmed, nil
}
