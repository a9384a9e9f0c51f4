package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedger(t *testing.T) {
	l := NewLedger()

	// Every field present, every sequence empty but non-nil.
	assert.NotNil(t, l.Constraints)
	assert.NotNil(t, l.Decisions)
	assert.NotNil(t, l.State.Done)
	assert.NotNil(t, l.State.Now)
	assert.NotNil(t, l.State.Next)
	assert.NotNil(t, l.OpenQuestions)
	assert.NotNil(t, l.WorkingSet)
	assert.Empty(t, l.Goal.Text)
	assert.Empty(t, l.Revision)

	assert.NoError(t, l.Validate())
}

func TestLedgerValidate(t *testing.T) {
	t.Run("accepts well-formed ledger", func(t *testing.T) {
		l := NewLedger()
		l.Revision = uuid.New().String()
		l.Goal = ConfirmedEntry("ship v1")
		l.Constraints = append(l.Constraints, ConfirmedEntry("no new deps"))
		l.State.Now = append(l.State.Now, ConfirmedEntry("fix bug"))
		l.WorkingSet = append(l.WorkingSet, WorkingSetEntry{Name: "api", Pointer: "internal/api/server.go", Confirmed: true})

		assert.NoError(t, l.Validate())
	})

	t.Run("rejects invalid revision", func(t *testing.T) {
		l := NewLedger()
		l.Revision = "not-a-uuid"

		err := l.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid revision")
	})

	t.Run("rejects item in two buckets", func(t *testing.T) {
		l := NewLedger()
		l.State.Now = append(l.State.Now, ConfirmedEntry("fix bug"))
		l.State.Next = append(l.State.Next, ConfirmedEntry("fix bug"))

		err := l.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "appears in both")
	})

	t.Run("rejects duplicate working set name", func(t *testing.T) {
		l := NewLedger()
		l.WorkingSet = []WorkingSetEntry{
			{Name: "api", Pointer: "a.go", Confirmed: true},
			{Name: "api", Pointer: "b.go", Confirmed: true},
		}

		err := l.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate working set name")
	})

	t.Run("rejects working set name with colon", func(t *testing.T) {
		l := NewLedger()
		l.WorkingSet = []WorkingSetEntry{{Name: "a:b", Pointer: "x", Confirmed: true}}

		assert.Error(t, l.Validate())
	})

	t.Run("rejects empty decision text", func(t *testing.T) {
		l := NewLedger()
		l.Decisions = append(l.Decisions, Entry{Text: "  ", Confirmed: true})

		assert.Error(t, l.Validate())
	})

	t.Run("rejects entry text spanning multiple lines", func(t *testing.T) {
		l := NewLedger()
		l.Goal = ConfirmedEntry("ship v1\nwith passing CI")

		err := l.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "control character")
	})

	t.Run("rejects text ending with the literal UNCONFIRMED tag", func(t *testing.T) {
		l := NewLedger()
		l.Decisions = append(l.Decisions, ConfirmedEntry("keep flag [UNCONFIRMED]"))

		err := l.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reserved")
	})

	t.Run("rejects working set pointer with a line break", func(t *testing.T) {
		l := NewLedger()
		l.WorkingSet = []WorkingSetEntry{{Name: "repro", Pointer: "go test\n./...", Confirmed: true}}

		assert.Error(t, l.Validate())
	})
}

func TestBucketValidate(t *testing.T) {
	assert.NoError(t, BucketDone.Validate())
	assert.NoError(t, BucketNow.Validate())
	assert.NoError(t, BucketNext.Validate())
	assert.Error(t, Bucket("later").Validate())
}

func TestStateFind(t *testing.T) {
	l := NewLedger()
	l.State.Next = append(l.State.Next, ConfirmedEntry("fix bug"), ConfirmedEntry("write docs"))

	bucket, idx := l.State.Find("write docs")
	assert.Equal(t, BucketNext, bucket)
	assert.Equal(t, 1, idx)

	bucket, idx = l.State.Find("missing")
	assert.Equal(t, Bucket(""), bucket)
	assert.Equal(t, -1, idx)
}

func TestClone(t *testing.T) {
	l := NewLedger()
	l.Goal = ConfirmedEntry("ship v1")
	l.Decisions = append(l.Decisions, ConfirmedEntry("use file backend"))
	l.State.Now = append(l.State.Now, ConfirmedEntry("fix bug"))

	c := l.Clone()
	require.Equal(t, l, c)

	// Mutating the clone must not touch the original.
	c.Decisions = append(c.Decisions, ConfirmedEntry("second"))
	c.State.Now[0].Text = "changed"

	assert.Len(t, l.Decisions, 1)
	assert.Equal(t, "fix bug", l.State.Now[0].Text)
}
