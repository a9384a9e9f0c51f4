package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dyluth/drey/pkg/ledger"
)

// FileStore persists the ledger as a single human-readable text record,
// by default at .drey/ledger.md inside the workspace.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store for the given record path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path cannot be empty")
	}
	return &FileStore{path: path}, nil
}

// Path returns the record path this store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and parses the persisted record. A missing file is the empty
// initial state, not an error. An unreadable file surfaces as
// ErrStorageUnavailable; a malformed record surfaces as a parse error.
func (s *FileStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorageUnavailable, s.path, err)
	}

	l, err := ledger.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("malformed ledger record at %s: %w", s.path, err)
	}

	return l, nil
}

// Persist atomically replaces the record: the new content is written to a
// temp file in the same directory, fsynced, then renamed over the old record.
// A concurrent reader sees the old record or the new one, never a mix, and
// the write is durable before Persist returns.
func (s *FileStore) Persist(ctx context.Context, l *ledger.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := l.Validate(); err != nil {
		return fmt.Errorf("invalid ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrStorageUnavailable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp record in %s: %v", ErrStorageUnavailable, dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.WriteString(ledger.Render(l)); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing temp record: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: syncing temp record: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: setting record permissions: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing temp record: %v", ErrStorageUnavailable, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("%w: replacing %s: %v", ErrStorageUnavailable, s.path, err)
	}

	// Sync the directory so the rename itself is durable.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return nil
}
