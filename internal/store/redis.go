package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dyluth/drey/pkg/ledger"
)

// RedisStore persists the ledger in Redis for workspaces shared between
// machines. The record is stored as a hash at drey:{workspace}:ledger, and
// every persist publishes the full ledger JSON to
// drey:{workspace}:ledger_events so watchers can stream amendments.
//
// Keys are namespaced by workspace so multiple workspaces can safely coexist
// on a single Redis server.
type RedisStore struct {
	rdb       *redis.Client
	workspace string
}

// NewRedisStore creates a Redis-backed store for the named workspace.
// Returns an error if workspace is empty.
func NewRedisStore(redisOpts *redis.Options, workspace string) (*RedisStore, error) {
	if workspace == "" {
		return nil, fmt.Errorf("workspace name cannot be empty")
	}

	return &RedisStore{
		rdb:       redis.NewClient(redisOpts),
		workspace: workspace,
	}, nil
}

// LedgerKey returns the Redis key for a workspace's ledger hash.
func LedgerKey(workspace string) string {
	return fmt.Sprintf("drey:%s:ledger", workspace)
}

// EventsChannel returns the pub/sub channel persist events are published to.
func EventsChannel(workspace string) string {
	return fmt.Sprintf("drey:%s:ledger_events", workspace)
}

// Close closes the Redis connection. Implements io.Closer.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Ping verifies Redis connectivity. Useful before starting a unit of work.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Load reads the persisted ledger hash. A missing key is the empty initial
// state, not an error.
func (s *RedisStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	hashData, err := s.rdb.HGetAll(ctx, LedgerKey(s.workspace)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: reading ledger from Redis: %v", ErrStorageUnavailable, err)
	}

	// HGetAll returns an empty map for non-existent keys.
	if len(hashData) == 0 {
		return ledger.NewLedger(), nil
	}

	l, err := ledger.HashToLedger(hashData)
	if err != nil {
		return nil, fmt.Errorf("malformed ledger record in Redis: %w", err)
	}

	return l, nil
}

// Persist writes the full ledger hash and publishes a persist event.
// The hash field set is fixed, so HSet fully replaces prior content.
func (s *RedisStore) Persist(ctx context.Context, l *ledger.Ledger) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("invalid ledger: %w", err)
	}

	hash, err := ledger.LedgerToHash(l)
	if err != nil {
		return fmt.Errorf("failed to serialize ledger: %w", err)
	}

	if err := s.rdb.HSet(ctx, LedgerKey(s.workspace), hash).Err(); err != nil {
		return fmt.Errorf("%w: writing ledger to Redis: %v", ErrStorageUnavailable, err)
	}

	ledgerJSON, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger for event: %w", err)
	}

	if err := s.rdb.Publish(ctx, EventsChannel(s.workspace), ledgerJSON).Err(); err != nil {
		return fmt.Errorf("%w: publishing persist event: %v", ErrStorageUnavailable, err)
	}

	return nil
}

// Events subscribes to persist events for this workspace. The caller owns
// the returned subscription and must Close it.
func (s *RedisStore) Events(ctx context.Context) *redis.PubSub {
	return s.rdb.Subscribe(ctx, EventsChannel(s.workspace))
}
