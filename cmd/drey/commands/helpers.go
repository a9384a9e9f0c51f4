package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dyluth/drey/internal/config"
	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/internal/store"
	"github.com/dyluth/drey/internal/unit"
	"github.com/dyluth/drey/internal/workspace"
	"github.com/dyluth/drey/pkg/ledger"
)

// loadWorkspace locates the workspace root from the current directory and
// loads its configuration.
func loadWorkspace() (string, *config.DreyConfig, error) {
	root, err := workspace.FindRootFromCwd()
	if err != nil {
		return "", nil, printer.Error(
			"no drey workspace found",
			"This directory is not inside a drey workspace.",
			[]string{"Initialize one first:\n  drey init"},
		)
	}

	cfg, err := config.Load(workspace.ConfigPath(root))
	if err != nil {
		return "", nil, printer.Error(
			"invalid workspace configuration",
			fmt.Sprintf("Error: %v", err),
			[]string{fmt.Sprintf("Fix %s or reinitialize:\n  drey init --force", workspace.ConfigPath(root))},
		)
	}

	return root, cfg, nil
}

// openStore builds the configured ledger store. The returned cleanup func
// must be called when the command finishes.
func openStore(ctx context.Context, root string, cfg *config.DreyConfig) (store.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		s, err := store.NewFileStore(workspace.LedgerPath(root, cfg.Storage.Path))
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil

	case config.BackendRedis:
		redisOpts, err := redis.ParseURL(cfg.Storage.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}

		s, err := store.NewRedisStore(redisOpts, cfg.Workspace)
		if err != nil {
			return nil, nil, err
		}

		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, nil, printer.Error(
				"Redis connection failed",
				fmt.Sprintf("Could not connect to Redis at %s", cfg.Storage.RedisURL),
				[]string{
					"Check that the Redis server is running",
					"Verify storage.redis_url in drey.yml",
				},
			)
		}

		return s, func() { s.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
}

// openRedisStore builds the Redis store, failing on file-backed workspaces.
// Used by commands that need pub/sub (watch).
func openRedisStore(ctx context.Context) (*store.RedisStore, error) {
	_, cfg, err := loadWorkspace()
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Backend != config.BackendRedis {
		return nil, printer.Error(
			"watch requires the redis backend",
			"This workspace uses the file backend, which has no event stream.",
			[]string{"Switch the workspace to redis in drey.yml:\n  storage:\n    backend: redis\n    redis_url: redis://..."},
		)
	}

	redisOpts, err := redis.ParseURL(cfg.Storage.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	s, err := store.NewRedisStore(redisOpts, cfg.Workspace)
	if err != nil {
		return nil, err
	}

	if err := s.Ping(ctx); err != nil {
		s.Close()
		return nil, printer.Error(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", cfg.Storage.RedisURL),
			[]string{"Check that the Redis server is running"},
		)
	}

	return s, nil
}

// runAmendment is the shared unit-of-work flow for every amending verb:
// begin (load), amend, persist. A storage failure on persist leaves the
// amendment in memory only, which the user must be told about.
func runAmendment(ctx context.Context, muts ...ledger.Mutation) (*ledger.Ledger, error) {
	root, cfg, err := loadWorkspace()
	if err != nil {
		return nil, err
	}

	s, cleanup, err := openStore(ctx, root, cfg)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	u := unit.New(s)
	if _, err := u.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	amended, err := u.Amend(muts...)
	if err != nil {
		return nil, printer.Error(
			"amendment rejected",
			fmt.Sprintf("Error: %v", err),
			[]string{"Inspect the current ledger:\n  drey show"},
		)
	}

	if err := u.Persist(ctx); err != nil {
		if store.IsStorageUnavailable(err) {
			return nil, printer.Error(
				"ledger not persisted",
				fmt.Sprintf("The amendment was applied in memory but could not be written: %v", err),
				[]string{"Check the storage target and re-run the command"},
			)
		}
		return nil, err
	}

	return amended, nil
}

// entryFromArgs joins positional args into one entry, confirmed unless the
// caller's --unconfirmed flag says otherwise.
func entryFromArgs(args []string, confirmed bool) ledger.Entry {
	return ledger.Entry{Text: strings.Join(args, " "), Confirmed: confirmed}
}
