package commands

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/pkg/ledger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream ledger persist events (redis backend)",
	Long: `Stream persist events for this workspace's ledger.

Every persist on the redis backend publishes the full ledger; watch
subscribes and prints one line per event. Useful when a workspace ledger
is shared between machines and you want to see amendments land.

The file backend has no event stream; watch requires backend: redis.

Examples:
  drey watch`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openRedisStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	sub := s.Events(ctx)
	defer sub.Close()

	printer.Info("Watching ledger events (Ctrl+C to stop)...\n")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			printer.Info("\nStopped watching\n")
			return nil

		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var l ledger.Ledger
			if err := json.Unmarshal([]byte(msg.Payload), &l); err != nil {
				printer.Warning("skipping malformed event: %v\n", err)
				continue
			}

			stamp := time.UnixMilli(l.UpdatedAtMs).Format(time.RFC3339)
			printer.Info("%s  rev=%s  goal=%q  decisions=%d  now=%d\n",
				stamp, shortRevision(l.Revision), l.Goal.Text, len(l.Decisions), len(l.State.Now))
		}
	}
}

// shortRevision truncates a revision UUID for single-line output.
func shortRevision(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}
