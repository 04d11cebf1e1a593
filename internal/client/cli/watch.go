package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stay in the foreground and sync whenever the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runWatch(cmd.Context())
		},
	}
}

func (c *Cli) runWatch(ctx context.Context) error {
	if c.daemon == nil {
		return fmt.Errorf("watch is not available")
	}

	c.io.Println("Watching connectivity, press Ctrl+C to stop.")
	if err := c.daemon(ctx); err != nil {
		return err
	}

	st := c.coordinator.Status()
	if !st.LastSyncTime.IsZero() {
		c.io.Printf("Last sync: %s\n", st.LastSyncTime.Format("2006-01-02 15:04:05"))
	}
	return nil
}
