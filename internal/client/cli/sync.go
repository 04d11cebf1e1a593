package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/medfichas/internal/models"
)

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay queued changes against the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runSync(cmd.Context())
		},
	}
}

func newLoadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Refresh the local store from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runLoad(cmd.Context())
		},
	}
}

func newQueueCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect or flush the sync queue",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show queue entries in replay order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runQueueList(cmd.Context())
		},
	})

	var yes bool
	flush := &cobra.Command{
		Use:   "flush",
		Short: "Discard every queued change (unsent changes are lost)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runQueueFlush(cmd.Context(), yes)
		},
	}
	flush.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.AddCommand(flush)

	return cmd
}

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	result := c.coordinator.ManualSync(ctx)

	if result.Skipped {
		c.io.Println("Another synchronization is already running.")
		return nil
	}

	c.io.Printf("Synced:  %d entries\n", result.Synced)
	if result.Failed > 0 {
		c.io.Printf("Failed:  %d entries\n", result.Failed)
	}
	c.io.Printf("Purged:  %d entries\n", result.Purged)

	if !result.Success {
		c.io.Println()
		for _, e := range result.Errors {
			c.io.Printf("  - %s\n", e)
		}
		return fmt.Errorf("synchronization finished with %d error(s)", len(result.Errors))
	}

	c.io.Println()
	c.io.Println("✓ Synchronization completed successfully!")
	return nil
}

func (c *Cli) runLoad(ctx context.Context) error {
	result := c.coordinator.Load(ctx)
	if !result.Success {
		return fmt.Errorf("load failed: %s", result.Error)
	}

	c.io.Printf("✓ Loaded %d patient(s) from the server\n", result.Loaded)
	return nil
}

func (c *Cli) runQueueList(ctx context.Context) error {
	entries, err := c.queue.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list queue: %w", err)
	}

	if len(entries) == 0 {
		c.io.Println("Sync queue is empty.")
		return nil
	}

	c.io.Printf("%d entry(ies) in the sync queue:\n\n", len(entries))
	for _, e := range entries {
		state := "pending"
		if e.Synced {
			state = "synced"
		}
		c.io.Printf("%4d  %-7s %-8s %s  %s  %s\n",
			e.Seq, state, e.Operation, e.TableName, e.TargetID(),
			time.UnixMilli(e.Timestamp).Format(time.RFC3339))
		if e.Operation != models.OperationDelete {
			if name := e.Data.String(models.FieldFullName); name != "" {
				c.io.Printf("      %s\n", name)
			}
		}
	}
	return nil
}

func (c *Cli) runQueueFlush(ctx context.Context, yes bool) error {
	pending, err := c.queue.CountPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending entries: %w", err)
	}

	if pending > 0 && !yes {
		ok, err := c.io.Confirm(fmt.Sprintf("%d unsent change(s) will be lost. Continue?", pending))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			c.io.Println("Cancelled.")
			return nil
		}
	}

	n, err := c.coordinator.FlushQueue(ctx)
	if err != nil {
		return fmt.Errorf("failed to flush queue: %w", err)
	}

	c.io.Printf("✓ Removed %d entry(ies) from the sync queue\n", n)
	return nil
}
