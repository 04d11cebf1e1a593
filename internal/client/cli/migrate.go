package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade the local store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runMigrate(cmd.Context())
		},
	}
}

func (c *Cli) runMigrate(ctx context.Context) error {
	needed, err := c.migrator.IsMigrationNeeded(ctx)
	if err != nil {
		return fmt.Errorf("failed to check schema version: %w", err)
	}
	if !needed {
		c.io.Printf("Local store is up to date (schema version %d)\n", c.migrator.TargetVersion())
		return nil
	}

	if err := c.migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	c.io.Printf("✓ Local store migrated to schema version %d\n", c.migrator.TargetVersion())
	return nil
}
