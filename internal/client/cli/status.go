package cli

import (
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/medfichas/internal/client/auth"
)

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connectivity, session and sync queue state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runStatus(cmd.Context())
		},
	}
}

type statusView struct {
	LastSync      time.Time
	Server        string
	Session       string
	SchemaVersion int
	TargetVersion int
	Pending       int
	Online        bool
}

func (c *Cli) runStatus(ctx context.Context) error {
	view := statusView{
		Online:        c.conn.IsOnline(),
		Server:        c.serverURL,
		TargetVersion: c.migrator.TargetVersion(),
	}

	session, err := c.authService.Session(ctx)
	switch {
	case err == nil:
		view.Session = "logged in as " + session.UserID
		if session.ExpiresAt > 0 {
			view.Session += ", expires " + time.Unix(session.ExpiresAt, 0).Format(time.RFC3339)
		}
	case errors.Is(err, auth.ErrNotLoggedIn):
		view.Session = "not logged in"
	case errors.Is(err, auth.ErrSessionExpired):
		view.Session = "expired, run 'medfichas login' again"
	default:
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	if view.SchemaVersion, err = c.migrator.StoredVersion(ctx); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if view.Pending, err = c.queue.CountPending(ctx); err != nil {
		return fmt.Errorf("failed to count pending entries: %w", err)
	}

	ts, err := c.queue.GetLastSyncTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("failed to read last sync time: %w", err)
	}
	if ts > 0 {
		view.LastSync = time.UnixMilli(ts).UTC()
	}

	tmpl, err := template.New("status").Parse(statusTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	if err := tmpl.Execute(c.io, view); err != nil {
		return err
	}

	if view.Pending > 0 {
		c.io.Println()
		c.io.Println("Run 'medfichas sync' to send pending changes.")
	}
	return nil
}
