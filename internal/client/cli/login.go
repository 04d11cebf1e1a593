package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token issued by the server",
		Long: `Store a bearer token issued by the server.

Tokens are minted on the server host with 'medfichas-server token --user <id>'.
Without --token the token is read from the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runLogin(cmd.Context(), token)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runLogout(cmd.Context())
		},
	}
}

func (c *Cli) runLogin(ctx context.Context, token string) error {
	c.io.Println("=== Login ===")

	if token == "" {
		var err error
		token, err = c.io.ReadPassword("Token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}

	session, err := c.authService.Login(ctx, c.serverURL, token)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.io.Println("✓ Login successful!")
	c.io.Printf("User:   %s\n", session.UserID)
	c.io.Printf("Server: %s\n", session.ServerURL)
	if session.ExpiresAt > 0 {
		c.io.Printf("Token expires: %s\n", time.Unix(session.ExpiresAt, 0).Format(time.RFC3339))
	}
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	if err := c.authService.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")
	return nil
}
