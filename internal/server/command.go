package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/medfichas/internal/config"
	"github.com/iudanet/medfichas/internal/logger"
	"github.com/iudanet/medfichas/internal/server/jwt"
	"github.com/iudanet/medfichas/internal/server/storage/sqlite"
	"github.com/iudanet/medfichas/internal/validation"
	"github.com/iudanet/medfichas/pkg/api"
)

var serverFlagKeys = map[string]string{
	"addr":        config.KeyAddr,
	"db":          config.KeyDB,
	"jwt-secret":  config.KeyJWTSecret,
	"token-ttl":   config.KeyTokenTTL,
	"rate-limit":  config.KeyRateLimit,
	"rate-window": config.KeyRateWindow,
	"log-level":   config.KeyLogLevel,
	"log-format":  config.KeyLogFormat,
	"log-file":    config.KeyLogFile,
}

// Execute runs the medfichas-server command line.
func Execute(ctx context.Context, version string, args []string, out, errOut io.Writer) error {
	cmd := newRootCommand(version)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	v := config.New()
	config.SetServerDefaults(v)

	var configFile string
	cmd := &cobra.Command{
		Use:           "medfichas-server",
		Short:         "Remote system of record for medfichas clients",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&configFile, "config", "", "path to a YAML config file")
	f.String("addr", ":8080", "listen address")
	f.String("db", "medfichas-server.db", "path to the SQLite database")
	f.String("jwt-secret", "", "HMAC secret for bearer tokens (at least 16 characters)")
	f.Duration("token-ttl", 24*time.Hour, "lifetime of issued tokens")
	f.Int("rate-limit", 100, "requests per client address per window")
	f.Duration("rate-window", time.Minute, "rate limit window")
	f.String("log-level", "info", "log level (debug|info|warn|error)")
	f.String("log-format", "text", "log format (text|json)")
	f.String("log-file", "", "write logs to a rotated file")

	for name, key := range serverFlagKeys {
		// Флаг объявлен выше, ошибка невозможна
		_ = v.BindPFlag(key, f.Lookup(name))
	}

	load := func() (*config.Server, error) {
		if err := config.ReadFile(v, configFile); err != nil {
			return nil, err
		}
		return config.LoadServer(v)
	}

	cmd.AddCommand(newServeCommand(version, load), newTokenCommand(load))
	return cmd
}

func newServeCommand(version string, load func() (*config.Server, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the patients API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := load()
			if err != nil {
				return err
			}

			log, closer, err := logger.New(logger.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				File:   cfg.Log.File,
			}, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closer.Close()) }()

			return serve(cmd.Context(), cfg, version, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Server, version string, log *slog.Logger) error {
	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	srv := New(Options{
		Storage:    store,
		JWT:        jwt.NewService(cfg.JWTSecret, cfg.TokenTTL),
		Logger:     log,
		Version:    version,
		RateLimit:  cfg.RateLimit,
		RateWindow: cfg.RateWindow,
	})
	defer srv.Close()

	log.Info("Starting medfichas-server", "version", version, "db", cfg.DBPath)
	return srv.ListenAndServe(ctx, cfg.Addr)
}

func newTokenCommand(load func() (*config.Server, error)) *cobra.Command {
	var (
		userID string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a client",
		Long: `Mint a bearer token for a client.

The user id becomes the ownership tag of every row the client writes.
Clients store it with 'medfichas login --token <token>'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateOwner(userID); err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			cfg, err := load()
			if err != nil {
				return err
			}

			token, expiresIn, err := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL).GenerateAccessToken(userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(api.TokenResponse{AccessToken: token, UserID: userID, ExpiresIn: expiresIn})
			}
			_, err = fmt.Fprintln(out, token)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "owner id embedded in the token")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the token response as JSON")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
