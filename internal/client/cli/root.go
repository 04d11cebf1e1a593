package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/medfichas/internal/client/api"
	"github.com/iudanet/medfichas/internal/client/auth"
	"github.com/iudanet/medfichas/internal/client/connectivity"
	"github.com/iudanet/medfichas/internal/client/data"
	"github.com/iudanet/medfichas/internal/client/iocli"
	"github.com/iudanet/medfichas/internal/client/migrate"
	"github.com/iudanet/medfichas/internal/client/offline"
	"github.com/iudanet/medfichas/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/medfichas/internal/client/sync"
	"github.com/iudanet/medfichas/internal/config"
	"github.com/iudanet/medfichas/internal/logger"
)

// app собирает зависимости команд после разбора флагов
type app struct {
	v          *viper.Viper
	cli        *Cli
	store      *boltdb.Storage
	monitor    *connectivity.Monitor
	logCloser  io.Closer
	configFile string
}

// флаги, которые связываются с ключами конфигурации
var flagKeys = map[string]string{
	"server":          config.KeyServer,
	"db":              config.KeyDB,
	"token":           config.KeyToken,
	"owner":           config.KeyOwner,
	"offline":         config.KeyOffline,
	"passphrase":      config.KeyPassphrase,
	"ask-passphrase":  config.KeyAskPassphrase,
	"probe-interval":  config.KeyProbeInterval,
	"sync-interval":   config.KeySyncInterval,
	"request-timeout": config.KeyRequestTimeout,
	"log-level":       config.KeyLogLevel,
	"log-format":      config.KeyLogFormat,
	"log-file":        config.KeyLogFile,
}

// Execute runs the medfichas command line and releases the local store afterwards.
func Execute(ctx context.Context, version string, args []string, in io.Reader, out, errOut io.Writer) error {
	cmd, a := newRootCommand(version)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func newRootCommand(version string) (*cobra.Command, *app) {
	a := &app{v: config.New()}
	config.SetClientDefaults(a.v)

	cmd := &cobra.Command{
		Use:           "medfichas",
		Short:         "Offline-first patient records",
		Long:          "medfichas keeps patient records usable without a connection and syncs them when the server is reachable.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipOpen(cmd) {
				return nil
			}
			return a.open(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.configFile, "config", "", "path to a YAML config file")
	f.String("server", "http://localhost:8080", "server URL")
	f.String("db", "medfichas.db", "path to the local store")
	f.String("token", "", "bearer token (overrides the stored session)")
	f.String("owner", "system", "ownership tag written to remote rows")
	f.Bool("offline", false, "never contact the server")
	f.String("passphrase", "", "encrypt the local store with this passphrase")
	f.Bool("ask-passphrase", false, "read the local store passphrase from the terminal")
	f.Duration("probe-interval", connectivity.DefaultProbeInterval, "server health check interval")
	f.Duration("sync-interval", offline.DefaultSyncInterval, "periodic sync interval for watch")
	f.Duration("request-timeout", api.DefaultTimeout, "HTTP request timeout")
	f.String("log-level", "info", "log level (debug|info|warn|error)")
	f.String("log-format", "text", "log format (text|json)")
	f.String("log-file", "", "write logs to a rotated file")

	for name, key := range flagKeys {
		// Флаг объявлен выше, ошибка невозможна
		_ = a.v.BindPFlag(key, f.Lookup(name))
	}

	cmd.AddCommand(
		newPatientCommand(a),
		newSyncCommand(a),
		newLoadCommand(a),
		newQueueCommand(a),
		newStatusCommand(a),
		newMigrateCommand(a),
		newWatchCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
	)

	return cmd, a
}

// skipOpen отмечает служебные команды, которым не нужно локальное хранилище
func skipOpen(cmd *cobra.Command) bool {
	if cmd.Name() == "help" {
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "completion"
}

func (a *app) open(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := config.ReadFile(a.v, a.configFile); err != nil {
		return err
	}
	cfg, err := config.LoadClient(a.v)
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
	a.logCloser = closer

	stdio := iocli.NewStdioWith(cmd.InOrStdin(), cmd.OutOrStdout())

	passphrase := cfg.Passphrase
	if passphrase == "" && cfg.AskPassphrase {
		if passphrase, err = stdio.ReadPassword("Local store passphrase: "); err != nil {
			return fmt.Errorf("failed to read passphrase: %w", err)
		}
	}

	var opts []boltdb.Option
	if passphrase != "" {
		opts = append(opts, boltdb.WithPassphrase(passphrase))
	}
	store, err := boltdb.New(ctx, cfg.DBPath, opts...)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	a.store = store

	authService := auth.NewService(store, log)

	apiClient := api.NewClient(cfg.Server)
	apiClient.SetTimeout(cfg.RequestTimeout)
	if token := cfg.Token; token != "" {
		apiClient.SetAccessToken(token)
	} else if session, err := authService.Session(ctx); err == nil {
		apiClient.SetAccessToken(session.AccessToken)
	} else if !errors.Is(err, auth.ErrNotLoggedIn) {
		log.Warn("Stored session is not usable", "error", err)
	}

	var (
		signal connectivity.Signal
		probe  *connectivity.HealthProbe
	)
	if cfg.Offline {
		signal = connectivity.NewSwitch(false)
	} else {
		probe = connectivity.NewHealthProbe(apiClient, cfg.ProbeInterval, connectivity.DefaultProbeTimeout, log)
		probe.Check(ctx)
		signal = probe
	}
	a.monitor = connectivity.NewMonitor(signal, log)

	syncService := clientsync.NewService(apiClient, store, a.monitor, cfg.Owner, log)
	migrator := migrate.NewMigrator(store, syncService, a.monitor, cfg.Owner, log)
	if cmd.Name() != "migrate" {
		migrator.RunIfNeeded(ctx)
	}

	dataService := data.NewService(apiClient, store, a.monitor, cfg.Owner, log)
	coordinator := offline.NewCoordinator(syncService, a.monitor, store, cfg.SyncInterval, log)

	a.cli = New(Deps{
		IO:          stdio,
		DataService: dataService,
		AuthService: authService,
		Coordinator: coordinator,
		Queue:       store,
		Migrator:    migrator,
		Conn:        a.monitor,
		ServerURL:   cfg.Server,
		Daemon:      daemon(probe, coordinator, log),
	})
	return nil
}

// daemon запускает проверку соединения и координатор до отмены контекста
func daemon(probe *connectivity.HealthProbe, coordinator *offline.Coordinator, log *slog.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		if probe != nil {
			g.Go(func() error { return probe.Run(ctx) })
		}
		g.Go(func() error { return coordinator.Run(ctx) })

		err := g.Wait()
		log.Info("Watch stopped")
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

func (a *app) close() error {
	var errs []error
	if a.monitor != nil {
		a.monitor.Close()
		a.monitor = nil
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close local store: %w", err))
		}
		a.store = nil
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, err)
		}
		a.logCloser = nil
	}
	return errors.Join(errs...)
}
