// Package config loads medfichas settings from flags, MEDFICHAS_* environment
// variables and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "MEDFICHAS"

// Ключи конфигурации клиента
const (
	KeyServer         = "server"
	KeyDB             = "db"
	KeyToken          = "token"
	KeyOwner          = "owner"
	KeyOffline        = "offline"
	KeyProbeInterval  = "probe-interval"
	KeySyncInterval   = "sync-interval"
	KeyRequestTimeout = "request-timeout"
	KeyPassphrase     = "passphrase"
	KeyAskPassphrase  = "ask-passphrase"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyLogFile        = "log.file"
)

// Ключи конфигурации сервера
const (
	KeyAddr       = "addr"
	KeyJWTSecret  = "jwt-secret"
	KeyTokenTTL   = "token-ttl"
	KeyRateLimit  = "rate-limit"
	KeyRateWindow = "rate-window"
)

// Log настройки логирования
type Log struct {
	Level  string
	Format string
	File   string
}

// Client конфигурация CLI клиента
type Client struct {
	Log            Log
	Server         string
	DBPath         string
	Token          string
	Owner          string
	Passphrase     string
	ProbeInterval  time.Duration
	SyncInterval   time.Duration
	RequestTimeout time.Duration
	Offline        bool
	AskPassphrase  bool
}

// Server конфигурация сервера
type Server struct {
	Log        Log
	Addr       string
	DBPath     string
	JWTSecret  string
	TokenTTL   time.Duration
	RateWindow time.Duration
	RateLimit  int
}

// New creates a viper instance wired to MEDFICHAS_* environment variables.
// Dashes and dots in keys map to underscores: log.level -> MEDFICHAS_LOG_LEVEL.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// SetClientDefaults registers client defaults.
func SetClientDefaults(v *viper.Viper) {
	v.SetDefault(KeyServer, "http://localhost:8080")
	v.SetDefault(KeyDB, "medfichas.db")
	v.SetDefault(KeyOwner, "system")
	v.SetDefault(KeyOffline, false)
	v.SetDefault(KeyProbeInterval, 15*time.Second)
	v.SetDefault(KeySyncInterval, 5*time.Minute)
	v.SetDefault(KeyRequestTimeout, 30*time.Second)
	setLogDefaults(v)
}

// SetServerDefaults registers server defaults.
func SetServerDefaults(v *viper.Viper) {
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyDB, "medfichas-server.db")
	v.SetDefault(KeyTokenTTL, 24*time.Hour)
	v.SetDefault(KeyRateLimit, 100)
	v.SetDefault(KeyRateWindow, time.Minute)
	setLogDefaults(v)
}

func setLogDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
}

// ReadFile merges a YAML config file into v. Empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// LoadClient builds and validates the client configuration.
func LoadClient(v *viper.Viper) (*Client, error) {
	cfg := &Client{
		Server:         strings.TrimSuffix(v.GetString(KeyServer), "/"),
		DBPath:         v.GetString(KeyDB),
		Token:          v.GetString(KeyToken),
		Owner:          v.GetString(KeyOwner),
		Passphrase:     v.GetString(KeyPassphrase),
		AskPassphrase:  v.GetBool(KeyAskPassphrase),
		Offline:        v.GetBool(KeyOffline),
		ProbeInterval:  v.GetDuration(KeyProbeInterval),
		SyncInterval:   v.GetDuration(KeySyncInterval),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		Log:            loadLog(v),
	}

	var errs []error
	if _, err := url.ParseRequestURI(cfg.Server); err != nil {
		errs = append(errs, fmt.Errorf("invalid server url %q", cfg.Server))
	}
	if cfg.DBPath == "" {
		errs = append(errs, fmt.Errorf("db path cannot be empty"))
	}
	if cfg.ProbeInterval <= 0 {
		errs = append(errs, fmt.Errorf("probe-interval must be positive"))
	}
	if cfg.SyncInterval <= 0 {
		errs = append(errs, fmt.Errorf("sync-interval must be positive"))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request-timeout must be positive"))
	}
	if err := validateLog(cfg.Log); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadServer builds and validates the server configuration.
func LoadServer(v *viper.Viper) (*Server, error) {
	cfg := &Server{
		Addr:       v.GetString(KeyAddr),
		DBPath:     v.GetString(KeyDB),
		JWTSecret:  v.GetString(KeyJWTSecret),
		TokenTTL:   v.GetDuration(KeyTokenTTL),
		RateLimit:  v.GetInt(KeyRateLimit),
		RateWindow: v.GetDuration(KeyRateWindow),
		Log:        loadLog(v),
	}

	var errs []error
	if cfg.Addr == "" {
		errs = append(errs, fmt.Errorf("addr cannot be empty"))
	}
	if cfg.DBPath == "" {
		errs = append(errs, fmt.Errorf("db path cannot be empty"))
	}
	if len(cfg.JWTSecret) < 16 {
		errs = append(errs, fmt.Errorf("jwt-secret must be at least 16 characters"))
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token-ttl must be positive"))
	}
	if cfg.RateLimit <= 0 || cfg.RateWindow <= 0 {
		errs = append(errs, fmt.Errorf("rate-limit and rate-window must be positive"))
	}
	if err := validateLog(cfg.Log); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadLog(v *viper.Viper) Log {
	return Log{
		Level:  strings.ToLower(v.GetString(KeyLogLevel)),
		Format: strings.ToLower(v.GetString(KeyLogFormat)),
		File:   v.GetString(KeyLogFile),
	}
}

func validateLog(l Log) error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch l.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}
	return nil
}
