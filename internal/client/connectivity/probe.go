package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/medfichas/pkg/api"
)

// Значения по умолчанию для HealthProbe
const (
	DefaultProbeInterval = 15 * time.Second
	DefaultProbeTimeout  = 5 * time.Second
)

// HealthChecker is the backend health endpoint the probe polls.
type HealthChecker interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// HealthProbe is a Signal that derives reachability from the backend health endpoint.
// It starts optimistically online and changes state only on an observed probe result.
type HealthProbe struct {
	checker  HealthChecker
	logger   *slog.Logger
	watchers watchers
	interval time.Duration
	timeout  time.Duration
	mu       sync.RWMutex
	online   bool
}

// NewHealthProbe creates a probe. Zero interval or timeout fall back to the defaults.
func NewHealthProbe(checker HealthChecker, interval, timeout time.Duration, logger *slog.Logger) *HealthProbe {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HealthProbe{
		checker:  checker,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
		online:   true,
	}
}

// Online implements Signal.
func (p *HealthProbe) Online() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.online
}

// Watch implements Signal.
func (p *HealthProbe) Watch(fn func(online bool)) func() {
	return p.watchers.add(fn)
}

// Check probes the backend once, updates the state and returns it.
func (p *HealthProbe) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	online := true
	if _, err := p.checker.Health(ctx); err != nil {
		online = false
		p.logger.Debug("health probe failed", "error", err)
	}

	p.mu.Lock()
	changed := p.online != online
	p.online = online
	p.mu.Unlock()

	if changed {
		p.logger.Info("connectivity changed", "online", online)
		p.watchers.notify(online)
	}

	return online
}

// Run probes immediately and then on every interval until ctx is done.
func (p *HealthProbe) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Check(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
