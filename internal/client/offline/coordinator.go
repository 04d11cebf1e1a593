// Package offline owns the process-wide connectivity state and reacts to it:
// reconnecting triggers a sync, a periodic sync runs while online and the
// Local Store is filled from the remote at start.
package offline

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/iudanet/medfichas/internal/client/connectivity"
	clientsync "github.com/iudanet/medfichas/internal/client/sync"
)

// DefaultSyncInterval период фоновой синхронизации
const DefaultSyncInterval = 5 * time.Minute

// Monitor is the part of the Connectivity Monitor the coordinator uses.
type Monitor interface {
	IsOnline() bool
	Subscribe(onOnline, onOffline func()) connectivity.Subscription
	Unsubscribe(sub connectivity.Subscription)
}

// Store is the part of the Local Store the coordinator uses.
type Store interface {
	PurgeAll(ctx context.Context) (int, error)
	GetLastSyncTimestamp(ctx context.Context) (int64, error)
}

// Status is the observable state shown to the user.
type Status struct {
	LastSyncTime time.Time // LastSyncTime время последней успешной синхронизации
	Errors       []string  // Errors ошибки последней попытки
	Online       bool      // Online текущее состояние сети
	Syncing      bool      // Syncing идет синхронизация
}

// Coordinator wires connectivity transitions to the Sync Engine.
type Coordinator struct {
	syncer   clientsync.Service
	monitor  Monitor
	store    Store
	logger   *slog.Logger
	now      func() time.Time
	wake     chan struct{}
	status   Status
	interval time.Duration
	running  int // проходы runSync в процессе
	mu       sync.RWMutex
}

// NewCoordinator creates a coordinator. Status starts optimistically online.
func NewCoordinator(syncer clientsync.Service, monitor Monitor, store Store, interval time.Duration, logger *slog.Logger) *Coordinator {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Coordinator{
		syncer:   syncer,
		monitor:  monitor,
		store:    store,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		wake:     make(chan struct{}, 1),
		status:   Status{Online: true},
	}
}

// Status returns a snapshot of the current state.
func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := c.status
	st.Errors = slices.Clone(c.status.Errors)
	return st
}

// Run subscribes to connectivity changes and serves sync triggers until ctx is done.
// When online at start, pending changes are pushed first and the Local Store is then
// filled from the remote.
func (c *Coordinator) Run(ctx context.Context) error {
	c.restoreLastSync(ctx)

	sub := c.monitor.Subscribe(
		func() {
			c.setOnline(true)
			c.trigger()
		},
		func() { c.setOnline(false) },
	)
	// Начальный вызов callback уже покрыт проверкой ниже
	select {
	case <-c.wake:
	default:
	}
	defer c.monitor.Unsubscribe(sub)

	if c.monitor.IsOnline() {
		c.runSync(ctx)
		c.Load(ctx)
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Offline coordinator stopped")
			return nil
		case <-c.wake:
			c.logger.Info("Connection restored, syncing pending changes")
			c.runSync(ctx)
		case <-ticker.C:
			if c.monitor.IsOnline() {
				c.runSync(ctx)
			}
		}
	}
}

// ManualSync runs a sync pass right away.
func (c *Coordinator) ManualSync(ctx context.Context) *clientsync.SyncResult {
	return c.runSync(ctx)
}

// Load fills the Local Store from the remote.
func (c *Coordinator) Load(ctx context.Context) *clientsync.LoadResult {
	result := c.syncer.LoadFromRemote(ctx)
	if !result.Success {
		c.logger.Warn("Initial load failed", "error", result.Error)
		return result
	}
	c.logger.Info("Loaded patients from remote", "count", result.Loaded)
	return result
}

// FlushQueue discards every queue entry, synced or not.
func (c *Coordinator) FlushQueue(ctx context.Context) (int, error) {
	n, err := c.store.PurgeAll(ctx)
	if err != nil {
		return 0, err
	}
	c.logger.Warn("Sync queue flushed", "removed", n)
	return n, nil
}

func (c *Coordinator) runSync(ctx context.Context) *clientsync.SyncResult {
	c.mu.Lock()
	c.running++
	c.status.Syncing = true
	prevErrors := c.status.Errors
	c.status.Errors = nil
	c.mu.Unlock()

	result := c.syncer.SyncWithRemote(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.running--
	c.status.Syncing = c.running > 0
	if result.Skipped {
		// Проход не выполнялся: индикатор показывает ошибки предыдущей попытки
		if c.status.Errors == nil {
			c.status.Errors = prevErrors
		}
		return result
	}
	c.status.Errors = slices.Clone(result.Errors)
	if result.Success {
		c.status.LastSyncTime = c.now()
	} else {
		c.logger.Warn("Sync finished with errors", "failed", result.Failed, "errors", len(result.Errors))
	}
	return result
}

func (c *Coordinator) setOnline(online bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.Online = online
}

// trigger не блокируется: повторные сигналы до обработки схлопываются в один
func (c *Coordinator) trigger() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Coordinator) restoreLastSync(ctx context.Context) {
	ts, err := c.store.GetLastSyncTimestamp(ctx)
	if err != nil {
		c.logger.Warn("Failed to read last sync timestamp", "error", err)
		return
	}
	if ts == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.LastSyncTime = time.UnixMilli(ts)
}
