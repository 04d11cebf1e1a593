// Package cli implements the medfichas command line: patient records,
// sync administration and the watch daemon.
package cli

import (
	"context"
	"time"

	"github.com/iudanet/medfichas/internal/client/auth"
	"github.com/iudanet/medfichas/internal/client/data"
	"github.com/iudanet/medfichas/internal/client/iocli"
	"github.com/iudanet/medfichas/internal/client/offline"
	clientsync "github.com/iudanet/medfichas/internal/client/sync"
	"github.com/iudanet/medfichas/internal/models"
)

// QueueStore часть локального хранилища для администрирования очереди
type QueueStore interface {
	ListEntries(ctx context.Context) ([]*models.QueueEntry, error)
	CountPending(ctx context.Context) (int, error)
	GetLastSyncTimestamp(ctx context.Context) (int64, error)
}

// Migrator управляет версией схемы локального хранилища
type Migrator interface {
	StoredVersion(ctx context.Context) (int, error)
	TargetVersion() int
	IsMigrationNeeded(ctx context.Context) (bool, error)
	Migrate(ctx context.Context) error
}

// Coordinator запускает синхронизацию и управляет очередью
type Coordinator interface {
	ManualSync(ctx context.Context) *clientsync.SyncResult
	Load(ctx context.Context) *clientsync.LoadResult
	FlushQueue(ctx context.Context) (int, error)
	Status() offline.Status
}

// Connectivity reports the current reachability of the server.
type Connectivity interface {
	IsOnline() bool
}

type Cli struct {
	io          iocli.IO
	dataService data.Service
	authService auth.Service
	coordinator Coordinator
	queue       QueueStore
	migrator    Migrator
	conn        Connectivity
	daemon      func(ctx context.Context) error
	now         func() time.Time
	serverURL   string
}

// Deps зависимости Cli
type Deps struct {
	IO          iocli.IO
	DataService data.Service
	AuthService auth.Service
	Coordinator Coordinator
	Queue       QueueStore
	Migrator    Migrator
	Conn        Connectivity
	Daemon      func(ctx context.Context) error
	ServerURL   string
}

func New(d Deps) *Cli {
	return &Cli{
		io:          d.IO,
		dataService: d.DataService,
		authService: d.AuthService,
		coordinator: d.Coordinator,
		queue:       d.Queue,
		migrator:    d.Migrator,
		conn:        d.Conn,
		daemon:      d.Daemon,
		serverURL:   d.ServerURL,
		now:         time.Now,
	}
}
