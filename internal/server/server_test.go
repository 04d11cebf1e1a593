package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/medfichas/internal/client/api"
	"github.com/iudanet/medfichas/internal/client/connectivity"
	"github.com/iudanet/medfichas/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/medfichas/internal/client/sync"
	"github.com/iudanet/medfichas/internal/models"
	"github.com/iudanet/medfichas/internal/server/jwt"
	"github.com/iudanet/medfichas/internal/server/storage/sqlite"
	pkgapi "github.com/iudanet/medfichas/pkg/api"
)

const testSecret = "test-secret-key-0123456789"

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	store *sqlite.Storage
	jwt   *jwt.Service
	url   string
}

// newTestEnv поднимает сервер на httptest с временной SQLite базой
func newTestEnv(t *testing.T, rateLimit int) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	jwtService := jwt.NewService(testSecret, time.Hour)
	srv := New(Options{
		Storage:    store,
		JWT:        jwtService,
		Logger:     setupTestLogger(),
		Version:    "test",
		RateLimit:  rateLimit,
		RateWindow: time.Minute,
	})
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{store: store, jwt: jwtService, url: ts.URL}
}

func (e *testEnv) client(t *testing.T, userID string) *api.Client {
	t.Helper()
	c := api.NewClient(e.url)
	if userID != "" {
		token, _, err := e.jwt.GenerateAccessToken(userID)
		require.NoError(t, err)
		c.SetAccessToken(token)
	}
	return c
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t, 100)

	health, err := env.client(t, "").Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test", health.Version)
}

func TestServer_RequiresToken(t *testing.T) {
	env := newTestEnv(t, 100)

	_, err := env.client(t, "").Select(context.Background(), models.CollectionPatients, pkgapi.OrderCreatedAtDesc)
	require.Error(t, err)

	var remoteErr *api.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusUnauthorized, remoteErr.StatusCode)
}

func TestServer_ClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 100)
	c := env.client(t, "system")

	stored, err := c.Upsert(ctx, models.CollectionPatients, models.Record{
		"id":         "p-1",
		"full_name":  "Ana Souza",
		"user_id":    "system",
		"created_at": "2024-01-15T09:30:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", stored.ID())

	rows, err := c.Select(ctx, models.CollectionPatients, pkgapi.OrderCreatedAtDesc)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana Souza", rows[0].String("full_name"))

	row, err := c.SelectByID(ctx, models.CollectionPatients, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "system", row.String("user_id"))

	require.NoError(t, c.Delete(ctx, models.CollectionPatients, "p-1"))
	require.NoError(t, c.Delete(ctx, models.CollectionPatients, "p-1"))

	_, err = c.SelectByID(ctx, models.CollectionPatients, "p-1")
	assert.True(t, api.IsNotFound(err))
}

func TestServer_ErrorKinds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 100)
	c := env.client(t, "system")

	_, err := c.Upsert(ctx, models.CollectionPatients, models.Record{"id": "p-1", "full_name": "Ana", "blood_type": "O+"})
	assert.Equal(t, api.ErrorKindSchemaMismatch, api.KindOf(err))

	_, err = c.Upsert(ctx, models.CollectionPatients, models.Record{"id": "p-1", "full_name": "Ana", "user_id": "clinic-7"})
	assert.Equal(t, api.ErrorKindAccessControl, api.KindOf(err))
}

func TestServer_RateLimit(t *testing.T) {
	env := newTestEnv(t, 2)
	c := env.client(t, "system")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.Select(ctx, models.CollectionPatients, "")
		require.NoError(t, err)
	}

	_, err := c.Select(ctx, models.CollectionPatients, "")
	var remoteErr *api.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusTooManyRequests, remoteErr.StatusCode)
}

// Очередь, накопленная без сети, воспроизводится против настоящего сервера
func TestServer_SyncEngineReplay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 100)

	local, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })

	keepID, err := local.SaveRecordWithSync(ctx, models.CollectionPatients, models.Record{
		"full_name":        "Ana Souza",
		"health_insurance": "Unimed",
		"blood_type":       "O+",
		"created_at":       "2024-01-15T09:30:00Z",
	}, models.OperationCreate)
	require.NoError(t, err)

	dropID, err := local.SaveRecordWithSync(ctx, models.CollectionPatients, models.Record{
		"full_name":  "Bruno Lima",
		"created_at": "2024-01-10T08:00:00Z",
	}, models.OperationCreate)
	require.NoError(t, err)
	require.NoError(t, local.DeleteRecordWithSync(ctx, models.CollectionPatients, dropID))

	engine := clientsync.NewService(env.client(t, "system"), local, connectivity.NewSwitch(true), models.SystemOwner, setupTestLogger())

	result := engine.SyncWithRemote(ctx)
	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 3, result.Purged)

	rows, err := env.store.ListPatients(ctx, "system", false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, keepID, rows[0]["id"])
	assert.Equal(t, "Ana Souza", rows[0]["full_name"])
	// повтор с безопасным набором колонок не передает страховку
	assert.Equal(t, "", rows[0]["health_insurance"])

	pending, err := local.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)

	loaded := engine.LoadFromRemote(ctx)
	require.True(t, loaded.Success, loaded.Error)
	assert.Equal(t, 1, loaded.Loaded)
}

func TestServer_SyncEngineAccessDenied(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 100)

	local, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })

	_, err = local.SaveRecordWithSync(ctx, models.CollectionPatients,
		models.Record{"full_name": "Ana Souza"}, models.OperationCreate)
	require.NoError(t, err)

	// токен выписан на другого владельца, политика отклоняет user_id=system
	engine := clientsync.NewService(env.client(t, "clinic-7"), local, connectivity.NewSwitch(true), models.SystemOwner, setupTestLogger())

	result := engine.SyncWithRemote(ctx)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "access-control-violation")

	pending, err := local.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestServer_ServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	srv := New(Options{
		Storage:    store,
		JWT:        jwt.NewService(testSecret, time.Hour),
		Logger:     setupTestLogger(),
		RateLimit:  100,
		RateWindow: time.Minute,
	})
	defer srv.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + pkgapi.HealthPath)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
