package connectivity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/medfichas/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder запоминает вызовы callback-ов подписчика
type recorder struct {
	events []string
	mu     sync.Mutex
}

func (r *recorder) online()  { r.add("online") }
func (r *recorder) offline() { r.add("offline") }

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestMonitor_IsOnline(t *testing.T) {
	sw := NewSwitch(true)
	m := NewMonitor(sw, setupTestLogger())
	defer m.Close()

	assert.True(t, m.IsOnline())
	sw.Set(false)
	assert.False(t, m.IsOnline())
}

func TestMonitor_SubscribeInvokesInitialState(t *testing.T) {
	tests := []struct {
		name     string
		expected []string
		online   bool
	}{
		{name: "online", online: true, expected: []string{"online"}},
		{name: "offline", online: false, expected: []string{"offline"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(NewSwitch(tt.online), setupTestLogger())
			defer m.Close()

			rec := &recorder{}
			m.Subscribe(rec.online, rec.offline)
			assert.Equal(t, tt.expected, rec.get())
		})
	}
}

func TestMonitor_Transitions(t *testing.T) {
	sw := NewSwitch(false)
	m := NewMonitor(sw, setupTestLogger())
	defer m.Close()

	rec := &recorder{}
	m.Subscribe(rec.online, rec.offline)

	sw.Set(true)
	sw.Set(true) // без перехода - без уведомления
	sw.Set(false)

	assert.Equal(t, []string{"offline", "online", "offline"}, rec.get())
}

func TestMonitor_Unsubscribe(t *testing.T) {
	sw := NewSwitch(true)
	m := NewMonitor(sw, setupTestLogger())
	defer m.Close()

	first, second := &recorder{}, &recorder{}
	sub := m.Subscribe(first.online, first.offline)
	m.Subscribe(second.online, second.offline)

	m.Unsubscribe(sub)
	m.Unsubscribe(sub) // повторная отписка игнорируется
	sw.Set(false)

	assert.Equal(t, []string{"online"}, first.get())
	assert.Equal(t, []string{"online", "offline"}, second.get())
}

func TestMonitor_NilCallbacks(t *testing.T) {
	sw := NewSwitch(true)
	m := NewMonitor(sw, setupTestLogger())
	defer m.Close()

	var calls atomic.Int32
	m.Subscribe(nil, func() { calls.Add(1) })

	assert.NotPanics(t, func() { sw.Set(false) })
	assert.NotPanics(t, func() { sw.Set(true) })
	assert.Equal(t, int32(1), calls.Load())
}

func TestMonitor_Close(t *testing.T) {
	sw := NewSwitch(true)
	m := NewMonitor(sw, setupTestLogger())

	rec := &recorder{}
	m.Subscribe(rec.online, rec.offline)
	m.Close()
	m.Close()

	sw.Set(false)
	assert.Equal(t, []string{"online"}, rec.get())
}

func TestMonitor_UnsubscribeFromCallback(t *testing.T) {
	sw := NewSwitch(true)
	m := NewMonitor(sw, setupTestLogger())
	defer m.Close()

	var sub Subscription
	var calls atomic.Int32
	sub = m.Subscribe(nil, func() {
		calls.Add(1)
		m.Unsubscribe(sub)
	})

	sw.Set(false)
	sw.Set(true)
	sw.Set(false)
	assert.Equal(t, int32(1), calls.Load())
}

// fakeChecker управляемый health endpoint
type fakeChecker struct {
	err   atomic.Value
	calls atomic.Int32
}

func (f *fakeChecker) setErr(err error) {
	f.err.Store(&err)
}

func (f *fakeChecker) Health(ctx context.Context) (*api.HealthResponse, error) {
	f.calls.Add(1)
	if v := f.err.Load(); v != nil {
		if err := *v.(*error); err != nil {
			return nil, err
		}
	}
	return &api.HealthResponse{Status: "ok"}, nil
}

func TestHealthProbe_Check(t *testing.T) {
	checker := &fakeChecker{}
	probe := NewHealthProbe(checker, time.Hour, time.Second, setupTestLogger())

	// Изначально считаем, что сеть есть
	assert.True(t, probe.Online())

	var transitions []bool
	stop := probe.Watch(func(online bool) { transitions = append(transitions, online) })
	defer stop()

	assert.True(t, probe.Check(context.Background()))
	checker.setErr(errors.New("connection refused"))
	assert.False(t, probe.Check(context.Background()))
	assert.False(t, probe.Check(context.Background()))
	checker.setErr(nil)
	assert.True(t, probe.Check(context.Background()))

	assert.Equal(t, []bool{false, true}, transitions)
	assert.Equal(t, int32(4), checker.calls.Load())
}

func TestHealthProbe_Defaults(t *testing.T) {
	probe := NewHealthProbe(&fakeChecker{}, 0, 0, setupTestLogger())
	assert.Equal(t, DefaultProbeInterval, probe.interval)
	assert.Equal(t, DefaultProbeTimeout, probe.timeout)
}

func TestHealthProbe_RunDrivesMonitor(t *testing.T) {
	checker := &fakeChecker{}
	checker.setErr(errors.New("down"))
	probe := NewHealthProbe(checker, 10*time.Millisecond, time.Second, setupTestLogger())
	m := NewMonitor(probe, setupTestLogger())
	defer m.Close()

	var onlineCalls, offlineCalls atomic.Int32
	m.Subscribe(func() { onlineCalls.Add(1) }, func() { offlineCalls.Add(1) })
	require.Equal(t, int32(1), onlineCalls.Load())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- probe.Run(ctx) }()

	require.Eventually(t, func() bool { return offlineCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, m.IsOnline())

	checker.setErr(nil)
	require.Eventually(t, func() bool { return onlineCalls.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, m.IsOnline())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("probe did not stop")
	}
}
