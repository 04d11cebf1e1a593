// Package connectivity tracks online/offline transitions of the backend.
//
// The Monitor keeps no state of its own: IsOnline asks the wrapped Signal and
// transitions are forwarded to subscribers as received, with no retries or debouncing.
// Reacting to a transition (for example starting a sync) is the subscriber's job.
package connectivity

import (
	"log/slog"
	"sync"
)

// Subscription identifies a registered pair of callbacks.
type Subscription uint64

type subscriber struct {
	onOnline  func()
	onOffline func()
}

// Monitor exposes the reachability state and change notifications.
type Monitor struct {
	signal    Signal
	logger    *slog.Logger
	subs      map[Subscription]subscriber
	stopWatch func()
	mu        sync.Mutex
	next      Subscription
}

// NewMonitor creates a monitor over the given signal.
func NewMonitor(signal Signal, logger *slog.Logger) *Monitor {
	m := &Monitor{
		signal: signal,
		logger: logger,
		subs:   make(map[Subscription]subscriber),
	}
	m.stopWatch = signal.Watch(m.dispatch)
	return m
}

// IsOnline reports the current reachability.
func (m *Monitor) IsOnline() bool {
	return m.signal.Online()
}

// Subscribe registers both callbacks and immediately invokes the one matching
// the current state, so a subscriber never misses the initial state.
// Either callback may be nil.
func (m *Monitor) Subscribe(onOnline, onOffline func()) Subscription {
	m.mu.Lock()
	m.next++
	sub := m.next
	m.subs[sub] = subscriber{onOnline: onOnline, onOffline: onOffline}
	m.mu.Unlock()

	invoke(subscriber{onOnline: onOnline, onOffline: onOffline}, m.signal.Online())
	return sub
}

// Unsubscribe removes the callbacks registered under sub. Unknown subscriptions are ignored.
func (m *Monitor) Unsubscribe(sub Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, sub)
}

// Close detaches the monitor from its signal.
func (m *Monitor) Close() {
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
}

func (m *Monitor) dispatch(online bool) {
	m.mu.Lock()
	subs := make([]subscriber, 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	m.logger.Debug("dispatching connectivity transition", "online", online, "subscribers", len(subs))

	for _, s := range subs {
		invoke(s, online)
	}
}

func invoke(s subscriber, online bool) {
	if online {
		if s.onOnline != nil {
			s.onOnline()
		}
		return
	}
	if s.onOffline != nil {
		s.onOffline()
	}
}
