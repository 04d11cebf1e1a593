package connectivity

import "sync"

// Signal is the platform reachability source the Monitor wraps.
type Signal interface {
	// Online reports the current reachability as last observed by the platform.
	Online() bool

	// Watch registers fn to be called on every reported transition.
	// The returned function removes the registration.
	Watch(fn func(online bool)) (stop func())
}

// watchers рассылает переходы зарегистрированным наблюдателям
type watchers struct {
	fns  map[int]func(bool)
	mu   sync.Mutex
	next int
}

func (w *watchers) add(fn func(bool)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fns == nil {
		w.fns = make(map[int]func(bool))
	}
	id := w.next
	w.next++
	w.fns[id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.fns, id)
	}
}

// notify вызывает наблюдателей вне блокировки, чтобы они могли отписываться из callback
func (w *watchers) notify(online bool) {
	w.mu.Lock()
	fns := make([]func(bool), 0, len(w.fns))
	for _, fn := range w.fns {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(online)
	}
}

// Switch is a manually driven Signal. Used for --offline mode and in tests.
type Switch struct {
	watchers watchers
	mu       sync.RWMutex
	online   bool
}

// NewSwitch creates a Switch in the given state.
func NewSwitch(online bool) *Switch {
	return &Switch{online: online}
}

// Online implements Signal.
func (s *Switch) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

// IsOnline lets a Switch stand in where only the current state is needed.
func (s *Switch) IsOnline() bool {
	return s.Online()
}

// Watch implements Signal.
func (s *Switch) Watch(fn func(online bool)) func() {
	return s.watchers.add(fn)
}

// Set changes the state and reports the transition. Setting the current state is a no-op.
func (s *Switch) Set(online bool) {
	s.mu.Lock()
	if s.online == online {
		s.mu.Unlock()
		return
	}
	s.online = online
	s.mu.Unlock()

	s.watchers.notify(online)
}
