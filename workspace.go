package filterbox

import (
	"sync"
	"time"

	"github.com/eringen/filterbox/editor"
)

// Workspaces is the in-memory registry of editing sessions keyed by the
// workspace ID stored in the visitor's cookie. Sessions idle for longer than
// the TTL are released by a background sweep.
type Workspaces struct {
	mu      sync.RWMutex
	entries map[string]*workspaceEntry
	ttl     time.Duration
	opts    []editor.Option

	stop     chan struct{}
	stopOnce sync.Once
}

type workspaceEntry struct {
	session *editor.Session
	touched time.Time
}

// NewWorkspaces creates a registry and starts its sweeper. opts are applied
// to every session it opens.
func NewWorkspaces(ttl time.Duration, opts ...editor.Option) *Workspaces {
	w := &Workspaces{
		entries: make(map[string]*workspaceEntry),
		ttl:     ttl,
		opts:    opts,
		stop:    make(chan struct{}),
	}
	go w.sweepLoop()
	return w
}

func (w *Workspaces) sweepLoop() {
	interval := w.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.Sweep(time.Now())
		case <-w.stop:
			return
		}
	}
}

// Get returns the session for id and marks it as recently used.
func (w *Workspaces) Get(id string) (*editor.Session, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[id]
	if !ok {
		return nil, false
	}
	e.touched = time.Now()
	return e.session, true
}

// Open returns the session for id, creating one in the intake stage if needed.
func (w *Workspaces) Open(id string) *editor.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.entries[id]; ok {
		e.touched = time.Now()
		return e.session
	}
	e := &workspaceEntry{session: editor.NewSession(w.opts...), touched: time.Now()}
	w.entries[id] = e
	return e.session
}

// Drop releases and forgets the session for id.
func (w *Workspaces) Drop(id string) {
	w.mu.Lock()
	e, ok := w.entries[id]
	delete(w.entries, id)
	w.mu.Unlock()
	if ok {
		e.session.Release()
	}
}

// Sweep releases every session idle since before now minus the TTL and
// returns how many were removed.
func (w *Workspaces) Sweep(now time.Time) int {
	cutoff := now.Add(-w.ttl)
	var expired []*editor.Session

	w.mu.Lock()
	for id, e := range w.entries {
		if e.touched.Before(cutoff) {
			expired = append(expired, e.session)
			delete(w.entries, id)
		}
	}
	w.mu.Unlock()

	for _, s := range expired {
		s.Release()
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (w *Workspaces) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}

// Close stops the sweeper and releases every session.
func (w *Workspaces) Close() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.mu.Lock()
	entries := w.entries
	w.entries = make(map[string]*workspaceEntry)
	w.mu.Unlock()
	for _, e := range entries {
		e.session.Release()
	}
}
