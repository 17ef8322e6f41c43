// Package session owns the process-wide authenticated-session state.
// The Manager is the single writer: it reacts to the backend's
// session-change events, resolves the identity to its role-tagged
// profile, and hands immutable snapshots to everything else.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/medico-health/portal-api/internal/profile"
	"github.com/medico-health/portal-api/internal/store"
)

// State is a snapshot of who is signed in and as what role.
//
// Loading is true from the moment a session-change event arrives
// until the corresponding profile lookup resolves. A present Identity
// with a nil Profile means the account has no stored profile.
type State struct {
	Identity *store.Identity
	Profile  *profile.UserProfile
	Loading  bool
}

type Manager struct {
	st store.SessionStore

	mu    sync.Mutex
	state State
	// gen increments on every session-change event. A profile fetch
	// carries the generation it started under and discards its result
	// if a later event superseded it (last-write-wins).
	gen uint64

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(State)
	order   []int

	unsubscribe func()
}

// NewManager subscribes to the store's session-change stream. The
// initial state is loading until the first event arrives or the
// caller marks bootstrap complete via a sign-out event.
func NewManager(st store.SessionStore) *Manager {
	m := &Manager{
		st:    st,
		state: State{Loading: true},
		subs:  make(map[int]func(State)),
	}
	m.unsubscribe = st.OnSessionChanged(m.onSessionChanged)
	return m
}

// Snapshot returns the current state. The contained pointers are
// never mutated after publication.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers a callback invoked after every state change.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.order = append(m.order, id)
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
		for i, v := range m.order {
			if v == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
}

// RefreshProfile re-reads the current identity's profile without
// waiting for a session-change event, typically after a
// profile-completing write. It is a silent no-op when no identity is
// present; a failed fetch keeps the prior profile.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.Lock()
	id := m.state.Identity
	gen := m.gen
	m.mu.Unlock()

	if id == nil {
		return nil
	}

	p, err := m.fetchProfile(ctx, *id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.gen != gen || m.state.Identity == nil || m.state.Identity.Key != id.Key {
		m.mu.Unlock()
		return nil
	}
	m.state.Profile = p
	m.state.Loading = false
	m.mu.Unlock()

	m.notify()
	return nil
}

// Logout asks the backend to end the session. State is cleared by the
// resulting session-change event, not here.
func (m *Manager) Logout(ctx context.Context) error {
	return m.st.SignOut(ctx)
}

// Close detaches the manager from the session-change stream.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *Manager) onSessionChanged(id *store.Identity) {
	m.mu.Lock()
	m.gen++
	gen := m.gen

	if id == nil {
		m.state = State{}
		m.mu.Unlock()
		m.notify()
		return
	}

	m.state = State{Identity: id, Loading: true}
	m.mu.Unlock()
	m.notify()

	p, err := m.fetchProfile(context.Background(), *id)
	if err != nil {
		slog.Error("profile lookup failed", "user", id.Key, "error", err)
		p = nil
	}

	m.mu.Lock()
	if m.gen != gen {
		// Superseded by a later session-change event.
		m.mu.Unlock()
		return
	}
	m.state.Profile = p
	m.state.Loading = false
	m.mu.Unlock()
	m.notify()
}

// fetchProfile resolves the identity's profile document. A missing
// document resolves to (nil, nil); a malformed one is logged and
// treated the same, per the read-time validation rule.
func (m *Manager) fetchProfile(ctx context.Context, id store.Identity) (*profile.UserProfile, error) {
	doc, err := m.st.GetDocument(ctx, store.UsersCollection, id.Key)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p, err := profile.FromDocument(doc)
	if err != nil {
		slog.Warn("rejecting stored profile", "user", id.Key, "error", err)
		return nil, nil
	}
	return p, nil
}

func (m *Manager) notify() {
	state := m.Snapshot()

	m.subMu.Lock()
	fns := make([]func(State), 0, len(m.order))
	for _, key := range m.order {
		if fn, ok := m.subs[key]; ok {
			fns = append(fns, fn)
		}
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
