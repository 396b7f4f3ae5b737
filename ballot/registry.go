// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "sync"

// Registry holds the in-progress sessions keyed by voter id. It exists so
// concurrent voters each get their own explicit Session instead of a
// process-wide "current voter". The registry guards its own map; each
// Session guards its own state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Put stores a session, replacing any abandoned one for the same voter.
func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.VoterID()] = s
}

// Get returns the voter's session, or nil if none is open.
func (r *Registry) Get(voterID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[voterID]
}

// Discard drops a session after commit or abandonment. Nothing was
// persisted by the session itself, so no compensating action is needed.
func (r *Registry) Discard(voterID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, voterID)
}

// Len reports how many sessions are open.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
