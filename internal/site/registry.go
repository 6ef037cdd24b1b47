package site

import (
	"context"
	"sync"
	"time"
)

// Registry keeps the visitor sessions keyed by visitor id.
type Registry struct {
	application *Application
	mutex       sync.Mutex
	sessions    map[string]*Session
}

// NewRegistry constructs an empty Registry.
func NewRegistry(application *Application) *Registry {
	return &Registry{application: application, sessions: make(map[string]*Session)}
}

// Obtain returns the visitor's session, starting a new one when needed. A session whose start failed is
// returned but not kept, so the next request tries again.
func (registry *Registry) Obtain(ctx context.Context, visitorID string) *Session {
	if session, found := registry.Get(visitorID); found {
		return session
	}
	session := registry.application.NewSession(visitorID)
	if startErr := session.Start(ctx); startErr != nil {
		return session
	}

	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	if existing, found := registry.sessions[visitorID]; found {
		return existing
	}
	registry.sessions[visitorID] = session
	return session
}

// Get returns the visitor's session when one exists.
func (registry *Registry) Get(visitorID string) (*Session, bool) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	session, found := registry.sessions[visitorID]
	return session, found
}

// ExpireIdle drops sessions not seen since the cutoff and returns how many were dropped.
func (registry *Registry) ExpireIdle(cutoff time.Time) int {
	registry.mutex.Lock()
	candidates := make(map[string]*Session, len(registry.sessions))
	for visitorID, session := range registry.sessions {
		candidates[visitorID] = session
	}
	registry.mutex.Unlock()

	expired := 0
	for visitorID, session := range candidates {
		if !session.LastSeen().Before(cutoff) {
			continue
		}
		registry.mutex.Lock()
		if registry.sessions[visitorID] == session {
			delete(registry.sessions, visitorID)
			expired++
		}
		registry.mutex.Unlock()
	}
	return expired
}

// Len returns the number of live sessions.
func (registry *Registry) Len() int {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	return len(registry.sessions)
}
