package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"user-dashboard/internal/usecase/dashboard"
)

// ViewFactory builds the view for a new session
type ViewFactory func() *dashboard.View

// Registry keeps one dashboard view per browser session.
// Views idle for longer than the TTL are closed and dropped.
type Registry struct {
	newView ViewFactory
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	view     *dashboard.View
	lastSeen time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(newView ViewFactory, ttl time.Duration, log *zap.Logger) *Registry {
	return &Registry{
		newView: newView,
		ttl:     ttl,
		now:     time.Now,
		log:     log,
		entries: make(map[string]*entry),
	}
}

// Acquire returns the view registered under id and marks it active. When id is
// empty or unknown a new view is registered under a fresh id, which is returned.
func (r *Registry) Acquire(id string) (string, *dashboard.View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.entries[id]; ok && id != "" {
		e.lastSeen = now
		return id, e.view
	}

	newID := uuid.NewString()
	e := &entry{view: r.newView(), lastSeen: now}
	r.entries[newID] = e

	r.log.Debug("session registered", zap.String("session_id", newID), zap.Int("sessions", len(r.entries)))
	return newID, e.view
}

// Len returns the number of registered sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// EvictIdle closes and removes every view not acquired within the TTL.
// It returns the number of evicted sessions.
func (r *Registry) EvictIdle() int {
	r.mu.Lock()
	cutoff := r.now().Add(-r.ttl)
	var idle []*dashboard.View
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.view)
			delete(r.entries, id)
		}
	}
	remaining := len(r.entries)
	r.mu.Unlock()

	for _, v := range idle {
		v.Close()
	}

	if len(idle) > 0 {
		r.log.Info("evicted idle sessions", zap.Int("evicted", len(idle)), zap.Int("sessions", remaining))
	}
	return len(idle)
}

// Run evicts idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle()
		}
	}
}

// Close closes every registered view and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range entries {
		e.view.Close()
	}
	r.log.Info("session registry closed", zap.Int("sessions", len(entries)))
}
