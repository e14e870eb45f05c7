// Package session keeps dashboard sessions in memory with a sliding TTL.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
)

type entry struct {
	state     model.DashboardState
	expiresAt time.Time
}

// Store is an in-memory port.SessionStore. Unknown or expired sessions load
// as a fresh dashboard.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

var _ port.SessionStore = (*Store)(nil)

// NewStore creates a store whose sessions expire ttl after their last
// write, and starts the sweeper that evicts them every interval.
func NewStore(ttl, interval time.Duration) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go s.cleanup(interval)
	return s
}

// Load returns the session state.
func (s *Store) Load(_ context.Context, id string) (model.DashboardState, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || s.now().After(e.expiresAt) {
		return model.NewDashboardState(), nil
	}
	return e.state, nil
}

// Store saves the session state and extends its lifetime.
func (s *Store) Store(_ context.Context, id string, state model.DashboardState) error {
	s.mu.Lock()
	s.entries[id] = entry{state: state, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the sweeper. It is safe to call more than once.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Store) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evict()
		case <-s.stop:
			return
		}
	}
}

// evict rebuilds the map without expired sessions so its memory is
// reclaimed.
func (s *Store) evict() {
	now := s.now()
	s.mu.Lock()
	fresh := make(map[string]entry, len(s.entries))
	for k, v := range s.entries {
		if now.Before(v.expiresAt) {
			fresh[k] = v
		}
	}
	s.entries = fresh
	s.mu.Unlock()
}
