// Package memory provides the in-memory SessionStore backing single-instance
// deployments. Sessions live only between creation and explicit consumption;
// a janitor evicts sessions idle past the configured TTL so abandoned
// sessions cannot grow memory unbounded.
package memory

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/serenica/server/domain/entities"
)

const janitorInterval = time.Minute

// SessionStore is a thread-safe in-memory session map. The map lock guards
// membership only; appends to a session are serialized by the session itself,
// so different sessions never contend.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entities.Session
	seq      uint64

	ttl      time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewSessionStore creates a store evicting sessions idle longer than ttl.
func NewSessionStore(ttl time.Duration, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entities.Session),
		ttl:      ttl,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Create implements repositories.SessionStore. Session ids derive from the
// owner and creation time; a sequence suffix keeps rapid creates collision-free.
func (s *SessionStore) Create(ownerID string) (*entities.Session, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("%s_%d", ownerID, time.Now().Unix())
	for {
		if _, exists := s.sessions[id]; !exists {
			break
		}
		s.seq++
		id = fmt.Sprintf("%s_%d_%d", ownerID, time.Now().Unix(), s.seq)
	}

	session := entities.NewSession(id, ownerID)
	s.sessions[id] = session
	return session, nil
}

// Get implements repositories.SessionStore.
func (s *SessionStore) Get(id string) (*entities.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Delete implements repositories.SessionStore.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor begins the background eviction loop.
func (s *SessionStore) StartJanitor() {
	go s.janitorLoop()
	s.logger.Info("Session janitor started", zap.Duration("ttl", s.ttl))
}

// Stop gracefully stops the janitor.
func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

func (s *SessionStore) janitorLoop() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep evicts every session idle longer than the TTL.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, session := range s.sessions {
		if session.IdleFor() > s.ttl {
			delete(s.sessions, id)
			evicted++
			s.logger.Info("Evicted idle session",
				zap.String("sessionID", id),
				zap.String("ownerID", session.OwnerID))
		}
	}
	return evicted
}
