package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Sessions keeps one Controller per browser session and forgets idle ones.
type Sessions struct {
	analyzer Analyzer

	mu  sync.Mutex
	lru *expirable.LRU[string, *Controller]
}

func NewSessions(analyzer Analyzer, size int, ttl time.Duration) *Sessions {
	if size < 1 {
		size = 1
	}
	return &Sessions{
		analyzer: analyzer,
		lru:      expirable.NewLRU[string, *Controller](size, nil, ttl),
	}
}

// Get returns the controller for id and refreshes its expiry.
func (s *Sessions) Get(id string) (*Controller, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.lru.Get(id)
	if ok {
		s.lru.Add(id, ctrl)
	}
	return ctrl, ok
}

// GetOrCreate returns the controller for id, creating a fresh session when id is unknown.
// The returned id is the one the caller should hand back to the client.
func (s *Sessions) GetOrCreate(id string) (string, *Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if ctrl, ok := s.lru.Get(id); ok {
			s.lru.Add(id, ctrl)
			return id, ctrl
		}
	}

	id = uuid.New().String()
	ctrl := NewController(s.analyzer)
	s.lru.Add(id, ctrl)
	return id, ctrl
}

func (s *Sessions) Len() int {
	return s.lru.Len()
}
