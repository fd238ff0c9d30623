package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"sqlworkshop-server/models"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Values are stored serialized so a
// caller never holds a pointer into the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore returns an empty store whose sessions live for ttl after their last save.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*models.SessionState, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, ErrNotFound
	}

	return decodeState(e.data)
}

// Transact holds the store lock for the whole cycle.
func (s *MemoryStore) Transact(_ context.Context, sessionID string, fn TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current *models.SessionState
	if e, ok := s.entries[sessionID]; ok && s.now().Before(e.expiresAt) {
		st, err := decodeState(e.data)
		if err != nil {
			return err
		}
		current = st
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	s.entries[sessionID] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func decodeState(data []byte) (*models.SessionState, error) {
	var state models.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &state, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, state *models.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	s.entries[sessionID] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Sweep drops every session that expired before now and returns how many went.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}
