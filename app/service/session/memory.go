package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"crmchat/app/service/conversation"

	"github.com/samber/do"
)

const janitorInterval = time.Minute

var (
	_ conversation.Store = (*MemoryStore)(nil)
	_ do.Shutdownable    = (*MemoryStore)(nil)
)

// MemoryStore keeps sessions in-process. States are stored as JSON bytes
// so callers never share a pointer with the store; a Set is a snapshot.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

type memoryEntry struct {
	data      []byte
	updatedAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]memoryEntry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	if ttl > 0 {
		go store.runJanitor()
	}

	return store
}

func (s *MemoryStore) Get(_ context.Context, key string) (*conversation.State, error) {
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return conversation.NewState(), nil
	}

	state := conversation.NewState()
	if err := json.Unmarshal(entry.data, state); err != nil {
		return nil, fmt.Errorf("%w: failed to decode session %s: %w", ErrUnavailable, key, err)
	}

	return state, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, state *conversation.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: failed to encode session %s: %w", ErrUnavailable, key, err)
	}

	s.mu.Lock()
	s.items[key] = memoryEntry{data: data, updatedAt: time.Now()}
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}
	s.mu.RUnlock()

	sort.Strings(keys)

	return keys, nil
}

func (s *MemoryStore) runJanitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

func (s *MemoryStore) evictIdle() {
	deadline := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.items {
		if entry.updatedAt.Before(deadline) {
			delete(s.items, key)
			slog.Debug("Evicted idle session", "session", key)
		}
	}
}

func (s *MemoryStore) Shutdown() error {
	s.once.Do(func() {
		close(s.stop)
	})

	return nil
}
