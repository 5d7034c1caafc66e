package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/Chxpz/futmatrix-whop-agents/internal/domain"
)

// MemoryStore is the in-process conversation store. Each (agent, user) key
// owns an independent bounded turn log with FIFO eviction: once a log holds
// the retention bound, appending discards the oldest turn. Discarding old
// turns is an accepted trade-off, not an error.
type MemoryStore struct {
	mu        sync.RWMutex
	retention int
	logs      map[domain.ConversationKey][]domain.Turn
}

// NewMemoryStore creates a store that keeps at most retention turns per
// conversation.
func NewMemoryStore(retention int) *MemoryStore {
	if retention <= 0 {
		retention = 20
	}
	return &MemoryStore{
		retention: retention,
		logs:      make(map[domain.ConversationKey][]domain.Turn),
	}
}

// Append implements domain.ConversationStore.
func (s *MemoryStore) Append(_ context.Context, key domain.ConversationKey, turn domain.Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.logs[key], turn)
	if len(log) > s.retention {
		// Shift rather than reslice so evicted turns are actually freed.
		n := copy(log, log[len(log)-s.retention:])
		log = log[:n]
	}
	s.logs[key] = log
	return nil
}

// Recent implements domain.ConversationStore. It returns a copy, so callers
// can hold the result across later appends.
func (s *MemoryStore) Recent(_ context.Context, key domain.ConversationKey, limit int) ([]domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[key]
	if limit > 0 && len(log) > limit {
		log = log[len(log)-limit:]
	}
	out := make([]domain.Turn, len(log))
	copy(out, log)
	return out, nil
}

// Clear implements domain.ConversationStore.
func (s *MemoryStore) Clear(_ context.Context, key domain.ConversationKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, key)
	return nil
}

// Len returns the stored turn count for a conversation. Intended for tests
// and the status endpoint.
func (s *MemoryStore) Len(key domain.ConversationKey) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs[key])
}

// Conversations returns the number of distinct conversations held.
func (s *MemoryStore) Conversations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}

var _ domain.ConversationStore = (*MemoryStore)(nil)
