package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/duet/internal/pairing/domain"
	"github.com/google/uuid"
)

type memoryCodeEntry struct {
	ownerID   uuid.UUID
	expiresAt time.Time
}

// MemoryCodeStore is an in-process code store for local mode (no Redis).
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]memoryCodeEntry
	now   func() time.Time
}

// NewMemoryCodeStore creates an in-memory code store.
func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{
		codes: make(map[string]memoryCodeEntry),
		now:   time.Now,
	}
}

// Put registers a code for its owner with the given time-to-live.
func (s *MemoryCodeStore) Put(ctx context.Context, code domain.Code, ownerID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	s.codes[code.String()] = memoryCodeEntry{ownerID: ownerID, expiresAt: expiresAt}
	return nil
}

// Resolve returns the owner of a code. A code past its TTL resolves to
// ErrCodeExpired and is evicted; unknown codes are ErrCodeNotFound.
func (s *MemoryCodeStore) Resolve(ctx context.Context, code domain.Code) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[code.String()]
	if !ok {
		return uuid.Nil, domain.ErrCodeNotFound
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.codes, code.String())
		return uuid.Nil, domain.ErrCodeExpired
	}
	return entry.ownerID, nil
}

// Invalidate removes a code after redemption.
func (s *MemoryCodeStore) Invalidate(ctx context.Context, code domain.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, code.String())
	return nil
}
