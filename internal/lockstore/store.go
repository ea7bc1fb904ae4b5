// Package lockstore guards against duplicate concurrent analysis of the
// same (file, campus, requester) tuple. Locks are mutually exclusive,
// non-reentrant, and self-expire after the TTL so a crashed holder can
// only starve others for a bounded window.
package lockstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the concurrency guard contract. Acquire returns false when the
// key is already held and not expired. Callers must Release on every exit
// path; a deferred Release is the expected pattern.
type Store interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Key derives the lock key for one analysis tuple.
func Key(filePath string, campusID, requesterID uuid.UUID) string {
	h := sha256.New()
	h.Write([]byte(filePath))
	h.Write([]byte{0})
	h.Write([]byte(campusID.String()))
	h.Write([]byte{0})
	h.Write([]byte(requesterID.String()))
	return hex.EncodeToString(h.Sum(nil))
}

// MemoryStore is the in-process implementation: a map with expiry.
type MemoryStore struct {
	ttl    time.Duration
	mu     sync.Mutex
	held   map[string]time.Time
	logger *slog.Logger
	now    func() time.Time // test hook
}

func NewMemoryStore(ttl time.Duration, logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return &MemoryStore{
		ttl:    ttl,
		held:   make(map[string]time.Time),
		logger: logger,
		now:    time.Now,
	}
}

func (s *MemoryStore) Acquire(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.held[key]; ok && now.Before(exp) {
		s.logger.Debug("lockstore.acquire.held", "key", key, "expires_in", exp.Sub(now))
		return false, nil
	}
	s.held[key] = now.Add(s.ttl)
	s.logger.Debug("lockstore.acquire.ok", "key", key, "ttl", s.ttl)
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, key)
	s.logger.Debug("lockstore.release.ok", "key", key)
	return nil
}
