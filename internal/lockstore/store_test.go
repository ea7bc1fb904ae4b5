package lockstore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreMutualExclusion(t *testing.T) {
	s := NewMemoryStore(300*time.Second, nil)
	key := Key("uploads/doc.pdf", uuid.New(), uuid.New())

	ok, err := s.Acquire(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Acquire(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire within TTL must fail")

	require.NoError(t, s.Release(context.Background(), key))

	ok, err = s.Acquire(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok, "acquire after release must succeed")
}

func TestMemoryStoreConcurrentAcquire(t *testing.T) {
	s := NewMemoryStore(300*time.Second, nil)
	key := Key("uploads/doc.pdf", uuid.New(), uuid.New())

	const n = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Acquire(context.Background(), key); ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one concurrent acquire may win")
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(300*time.Second, nil)
	base := time.Now()
	s.now = func() time.Time { return base }

	key := Key("uploads/doc.pdf", uuid.New(), uuid.New())
	ok, err := s.Acquire(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)

	// Still inside the TTL window.
	s.now = func() time.Time { return base.Add(299 * time.Second) }
	ok, _ = s.Acquire(context.Background(), key)
	assert.False(t, ok)

	// Past the TTL the lock self-expires even though it was never released.
	s.now = func() time.Time { return base.Add(301 * time.Second) }
	ok, _ = s.Acquire(context.Background(), key)
	assert.True(t, ok)
}

func TestKeyIsStablePerTuple(t *testing.T) {
	campus, requester := uuid.New(), uuid.New()
	k1 := Key("a.pdf", campus, requester)
	k2 := Key("a.pdf", campus, requester)
	k3 := Key("b.pdf", campus, requester)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestSQLiteStoreAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks.db")
	s, err := OpenSQLite(path, 300*time.Second, nil)
	require.NoError(t, err)
	defer s.Close()

	key := Key("uploads/doc.pdf", uuid.New(), uuid.New())

	ok, err := s.Acquire(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Acquire(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Release(context.Background(), key))

	ok, err = s.Acquire(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLiteStoreExpiredLockIsReacquirable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks.db")
	s, err := OpenSQLite(path, 1*time.Nanosecond, nil)
	require.NoError(t, err)
	defer s.Close()

	key := Key("uploads/doc.pdf", uuid.New(), uuid.New())

	ok, err := s.Acquire(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(1100 * time.Millisecond) // expires_at has one-second resolution

	ok, err = s.Acquire(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock must be reacquirable without release")
}
