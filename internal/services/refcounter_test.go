package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCounterStore is an in-memory CounterStore for tests.
type memCounterStore struct {
	mu    sync.Mutex
	value int64
	found bool
}

func (s *memCounterStore) Load(ctx context.Context) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.found, nil
}

func (s *memCounterStore) Save(ctx context.Context, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.found = true
	return nil
}

func TestReferenceCounterStartsAtOne(t *testing.T) {
	ctx := context.Background()
	counter, err := NewReferenceCounter(ctx, &memCounterStore{})
	require.NoError(t, err)

	for want := int64(1); want <= 3; want++ {
		got, err := counter.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReferenceCounterResumesFromStore(t *testing.T) {
	ctx := context.Background()
	store := &memCounterStore{value: 5, found: true}

	counter, err := NewReferenceCounter(ctx, store)
	require.NoError(t, err)

	for want := int64(5); want <= 7; want++ {
		got, err := counter.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// The next id to hand out is persisted after every assignment.
	persisted, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(8), persisted)
}

func TestReferenceCounterUniqueUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	counter, err := NewReferenceCounter(ctx, &memCounterStore{})
	require.NoError(t, err)

	const workers = 50
	ids := make(chan int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := counter.Next(ctx)
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate reference id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestFileCounterStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "reference_counter.txt")
	store := NewFileCounterStore(path)

	// Absent file reads as not found.
	_, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, 42))

	value, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(42), value)

	// Stored as a plain decimal string.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))
}

func TestFileCounterStoreSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reference_counter.txt")

	counter, err := NewReferenceCounter(ctx, NewFileCounterStore(path))
	require.NoError(t, err)

	id, err := counter.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// A fresh counter over the same file picks up where the last left off.
	restarted, err := NewReferenceCounter(ctx, NewFileCounterStore(path))
	require.NoError(t, err)

	id, err = restarted.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestFileCounterStoreRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reference_counter.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a number"), 0644))

	_, _, err := NewFileCounterStore(path).Load(ctx)
	assert.Error(t, err)
}
