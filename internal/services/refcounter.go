package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// CounterStore persists the reference counter value. The stored value is the
// next id to hand out, encoded as a plain decimal string.
type CounterStore interface {
	// Load returns the persisted value and whether one exists.
	Load(ctx context.Context) (int64, bool, error)
	Save(ctx context.Context, value int64) error
}

// ReferenceCounter hands out strictly increasing reference ids, persisting
// after every assignment so a restart resumes where the process left off.
type ReferenceCounter interface {
	Next(ctx context.Context) (int64, error)
}

type referenceCounter struct {
	mu      sync.Mutex
	current int64
	store   CounterStore
}

// NewReferenceCounter loads the persisted value once at startup, defaulting
// to 1 when none exists. Next serializes assign-increment-persist so
// concurrent requests cannot produce duplicate or skipped ids.
func NewReferenceCounter(ctx context.Context, store CounterStore) (ReferenceCounter, error) {
	value, found, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference counter: %w", err)
	}
	if !found {
		value = 1
	}
	return &referenceCounter{current: value, store: store}, nil
}

func (c *referenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	assigned := c.current
	c.current++
	if err := c.store.Save(ctx, c.current); err != nil {
		c.current = assigned
		return 0, fmt.Errorf("failed to persist reference counter: %w", err)
	}
	return assigned, nil
}

type fileCounterStore struct {
	path string
}

// NewFileCounterStore persists the counter as a single plain-text integer
// file.
func NewFileCounterStore(path string) CounterStore {
	return &fileCounterStore{path: path}
}

func (s *fileCounterStore) Load(ctx context.Context) (int64, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read counter file: %w", err)
	}

	value, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid counter file contents: %w", err)
	}
	return value, true, nil
}

func (s *fileCounterStore) Save(ctx context.Context, value int64) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create counter directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(strconv.FormatInt(value, 10)), 0644); err != nil {
		return fmt.Errorf("failed to write counter file: %w", err)
	}
	return nil
}

type redisCounterStore struct {
	client *redis.Client
	key    string
}

// NewRedisCounterStore persists the counter in a Redis key, for deployments
// where the process has no durable local disk.
func NewRedisCounterStore(client *redis.Client, key string) CounterStore {
	return &redisCounterStore{client: client, key: key}
}

func (s *redisCounterStore) Load(ctx context.Context) (int64, bool, error) {
	value, err := s.client.Get(ctx, s.key).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read counter key: %w", err)
	}
	return value, true, nil
}

func (s *redisCounterStore) Save(ctx context.Context, value int64) error {
	if err := s.client.Set(ctx, s.key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write counter key: %w", err)
	}
	return nil
}
