// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/relic/internal/platform/constants"
)

// Store holds staged batches until they expire.
type Store interface {
	Save(ctx context.Context, batch *StagedBatch) error
	Load(ctx context.Context, id string) (*StagedBatch, error)
}

// # Memory

// MemoryStore keeps staged batches in process memory.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

// NewMemoryStore returns a store whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Save stores an encoded copy so later mutations of batch are not visible.
func (s *MemoryStore) Save(_ context.Context, batch *StagedBatch) error {
	body, err := encodeBatch(batch)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.entries[batch.ID] = memoryEntry{body: body, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*StagedBatch, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrBatchNotFound
	}
	return decodeBatch(entry.body)
}

// sweep drops expired entries. Callers hold mu.
func (s *MemoryStore) sweep(now time.Time) {
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

// # Redis

// RedisStore keeps staged batches in Redis under [constants.RedisPrefixHarvestBatch].
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a store whose keys expire after ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, batch *StagedBatch) error {
	body, err := encodeBatch(batch)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKey(batch.ID), body, s.ttl).Err(); err != nil {
		return fmt.Errorf("ingest: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*StagedBatch, error) {
	body, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: redis get: %w", err)
	}
	return decodeBatch(body)
}

func redisKey(id string) string {
	return constants.RedisPrefixHarvestBatch + id
}
