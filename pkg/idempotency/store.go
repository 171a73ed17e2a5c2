// Package idempotency deduplicates completed work with a Redis-backed key
// store. It backs both the Kafka consumers (topic/partition/offset keys) and
// the checkout endpoint's Idempotency-Key header.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// MessageKey identifies a consumed Kafka message.
func (s *Store) MessageKey(topic string, partition int, offset int64) string {
	return fmt.Sprintf("idem:msg:%s:%d:%d", topic, partition, offset)
}

// RequestKey identifies a client-supplied Idempotency-Key, scoped per user so
// two users cannot collide.
func (s *Store) RequestKey(userID, key string) string {
	return fmt.Sprintf("idem:req:%s:%s", userID, key)
}

// Check reports whether key has been marked. It never marks: callers mark
// only after the work the key guards has succeeded, so a failed attempt can
// be retried with the same key.
func (s *Store) Check(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Mark records key for the store's TTL.
func (s *Store) Mark(ctx context.Context, key string) error {
	return s.rdb.Set(ctx, key, "1", s.ttl).Err()
}
