package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when the key is absent.
var ErrMiss = errors.New("redisstore: cache miss")

// Store is a small JSON cache over Redis. Callers treat every failure as a
// miss; Redis being down must never fail a request.
type Store struct {
	client *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) GetJSON(ctx context.Context, key string, dest any) error {
	if s == nil || s.client == nil {
		return ErrMiss
	}
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (s *Store) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, ttl).Err()
}
