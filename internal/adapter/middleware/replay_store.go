package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// replayEntry is what Redis holds per idempotency key: first a reservation
// (InProgress), then the recorded response.
type replayEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e replayEntry) replayable() bool {
	return !e.InProgress && e.Code != 0 && len(e.Body) > 0
}

var errNoEntry = errors.New("idempotency entry not found")

type replayStore struct {
	rdb *redis.Client
	// lifetime of recorded responses
	ttl time.Duration
}

// reserve claims key for one in-flight request; false means someone else holds it.
func (s replayStore) reserve(ctx context.Context, key string, e replayEntry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func (s replayStore) load(ctx context.Context, key string) (replayEntry, error) {
	var e replayEntry
	v, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, errNoEntry
	}
	if err != nil {
		return e, err
	}
	return e, json.Unmarshal(v, &e)
}

// record replaces the reservation with the final response.
func (s replayStore) record(ctx context.Context, key string, e replayEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

// release drops the reservation so the same request id can run again.
func (s replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
