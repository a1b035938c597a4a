package redisad

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const approvalsKey = "reviews:approvals"

// ApprovalStore keeps the per-review approval flags in a single redis hash,
// so the state survives process restarts and is shared across replicas.
// Hash-field writes are atomic on the server side, which gives the
// last-write-wins semantics the toggle operation needs.
type ApprovalStore struct{ c *redis.Client }

func NewApprovalStore(c *redis.Client) *ApprovalStore { return &ApprovalStore{c: c} }

func (s *ApprovalStore) Set(ctx context.Context, id string, approved bool) error {
	v := "0"
	if approved {
		v = "1"
	}
	return s.c.HSet(ctx, approvalsKey, id, v).Err()
}

func (s *ApprovalStore) Get(ctx context.Context, id string) (bool, error) {
	v, err := s.c.HGet(ctx, approvalsKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

func (s *ApprovalStore) Snapshot(ctx context.Context) (map[string]bool, error) {
	all, err := s.c.HGetAll(ctx, approvalsKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(all))
	for id, v := range all {
		out[id] = v == "1"
	}
	return out, nil
}
