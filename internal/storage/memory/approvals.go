package memory

import (
	"context"
	"sync"
)

// ApprovalStore is the default process-lifetime backend: a mutex-guarded map
// keyed by review-id string. Satisfies last-write-wins under concurrent
// toggles of the same id and lost-update-free toggles of different ids.
type ApprovalStore struct {
	mu sync.RWMutex
	m  map[string]bool
}

func NewApprovalStore() *ApprovalStore {
	return &ApprovalStore{m: make(map[string]bool)}
}

func (s *ApprovalStore) Set(_ context.Context, id string, approved bool) error {
	s.mu.Lock()
	s.m[id] = approved
	s.mu.Unlock()
	return nil
}

func (s *ApprovalStore) Get(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[id], nil
}

// Snapshot copies the map so readers never see later writes.
func (s *ApprovalStore) Snapshot(_ context.Context) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out, nil
}
