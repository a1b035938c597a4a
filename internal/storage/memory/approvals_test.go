package memory_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"review_hub/internal/storage/memory"
)

func TestApprovalStore_SetGetDefault(t *testing.T) {
	s := memory.NewApprovalStore()
	ctx := context.Background()

	if got, _ := s.Get(ctx, "7453"); got {
		t.Fatal("unset id must read as false")
	}
	if err := s.Set(ctx, "7453", true); err != nil {
		t.Fatalf("err: %v", err)
	}
	if got, _ := s.Get(ctx, "7453"); !got {
		t.Fatal("expected true after set")
	}
}

func TestApprovalStore_ConcurrentDistinctIDs(t *testing.T) {
	s := memory.NewApprovalStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Set(ctx, strconv.Itoa(i), true); err != nil {
				t.Errorf("set %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	snap, _ := s.Snapshot(ctx)
	if len(snap) != 100 {
		t.Fatalf("lost updates: want 100 entries, got %d", len(snap))
	}
}

func TestApprovalStore_SnapshotIsCopy(t *testing.T) {
	s := memory.NewApprovalStore()
	ctx := context.Background()

	_ = s.Set(ctx, "1", true)
	snap, _ := s.Snapshot(ctx)
	_ = s.Set(ctx, "2", true)

	if len(snap) != 1 {
		t.Fatalf("snapshot must be point-in-time, got %+v", snap)
	}
	snap["1"] = false
	if got, _ := s.Get(ctx, "1"); !got {
		t.Fatal("mutating a snapshot must not affect the store")
	}
}
