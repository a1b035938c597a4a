package hostaway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"review_hub/internal/adapters/hostaway"
	"review_hub/internal/domain"
)

func TestClient_FetchReviews(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("limit = %s, want default 100", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"result": []map[string]any{{"id": 7453.0, "guestName": "Shane"}},
		})
	}))
	defer ts.Close()

	cl, err := hostaway.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raws, err := cl.FetchReviews(ctx, domain.FetchQuery{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("unexpected payload: %+v", raws)
	}
	if id, ok := raws[0]["id"].(float64); !ok || int(id) != 7453 {
		t.Fatalf("unexpected record: %+v", raws[0])
	}
}

func TestClient_FetchReviews_SingleAttempt(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(500)
	}))
	defer ts.Close()

	cl, _ := hostaway.New(ts.URL, "test-key", 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := cl.FetchReviews(ctx, domain.FetchQuery{})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("fallback policy owns recovery, want exactly 1 attempt, got %d", got)
	}
}

func TestClient_FetchReviews_RemoteFailureStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "fail"})
	}))
	defer ts.Close()

	cl, _ := hostaway.New(ts.URL, "test-key", 100)
	_, err := cl.FetchReviews(context.Background(), domain.FetchQuery{})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got %v", err)
	}
}

func TestClient_FetchReviews_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, _ := hostaway.New(ts.URL, "test-key", 100)
	_, err := cl.FetchReviews(context.Background(), domain.FetchQuery{})
	if !errors.Is(err, hostaway.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestFallback_NonEmptyAndWellFormed(t *testing.T) {
	raws := hostaway.Fallback()
	if len(raws) == 0 {
		t.Fatal("fallback dataset must be non-empty")
	}
	for _, r := range raws {
		if _, ok := r["id"]; !ok {
			t.Fatalf("fallback record without id: %+v", r)
		}
	}
}
