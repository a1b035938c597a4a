package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"review_hub/internal/adapters/hostaway"
	httpserver "review_hub/internal/adapters/http_server"
	"review_hub/internal/app"
	"review_hub/internal/domain"
	"review_hub/internal/storage/memory"
)

type stubClient struct {
	raws []map[string]any
	err  error
}

func (c *stubClient) FetchReviews(ctx context.Context, q domain.FetchQuery) ([]map[string]any, error) {
	return c.raws, c.err
}

func newTestServer(t *testing.T, cl domain.ChannelClient) *httptest.Server {
	t.Helper()
	svc := app.NewReviewService(cl, memory.NewApprovalStore(), nil, 0, time.Second, hostaway.Fallback())
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{S: svc})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, wantStatus int) map[string]any {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", url, res.StatusCode, wantStatus)
	}
	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func patchJSON(t *testing.T, url, payload string) (*http.Response, map[string]any) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPatch, url, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH %s: %v", url, err)
	}
	defer res.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(res.Body).Decode(&body)
	return res, body
}

func TestGetReviews_OK(t *testing.T) {
	ts := newTestServer(t, &stubClient{raws: []map[string]any{
		{"id": 1.0, "guestName": "Shane", "listingName": "2B Shoreditch Heights", "rating": 9.0, "submittedAt": "2024-03-01 10:00:00"},
	}})

	body := getJSON(t, ts.URL+"/v1/reviews/hostaway", http.StatusOK)
	if body["success"] != true || body["source"] != "external" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	data := body["data"].([]any)
	if len(data) != 1 || body["total"] != float64(1) {
		t.Fatalf("unexpected data: %+v", body)
	}
}

func TestGetReviews_FallbackOnUpstreamFailure(t *testing.T) {
	ts := newTestServer(t, &stubClient{err: errors.New("dial tcp: i/o timeout")})

	body := getJSON(t, ts.URL+"/v1/reviews/hostaway", http.StatusOK)
	if body["success"] != true {
		t.Fatalf("fallback must not fail the request: %+v", body)
	}
	if body["source"] != "fallback" {
		t.Fatalf("source = %v, want fallback", body["source"])
	}
	if len(body["data"].([]any)) == 0 {
		t.Fatal("fallback data must be non-empty")
	}
}

func TestGetReviews_FilterParams(t *testing.T) {
	ts := newTestServer(t, &stubClient{raws: []map[string]any{
		{"id": 1.0, "guestName": "A", "rating": 9.0},
		{"id": 2.0, "guestName": "B", "rating": 6.0},
	}})

	body := getJSON(t, ts.URL+"/v1/reviews/hostaway?minRating=8&status=pending", http.StatusOK)
	if body["total"] != float64(1) {
		t.Fatalf("want single pending high-rated review, got %+v", body)
	}
}

func TestGetReviews_BadLimit(t *testing.T) {
	ts := newTestServer(t, &stubClient{})
	body := getJSON(t, ts.URL+"/v1/reviews/hostaway?limit=nope", http.StatusBadRequest)
	if body["error"] != "validation_error" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestPatchApproval_RoundTrip(t *testing.T) {
	ts := newTestServer(t, &stubClient{raws: []map[string]any{
		{"id": 7453.0, "guestName": "Shane", "rating": 9.0},
	}})

	res, body := patchJSON(t, ts.URL+"/v1/reviews/7453/approval", `{"approved": true}`)
	if res.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("patch failed: %d %+v", res.StatusCode, body)
	}
	if body["reviewId"] != "7453" || body["approved"] != true {
		t.Fatalf("unexpected envelope: %+v", body)
	}

	// a re-fetch reflects the toggle
	got := getJSON(t, ts.URL+"/v1/reviews/hostaway", http.StatusOK)
	first := got["data"].([]any)[0].(map[string]any)
	if first["approved"] != true {
		t.Fatalf("approval not reflected: %+v", first)
	}
}

func TestPatchApproval_NonBooleanRejected(t *testing.T) {
	ts := newTestServer(t, &stubClient{})

	for _, payload := range []string{`{"approved": "yes"}`, `{"approved": 1}`, `{}`} {
		res, body := patchJSON(t, ts.URL+"/v1/reviews/7453/approval", payload)
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("payload %s: status %d, want 400", payload, res.StatusCode)
		}
		if body["error"] != "validation_error" {
			t.Fatalf("payload %s: %+v", payload, body)
		}
	}
}

func TestGetStats(t *testing.T) {
	ts := newTestServer(t, &stubClient{raws: []map[string]any{
		{"id": 1.0, "listingName": "A", "rating": 9.0},
		{"id": 2.0, "listingName": "A", "rating": 4.0},
	}})

	body := getJSON(t, ts.URL+"/v1/stats/hostaway", http.StatusOK)
	if body["success"] != true {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	data := body["data"].(map[string]any)
	overall := data["overall"].(map[string]any)
	if overall["total"] != float64(2) || overall["averageRating"] != "6.5" {
		t.Fatalf("unexpected overall: %+v", overall)
	}
	if data["needsAttentionCount"] != float64(1) {
		t.Fatalf("unexpected needsAttentionCount: %+v", data)
	}
}

func TestGetPropertyReviews(t *testing.T) {
	ts := newTestServer(t, &stubClient{raws: []map[string]any{
		{"id": 1.0, "listingName": "2B Shoreditch Heights", "rating": 9.0},
		{"id": 2.0, "listingName": "1A Soho Loft", "rating": 8.0},
	}})

	u := ts.URL + "/v1/properties/" + url.PathEscape("Shoreditch") + "/reviews"
	body := getJSON(t, u, http.StatusOK)
	if body["total"] != float64(1) {
		t.Fatalf("unexpected result: %+v", body)
	}

	body = getJSON(t, u+"?approved_only=true", http.StatusOK)
	if body["total"] != float64(0) {
		t.Fatalf("pending reviews must be excluded: %+v", body)
	}
}
