// internal/adapters/hostaway/client.go
package hostaway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"review_hub/internal/adapters/observability"
	"review_hub/internal/domain"
)

// Client talks to the Hostaway reviews endpoint. One bounded attempt per
// call: the caller's fallback policy handles failures, so there is no retry
// loop here — only client-side rate limiting and the request timeout.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrNotFound     = errors.New("hostaway: not found")
	ErrUnauthorized = errors.New("hostaway: unauthorized")
	ErrForbidden    = errors.New("hostaway: forbidden")
)

// envelope is Hostaway's standard response wrapper.
type envelope struct {
	Status string           `json:"status"`
	Result []map[string]any `json:"result"`
}

// FetchReviews gets one raw batch with the given paging/sort hints.
func (c *Client) FetchReviews(ctx context.Context, q domain.FetchQuery) ([]map[string]any, error) {
	q = q.WithDefaults()

	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("sortBy", q.SortBy)
	params.Set("sortOrder", q.SortOrder)

	var env envelope
	if err := c.get(ctx, c.base+"/reviews?"+params.Encode(), &env); err != nil {
		return nil, err
	}
	if env.Status != "success" {
		return nil, fmt.Errorf("%w: remote status %q", domain.ErrUpstreamUnavailable, env.Status)
	}
	return env.Result, nil
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "review-hub/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveChannel("hostaway", 0, time.Since(start))
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, ctx.Err())
		}
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	observability.ObserveChannel("hostaway", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode: %v", domain.ErrUpstreamUnavailable, err)
		}
		return nil

	case http.StatusNotFound:
		return ErrNotFound

	case http.StatusUnauthorized:
		return ErrUnauthorized

	case http.StatusForbidden:
		return ErrForbidden

	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s",
			domain.ErrUpstreamUnavailable, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
