package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"review_hub/internal/adapters/observability"
	"review_hub/internal/domain"
)

// ReviewService orchestrates the pipeline: raw channel batch -> normalize
// (joined with an approval snapshot) -> filter/sort -> envelope. Upstream
// failures never fail the request; the fixed fallback dataset substitutes.
type ReviewService struct {
	client    domain.ChannelClient
	approvals domain.ApprovalStore
	cache     domain.Cache // optional raw-batch memoizer; may be nil
	cacheTTL  time.Duration
	timeout   time.Duration
	fallback  []map[string]any
	group     singleflight.Group
}

func NewReviewService(
	client domain.ChannelClient,
	approvals domain.ApprovalStore,
	cache domain.Cache,
	cacheTTL time.Duration,
	fetchTimeout time.Duration,
	fallback []map[string]any,
) *ReviewService {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &ReviewService{
		client:    client,
		approvals: approvals,
		cache:     cache,
		cacheTTL:  cacheTTL,
		timeout:   fetchTimeout,
		fallback:  fallback,
	}
}

type rawBatch struct {
	Raws   []map[string]any `json:"raws"`
	Source string           `json:"source"`
}

// FetchReviews pulls one channel's batch, normalizes it against a fresh
// approval snapshot, and applies the filter/sort query.
func (s *ReviewService) FetchReviews(ctx context.Context, channel string, fq domain.FetchQuery, rq domain.ReviewQuery) (domain.FetchResult, error) {
	fq = fq.WithDefaults()
	batch := s.rawReviews(ctx, channel, fq)

	snapshot, err := s.approvals.Snapshot(ctx)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("approval snapshot: %w", err)
	}

	reviews := ApplyQuery(NormalizeBatch(batch.Raws, channel, snapshot), rq)
	return domain.FetchResult{Reviews: reviews, Total: len(reviews), Source: batch.Source}, nil
}

// rawReviews resolves the raw batch: cache, then upstream, then the embedded
// fallback. Concurrent identical requests collapse into one upstream call.
func (s *ReviewService) rawReviews(ctx context.Context, channel string, fq domain.FetchQuery) rawBatch {
	key := fmt.Sprintf("reviews:%s:%d:%d:%s:%s", channel, fq.Limit, fq.Offset, fq.SortBy, fq.SortOrder)

	v, _, _ := s.group.Do(key, func() (any, error) {
		if s.cache != nil {
			var cached []map[string]any
			if ok, _ := s.cache.Get(ctx, key, &cached); ok && len(cached) > 0 {
				return rawBatch{Raws: cached, Source: domain.SourceExternal}, nil
			}
		}

		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		raws, err := s.client.FetchReviews(cctx, fq)
		if err != nil {
			// Masked per policy: the caller gets the fixed dataset, the
			// failure goes to the log only.
			log.Warn().Err(err).Str("channel", channel).
				Msg("channel source unavailable, serving fallback dataset")
			observability.ObserveFallback(channel)
			return rawBatch{Raws: s.fallback, Source: domain.SourceFallback}, nil
		}
		if s.cache != nil && len(raws) > 0 {
			_ = s.cache.Set(ctx, key, raws, int(s.cacheTTL.Seconds()))
		}
		return rawBatch{Raws: raws, Source: domain.SourceExternal}, nil
	})
	return v.(rawBatch)
}

// SetApproval records the operator's decision for a review id. The id is not
// checked against fetched reviews: approving an unseen id is accepted and
// takes effect if that id later appears in a batch.
func (s *ReviewService) SetApproval(ctx context.Context, id string, approved bool) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: review id is required", domain.ErrInvalidInput)
	}
	return s.approvals.Set(ctx, id, approved)
}

// Statistics aggregates over the unfiltered full set of one channel, so the
// needs-attention count reflects the whole backlog rather than any view.
func (s *ReviewService) Statistics(ctx context.Context, channel string) (domain.Statistics, string, error) {
	res, err := s.FetchReviews(ctx, channel, domain.FetchQuery{}, domain.ReviewQuery{})
	if err != nil {
		return domain.Statistics{}, "", err
	}
	return ComputeStatistics(res.Reviews), res.Source, nil
}

// PropertyReviews scopes the canonical set to one listing: reviews whose
// listingName contains the given term (case-insensitive) or whose id equals
// it, optionally restricted to approved reviews.
func (s *ReviewService) PropertyReviews(ctx context.Context, channel, listing string, approvedOnly bool) (domain.FetchResult, error) {
	res, err := s.FetchReviews(ctx, channel, domain.FetchQuery{}, domain.ReviewQuery{})
	if err != nil {
		return domain.FetchResult{}, err
	}
	needle := strings.ToLower(listing)
	out := make([]domain.Review, 0, len(res.Reviews))
	for _, r := range res.Reviews {
		if !strings.Contains(strings.ToLower(r.ListingName), needle) &&
			strconv.FormatInt(r.ID, 10) != listing {
			continue
		}
		if approvedOnly && !r.Approved {
			continue
		}
		out = append(out, r)
	}
	return domain.FetchResult{Reviews: out, Total: len(out), Source: res.Source}, nil
}
