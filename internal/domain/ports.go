package domain

import "context"

// ChannelClient fetches raw review records from one external channel.
// Records are channel-specific maps; the normalizer owns their interpretation.
type ChannelClient interface {
	FetchReviews(ctx context.Context, q FetchQuery) ([]map[string]any, error)
}

// ApprovalStore maps review-id strings to an approval flag. Entries persist
// independently of fetched batches; absent ids read as false. Implementations
// must be safe for concurrent use with last-write-wins on same-id races.
type ApprovalStore interface {
	Set(ctx context.Context, id string, approved bool) error
	Get(ctx context.Context, id string) (bool, error)
	// Snapshot returns a point-in-time copy of all entries for the
	// normalization join. Writes after the snapshot are not reflected.
	Snapshot(ctx context.Context) (map[string]bool, error)
}

// Cache is an optional raw-batch memoizer in front of the channel source.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models for the aggregator.

type OverallStats struct {
	Total               int    `json:"total"`
	AverageRating       string `json:"averageRating"`
	ApprovedCount       int    `json:"approvedCount"`
	PendingCount        int    `json:"pendingCount"`
	ApprovalRatePercent int    `json:"approvalRatePercent"`
}

type PropertyStats struct {
	Count               int    `json:"count"`
	AverageRating       string `json:"averageRating"`
	ApprovedCount       int    `json:"approvedCount"`
	ApprovalRatePercent int    `json:"approvalRatePercent"`
}

type ChannelStats struct {
	Count         int    `json:"count"`
	AverageRating string `json:"averageRating"`
}

// RecentReview is the display projection used by recentActivity.
type RecentReview struct {
	ID          int64   `json:"id"`
	GuestName   string  `json:"guestName"`
	ListingName string  `json:"listingName"`
	Rating      float64 `json:"rating"`
	Channel     string  `json:"channel"`
	SubmittedAt string  `json:"submittedAt"`
}

type Statistics struct {
	Overall             OverallStats             `json:"overall"`
	ByProperty          map[string]PropertyStats `json:"byProperty"`
	ByChannel           map[string]ChannelStats  `json:"byChannel"`
	NeedsAttentionCount int                      `json:"needsAttentionCount"`
	RecentActivity      []RecentReview           `json:"recentActivity"`
}
