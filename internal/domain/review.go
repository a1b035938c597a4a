package domain

import "time"

// CategoryScore is one per-category rating on the 0-10 scale.
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"rating"`
}

// Review is the canonical shape every channel record normalizes into.
// Content fields are immutable per fetch; Approved is joined from the
// approval store at normalization time and is never part of the raw record.
type Review struct {
	ID          int64           `json:"id"`
	GuestName   string          `json:"guestName"`
	ListingName string          `json:"listingName"`
	Channel     string          `json:"channel"`
	Rating      float64         `json:"rating"`
	Categories  []CategoryScore `json:"reviewCategory"`
	// SubmittedAt is the parsed timestamp; zero when SubmittedRaw could not
	// be parsed (such reviews order as earliest possible).
	SubmittedAt  time.Time `json:"-"`
	SubmittedRaw string    `json:"submittedAt"`
	Text         string    `json:"publicReview"`
	Approved     bool      `json:"approved"`
}

// Sort orders accepted by the filter engine.
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
	SortRatingDesc SortOrder = "rating_desc"
	SortRatingAsc  SortOrder = "rating_asc"
)

// ReviewQuery is the filter specification. Every field is optional; set
// fields combine with logical AND. Zero values mean "no constraint".
type ReviewQuery struct {
	Search    string // case-insensitive substring over guest, text, listing
	Property  string // exact listingName match
	MinRating int    // keep rating >= MinRating
	Status    string // "approved" | "pending" | "" (all)
	Channel   string // exact channel match
	DateFrom  *time.Time
	DateTo    *time.Time
	Sort      SortOrder // defaults to SortNewest
}

// FetchQuery carries paging/sort hints passed through to the channel source.
type FetchQuery struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

func (q FetchQuery) WithDefaults() FetchQuery {
	if q.Limit <= 0 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.SortBy == "" {
		q.SortBy = "submittedAt"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
	return q
}

const (
	SourceExternal = "external"
	SourceFallback = "fallback"
)

// FetchResult is a normalized, filtered batch plus its provenance.
type FetchResult struct {
	Reviews []Review
	Total   int
	Source  string // SourceExternal or SourceFallback
}
