package app

import (
	"sort"
	"strings"

	"review_hub/internal/domain"
)

// ApplyQuery filters and orders a canonical review set. Pure: the input slice
// is never mutated and the result is always a fresh slice. Filtering is the
// AND of every set field; sorting runs strictly after filtering and is
// stable, so equal keys keep their input order. Reviews with an unparsable
// submittedAt carry a zero time and therefore order as earliest possible;
// date-range filters exclude them whenever a lower bound is set.
func ApplyQuery(in []domain.Review, q domain.ReviewQuery) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	sortReviews(out, q.Sort)
	return out
}

func matches(r domain.Review, q domain.ReviewQuery) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(r.GuestName), needle) &&
			!strings.Contains(strings.ToLower(r.Text), needle) &&
			!strings.Contains(strings.ToLower(r.ListingName), needle) {
			return false
		}
	}
	if q.Property != "" && r.ListingName != q.Property {
		return false
	}
	if q.MinRating > 0 && r.Rating < float64(q.MinRating) {
		return false
	}
	switch q.Status {
	case "approved":
		if !r.Approved {
			return false
		}
	case "pending":
		if r.Approved {
			return false
		}
	}
	if q.Channel != "" && r.Channel != q.Channel {
		return false
	}
	if q.DateFrom != nil && r.SubmittedAt.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && r.SubmittedAt.After(*q.DateTo) {
		return false
	}
	return true
}

func sortReviews(rs []domain.Review, order domain.SortOrder) {
	switch order {
	case domain.SortOldest:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].SubmittedAt.Before(rs[j].SubmittedAt) })
	case domain.SortRatingDesc:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Rating > rs[j].Rating })
	case domain.SortRatingAsc:
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Rating < rs[j].Rating })
	default: // newest first
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].SubmittedAt.After(rs[j].SubmittedAt) })
	}
}
