package app

import (
	"strconv"

	"review_hub/internal/domain"
)

const recentActivityLimit = 5

// ComputeStatistics folds a canonical review set into the dashboard view.
// Callers pass the unfiltered full set when the needs-attention backlog must
// reflect every review rather than the current filtered view. Every ratio
// with a zero denominator yields 0 ("0.0" for averages), never NaN.
func ComputeStatistics(all []domain.Review) domain.Statistics {
	type propAcc struct {
		count, approved int
		sum             float64
	}
	type chanAcc struct {
		count int
		sum   float64
	}

	props := map[string]*propAcc{}
	chans := map[string]*chanAcc{}
	var sum float64
	var approved, attention int

	for _, r := range all {
		sum += r.Rating
		if r.Approved {
			approved++
		}
		if r.Rating < AttentionThreshold {
			attention++
		}
		p := props[r.ListingName]
		if p == nil {
			p = &propAcc{}
			props[r.ListingName] = p
		}
		p.count++
		p.sum += r.Rating
		if r.Approved {
			p.approved++
		}
		c := chans[r.Channel]
		if c == nil {
			c = &chanAcc{}
			chans[r.Channel] = c
		}
		c.count++
		c.sum += r.Rating
	}

	total := len(all)
	out := domain.Statistics{
		Overall: domain.OverallStats{
			Total:               total,
			AverageRating:       formatAverage(sum, total),
			ApprovedCount:       approved,
			PendingCount:        total - approved,
			ApprovalRatePercent: percent(approved, total),
		},
		ByProperty:          make(map[string]domain.PropertyStats, len(props)),
		ByChannel:           make(map[string]domain.ChannelStats, len(chans)),
		NeedsAttentionCount: attention,
		RecentActivity:      recentActivity(all),
	}
	for name, p := range props {
		out.ByProperty[name] = domain.PropertyStats{
			Count:               p.count,
			AverageRating:       formatAverage(p.sum, p.count),
			ApprovedCount:       p.approved,
			ApprovalRatePercent: percent(p.approved, p.count),
		}
	}
	for name, c := range chans {
		out.ByChannel[name] = domain.ChannelStats{
			Count:         c.count,
			AverageRating: formatAverage(c.sum, c.count),
		}
	}
	return out
}

// recentActivity projects the newest reviews without mutating the input.
func recentActivity(all []domain.Review) []domain.RecentReview {
	sorted := make([]domain.Review, len(all))
	copy(sorted, all)
	sortReviews(sorted, domain.SortNewest)
	if len(sorted) > recentActivityLimit {
		sorted = sorted[:recentActivityLimit]
	}
	out := make([]domain.RecentReview, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, domain.RecentReview{
			ID:          r.ID,
			GuestName:   r.GuestName,
			ListingName: r.ListingName,
			Rating:      r.Rating,
			Channel:     r.Channel,
			SubmittedAt: r.SubmittedRaw,
		})
	}
	return out
}

func formatAverage(sum float64, count int) string {
	if count == 0 {
		return "0.0"
	}
	return strconv.FormatFloat(round1(sum/float64(count)), 'f', 1, 64)
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(part)/float64(total)*100 + 0.5)
}
