package app

import (
	"crypto/sha1"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	"review_hub/internal/domain"
)

// Rating policy constants. NeutralRating fills in when a record carries no
// rating signal at all; it is not a guest-supplied value. AttentionThreshold
// is the fixed cutoff for the needs-attention backlog count.
const (
	NeutralRating      = 7.5
	AttentionThreshold = 8.0
)

/********** alias registry (single source of truth) **********/

var reviewAliases = map[string][]string{
	"id":         {"id", "review_id", "reviewId"},
	"guest":      {"guestName", "guest_name", "author", "reviewer.name", "name"},
	"listing":    {"listingName", "listing_name", "propertyName", "listing.name"},
	"text":       {"publicReview", "text", "review_text", "comment", "content", "body"},
	"rating":     {"rating", "overallRating", "overall_rating", "score", "rating.value"},
	"submitted":  {"submittedAt", "submitted_at", "createdAt", "created_at", "date"},
	"categories": {"reviewCategory", "categories", "category_scores", "categoryScores"},
}

var submittedLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstStringAlias: first non-empty string for a named alias set.
func firstStringAlias(m map[string]any, key string) string {
	for _, p := range reviewAliases[key] {
		if v := lookupAny(m, p); v != nil {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// firstFloatAlias: number from alias paths (float64/int/string like "8,0").
// The bool reports whether any path held a usable number.
func firstFloatAlias(m map[string]any, key string) (float64, bool) {
	for _, p := range reviewAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// reviewID: explicit id when present, else a stable hash of the content so
// repeated normalization of the same record keeps the same identity.
func reviewID(raw map[string]any) int64 {
	for _, p := range reviewAliases["id"] {
		switch v := lookupAny(raw, p).(type) {
		case float64:
			return int64(v)
		case int:
			return int64(v)
		case int64:
			return v
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n
			}
		}
	}
	sig := strings.Join([]string{
		firstStringAlias(raw, "guest"),
		firstStringAlias(raw, "listing"),
		firstStringAlias(raw, "text"),
		firstStringAlias(raw, "submitted"),
	}, "|")
	sum := sha1.Sum([]byte(sig))
	n := int64(binary.BigEndian.Uint64(sum[:8]))
	if n < 0 {
		n = -n
	}
	return n
}

func categoryScores(raw map[string]any) []domain.CategoryScore {
	for _, p := range reviewAliases["categories"] {
		arr, ok := lookupAny(raw, p).([]any)
		if !ok {
			continue
		}
		out := make([]domain.CategoryScore, 0, len(arr))
		for _, it := range arr {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			name, _ := m["category"].(string)
			if name == "" {
				name, _ = m["name"].(string)
			}
			score, ok := numberOf(m["rating"])
			if !ok {
				score, ok = numberOf(m["score"])
			}
			if name == "" || !ok {
				continue
			}
			out = append(out, domain.CategoryScore{Category: name, Score: clampRating(score)})
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func clampRating(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func parseSubmitted(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range submittedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

/********** normalizer **********/

// deriveRating picks the direct rating when present, else the 1-decimal mean
// of the category scores, else the neutral default.
func deriveRating(raw map[string]any, cats []domain.CategoryScore) float64 {
	if f, ok := firstFloatAlias(raw, "rating"); ok {
		return clampRating(f)
	}
	if len(cats) > 0 {
		var sum float64
		for _, c := range cats {
			sum += c.Score
		}
		return round1(sum / float64(len(cats)))
	}
	return NeutralRating
}

// NormalizeReview maps one raw channel record to the canonical Review. Pure:
// no I/O, approval joined from the supplied snapshot (absent id => false).
// The channel tag comes from the caller since one call handles one channel.
func NormalizeReview(raw map[string]any, channel string, approvals map[string]bool) domain.Review {
	cats := categoryScores(raw)
	id := reviewID(raw)
	submittedRaw := firstStringAlias(raw, "submitted")
	submitted, _ := parseSubmitted(submittedRaw)

	return domain.Review{
		ID:           id,
		GuestName:    firstStringAlias(raw, "guest"),
		ListingName:  firstStringAlias(raw, "listing"),
		Channel:      channel,
		Rating:       deriveRating(raw, cats),
		Categories:   cats,
		SubmittedAt:  submitted,
		SubmittedRaw: submittedRaw,
		Text:         firstStringAlias(raw, "text"),
		Approved:     approvals[strconv.FormatInt(id, 10)],
	}
}

// NormalizeBatch maps a whole raw batch, preserving input order.
func NormalizeBatch(raws []map[string]any, channel string, approvals map[string]bool) []domain.Review {
	out := make([]domain.Review, 0, len(raws))
	for _, r := range raws {
		out = append(out, NormalizeReview(r, channel, approvals))
	}
	return out
}
