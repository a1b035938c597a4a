// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_hub/internal/app"
	"review_hub/internal/domain"
)

type Handlers struct{ S *app.ReviewService }

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews/{channel}", h.getReviews)
	s.mux.Patch("/v1/reviews/{id}/approval", h.patchApproval)
	s.mux.Get("/v1/stats/{channel}", h.getStats)
	s.mux.Get("/v1/properties/{listing}/reviews", h.getPropertyReviews)
}

// ---- envelopes ----

type fetchEnvelope struct {
	Success bool            `json:"success"`
	Data    []domain.Review `json:"data"`
	Total   int             `json:"total"`
	Source  string          `json:"source"`
	Message string          `json:"message"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type approvalEnvelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ReviewID string `json:"reviewId"`
	Approved bool   `json:"approved"`
}

type statsEnvelope struct {
	Success bool              `json:"success"`
	Data    domain.Statistics `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeValidationError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "validation_error", Message: msg})
}

// writeInternalError hides the fault from the caller; detail goes to the log.
func writeInternalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{Error: "internal_error", Message: "something went wrong"})
}

// ---- query parsing ----

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(s string) (time.Time, bool, bool) {
	for i, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, i == 0, true // second result: date-only form
		}
	}
	return time.Time{}, false, false
}

// parseReviewQuery is lenient: unusable values behave like absent filters,
// matching the "no matching filters => full set" contract.
func parseReviewQuery(r *http.Request) domain.ReviewQuery {
	q := r.URL.Query()
	out := domain.ReviewQuery{
		Search:   q.Get("search"),
		Property: q.Get("property"),
		Status:   q.Get("status"),
		Channel:  q.Get("channel"),
		Sort:     domain.SortOrder(q.Get("sort")),
	}
	if v := q.Get("minRating"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			out.MinRating = n
		}
	}
	if v := q.Get("from"); v != "" {
		if t, _, ok := parseDate(v); ok {
			out.DateFrom = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, dateOnly, ok := parseDate(v); ok {
			if dateOnly {
				// inclusive through the end of the named day
				t = t.Add(24*time.Hour - time.Second)
			}
			out.DateTo = &t
		}
	}
	return out
}

func parseFetchQuery(r *http.Request) (domain.FetchQuery, bool) {
	q := r.URL.Query()
	out := domain.FetchQuery{
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			return out, false
		}
		out.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return out, false
		}
		out.Offset = n
	}
	return out, true
}

// ---- handlers ----

func (h *Handlers) getReviews(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	fq, ok := parseFetchQuery(r)
	if !ok {
		writeValidationError(w, "limit must be 1..500 and offset >= 0")
		return
	}

	res, err := h.S.FetchReviews(r.Context(), channel, fq, parseReviewQuery(r))
	if err != nil {
		writeInternalError(w, err)
		return
	}

	msg := "reviews fetched"
	if res.Source == domain.SourceFallback {
		msg = "channel source unavailable, served fallback dataset"
	}
	writeJSON(w, http.StatusOK, fetchEnvelope{
		Success: true,
		Data:    res.Reviews,
		Total:   res.Total,
		Source:  res.Source,
		Message: msg,
	})
}

func (h *Handlers) patchApproval(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, "request body must be JSON")
		return
	}
	// strictly boolean: "true"/"yes"/1 are rejected
	approved, ok := body["approved"].(bool)
	if !ok {
		writeValidationError(w, "approved must be a boolean")
		return
	}

	if err := h.S.SetApproval(r.Context(), id, approved); err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, approvalEnvelope{
		Success:  true,
		Message:  "approval updated",
		ReviewID: id,
		Approved: approved,
	})
}

func (h *Handlers) getStats(w http.ResponseWriter, r *http.Request) {
	stats, _, err := h.S.Statistics(r.Context(), chi.URLParam(r, "channel"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsEnvelope{Success: true, Data: stats})
}

func (h *Handlers) getPropertyReviews(w http.ResponseWriter, r *http.Request) {
	listing := chi.URLParam(r, "listing")
	channel := r.URL.Query().Get("channel")
	if channel == "" {
		channel = "hostaway"
	}
	approvedOnly := r.URL.Query().Get("approved_only") == "true"

	res, err := h.S.PropertyReviews(r.Context(), channel, listing, approvedOnly)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fetchEnvelope{
		Success: true,
		Data:    res.Reviews,
		Total:   res.Total,
		Source:  res.Source,
		Message: "reviews fetched",
	})
}
