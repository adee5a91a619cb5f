package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/service"
	servicepkg "habit-tracker/internal/service"
)

type StatsHandler struct {
	stats service.StatsService
	clock Clock
	log   zerolog.Logger
}

func NewStatsHandler(stats service.StatsService, clock Clock, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, clock: clock, log: log}
}

// Get returns the summary for ?today=, or raw stats for ?start=&end=
// @Summary Completion statistics
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param today query string false "Current date YYYY-MM-DD"
// @Param start query string false "Range start YYYY-MM-DD"
// @Param end query string false "Range end YYYY-MM-DD"
// @Success 200 {object} summaryResponse
// @Failure 400 {object} object{error=string,code=string}
// @Router /api/v1/stats [get]
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	if q.Get("start") != "" || q.Get("end") != "" {
		start, err := servicepkg.ParseDate(q.Get("start"))
		if err != nil {
			writeServiceErr(w, h.log, err)
			return
		}
		end, err := servicepkg.ParseDate(q.Get("end"))
		if err != nil {
			writeServiceErr(w, h.log, err)
			return
		}
		stats, err := h.stats.Stats(r.Context(), userID, entity.DateRange{Start: start, End: end})
		if err != nil {
			writeServiceErr(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, toStatsResponse(stats))
		return
	}

	today, err := dateParam(r, "today", h.clock.today())
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	summary, err := h.stats.Summary(r.Context(), userID, today)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}
