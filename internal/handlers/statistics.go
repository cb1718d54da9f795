package handlers

import (
	"net/http"

	"github.com/anvaya-club/anvaya/internal/stats"
)

const (
	minStatsYear = 2000
	maxStatsYear = 2100
)

// ActivityStatistics handles GET /api/statistics/activities?year=
func (s *Server) ActivityStatistics(w http.ResponseWriter, r *http.Request) {
	var year *int
	if r.URL.Query().Get("year") != "" {
		y, ok := queryInt(w, r, "year", 0, minStatsYear, maxStatsYear)
		if !ok {
			return
		}
		year = &y
	}

	rows, err := s.Store.StatisticsRows(r.Context())
	if err != nil {
		s.internalError(w, r, "statistics", err)
		return
	}
	respond(w, http.StatusOK, stats.Aggregate(rows, year))
}
