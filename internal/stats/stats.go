// Package stats computes the per-wing activity counts shown on the
// dashboard chart. The result is a pure function of the activity rows; it
// is never stored.
package stats

import (
	"slices"
	"strconv"

	"github.com/anvaya-club/anvaya/internal/models"
)

// Row is one activity joined with its wing.
type Row struct {
	WingID       int64
	WingName     string
	WingSlug     string
	ActivityDate string // YYYY-MM-DD
}

// Year returns the calendar year of the row's activity date, or 0 when the
// date is malformed.
func (r Row) Year() int {
	if len(r.ActivityDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(r.ActivityDate[:4])
	if err != nil {
		return 0
	}
	return y
}

// Aggregate counts rows per wing.
//
// AvailableYears lists every year present in rows, newest first, regardless
// of year. When year is non-nil only rows of that year are counted and it is
// echoed in FilteredYear. Wings without a counted row are left out.
// Statistics are ordered by count descending; equal counts keep the order in
// which their wing first appears in rows.
func Aggregate(rows []Row, year *int) models.ActivityStatisticsResponse {
	seenYears := make(map[int]struct{})
	years := make([]int, 0)
	index := make(map[int64]int)
	statistics := make([]models.ActivityStatistic, 0)

	for _, row := range rows {
		y := row.Year()
		if y != 0 {
			if _, ok := seenYears[y]; !ok {
				seenYears[y] = struct{}{}
				years = append(years, y)
			}
		}

		if year != nil && y != *year {
			continue
		}

		i, ok := index[row.WingID]
		if !ok {
			i = len(statistics)
			index[row.WingID] = i
			statistics = append(statistics, models.ActivityStatistic{
				WingID:   row.WingID,
				WingName: row.WingName,
				WingSlug: row.WingSlug,
			})
		}
		statistics[i].ActivityCount++
	}

	slices.SortStableFunc(statistics, func(a, b models.ActivityStatistic) int {
		return b.ActivityCount - a.ActivityCount
	})
	slices.SortFunc(years, func(a, b int) int { return b - a })

	var filtered *int
	if year != nil {
		y := *year
		filtered = &y
	}

	return models.ActivityStatisticsResponse{
		Statistics:     statistics,
		AvailableYears: years,
		FilteredYear:   filtered,
	}
}
