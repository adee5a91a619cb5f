package entity

import (
	"math"
	"time"
)

// DateRange is a closed range of calendar days
type DateRange struct {
	Start time.Time
	End   time.Time
}

// SingleDay returns the range [d, d]
func SingleDay(d time.Time) DateRange {
	d = Date(d)
	return DateRange{Start: d, End: d}
}

// Days returns every date in the range in ascending order
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := Date(r.Start); !d.After(Date(r.End)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Stats is a completion count over a date range
type Stats struct {
	Total      int
	Completed  int
	Percentage float64
}

// NewStats computes the completion percentage, 0 for an empty range
func NewStats(total, completed int) Stats {
	s := Stats{Total: total, Completed: completed}
	if total > 0 {
		s.Percentage = float64(completed) / float64(total) * 100
	}
	return s
}

// Rounded returns a copy with the percentage rounded to one decimal
func (s Stats) Rounded() Stats {
	s.Percentage = math.Round(s.Percentage*10) / 10
	return s
}

// DayStats is the single-day form of Stats
type DayStats struct {
	Date time.Time
	Stats
}

// Summary bundles the statistics views for one current date
type Summary struct {
	Today     Stats
	Week      Stats
	Month     Stats
	Last7Days []DayStats
}
