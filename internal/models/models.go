package models

import (
	"fmt"
	"math"
	"time"
)

// Aggregate is a named summary of one or more activities: a single
// activity, a month, the year to date or the all-time totals.
type Aggregate struct {
	Name     string        `json:"name" yaml:"name"`
	Date     time.Time     `json:"date" yaml:"date"`
	Distance float64       `json:"distance_km" yaml:"distance_km"`
	Count    int           `json:"count" yaml:"count"`
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Pace returns the moving time per kilometre, or zero when no distance
// has been covered.
func (a Aggregate) Pace() time.Duration {
	if a.Distance <= 0 {
		return 0
	}
	return time.Duration(float64(a.Elapsed) / a.Distance)
}

// FormatTime renders the elapsed time as H:MM:SS.
func (a Aggregate) FormatTime() string {
	return FormatClock(a.Elapsed)
}

// FormatPace renders the pace per kilometre as M:SS.
func (a Aggregate) FormatPace() string {
	p := a.Pace()
	if p <= 0 {
		return "-:--"
	}
	total := int(math.Round(p.Seconds()))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Field implements format.Fielder.
func (a Aggregate) Field(name string) (any, bool) {
	switch name {
	case "name":
		return a.Name, true
	case "date":
		return a.Date, true
	case "distance":
		return a.Distance, true
	case "count":
		return a.Count, true
	case "elapsed":
		return a.Elapsed, true
	case "time":
		return a.FormatTime(), true
	case "pace":
		return a.FormatPace(), true
	}
	return nil, false
}

// ActivitySnapshot is the result of one successful fetch. A snapshot is
// never modified after it is built; a new fetch produces a new value.
type ActivitySnapshot struct {
	Athlete   string      `json:"athlete,omitempty" yaml:"athlete,omitempty"`
	Sport     string      `json:"sport" yaml:"sport"`
	FetchedAt time.Time   `json:"fetched_at" yaml:"fetched_at"`
	Current   Aggregate   `json:"current" yaml:"current"`
	Period    Aggregate   `json:"period" yaml:"period"`
	AllTime   Aggregate   `json:"alltime" yaml:"alltime"`
	Children  []Aggregate `json:"children" yaml:"children"`
	Previous  []Aggregate `json:"previous" yaml:"previous"`
}

// Field implements format.Fielder for the three headline aggregates.
func (s *ActivitySnapshot) Field(name string) (any, bool) {
	switch name {
	case "current":
		return s.Current, true
	case "period", "year":
		return s.Period, true
	case "alltime":
		return s.AllTime, true
	}
	return nil, false
}

// IsStale reports whether the snapshot is older than maxAge.
func (s *ActivitySnapshot) IsStale(maxAge time.Duration) bool {
	return time.Since(s.FetchedAt) > maxAge
}

// FormatClock renders d as H:MM:SS, rounding to the nearest second.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(math.Round(d.Seconds()))
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
