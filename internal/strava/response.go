package strava

import "time"

// Athlete is the subset of GET /athlete the widget needs.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// DisplayName prefers the athlete's full name.
func (a Athlete) DisplayName() string {
	switch {
	case a.Firstname != "" && a.Lastname != "":
		return a.Firstname + " " + a.Lastname
	case a.Firstname != "":
		return a.Firstname
	}
	return a.Username
}

// Totals is an ActivityTotal from the stats endpoint. Distances are in
// metres and times in seconds.
type Totals struct {
	Count         int     `json:"count"`
	Distance      float64 `json:"distance"`
	MovingTime    int64   `json:"moving_time"`
	ElapsedTime   int64   `json:"elapsed_time"`
	ElevationGain float64 `json:"elevation_gain"`
}

// Stats is GET /athletes/{id}/stats.
type Stats struct {
	YTDRunTotals  Totals `json:"ytd_run_totals"`
	AllRunTotals  Totals `json:"all_run_totals"`
	YTDRideTotals Totals `json:"ytd_ride_totals"`
	AllRideTotals Totals `json:"all_ride_totals"`
	YTDSwimTotals Totals `json:"ytd_swim_totals"`
	AllSwimTotals Totals `json:"all_swim_totals"`
}

// For returns the year-to-date and all-time totals for sport.
func (s Stats) For(sport string) (ytd, all Totals) {
	switch sport {
	case "ride":
		return s.YTDRideTotals, s.AllRideTotals
	case "swim":
		return s.YTDSwimTotals, s.AllSwimTotals
	}
	return s.YTDRunTotals, s.AllRunTotals
}

// Activity is a SummaryActivity from GET /athlete/activities.
type Activity struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	SportType      string    `json:"sport_type"`
	StartDate      time.Time `json:"start_date"`
	StartDateLocal time.Time `json:"start_date_local"`
	Distance       float64   `json:"distance"`
	MovingTime     int64     `json:"moving_time"`
	ElapsedTime    int64     `json:"elapsed_time"`
}

// Kind is the sport type, falling back to the legacy type field.
func (a Activity) Kind() string {
	if a.SportType != "" {
		return a.SportType
	}
	return a.Type
}
