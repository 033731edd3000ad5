package strava

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joshuadavidthomas/stravabar/internal/models"
)

// sportTypes lists the Strava sport types counted for each configured sport.
var sportTypes = map[string][]string{
	"run":  {"Run", "TrailRun", "VirtualRun"},
	"ride": {"Ride", "MountainBikeRide", "GravelRide", "EBikeRide", "EMountainBikeRide", "VirtualRide", "Velomobile"},
	"swim": {"Swim"},
}

// Matches reports whether a counts towards sport.
func Matches(sport string, a Activity) bool {
	for _, t := range sportTypes[sport] {
		if a.Kind() == t {
			return true
		}
	}
	return false
}

// Label names an aggregate of n activities, e.g. "6 Runs" or "1 Swim".
func Label(sport string, n int) string {
	noun := cases.Title(language.English).String(sport)
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// Build assembles a snapshot from the API responses. now fixes the
// current month; activities of other sports and activities outside the
// window of recentMonths previous months are ignored.
func Build(now time.Time, sport string, athlete Athlete, stats Stats, acts []Activity, recentMonths int) *models.ActivitySnapshot {
	current := models.MonthStart(now)

	months := make([]models.Aggregate, recentMonths+1)
	for i := range months {
		months[i].Date = current.AddDate(0, -i, 0)
	}

	var children []models.Aggregate
	for _, a := range acts {
		if !Matches(sport, a) {
			continue
		}
		i := monthsBetween(a.StartDateLocal, current)
		if i < 0 || i > recentMonths {
			continue
		}
		km := models.MetresToKm(a.Distance)
		moving := seconds(a.MovingTime)

		m := &months[i]
		m.Count++
		m.Distance += km
		m.Elapsed += moving

		if i == 0 {
			children = append(children, models.Aggregate{
				Name:     a.Name,
				Date:     wallClock(a.StartDateLocal, now.Location()),
				Distance: km,
				Count:    1,
				Elapsed:  moving,
			})
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Date.After(children[j].Date)
	})
	for i := range months {
		months[i].Name = Label(sport, months[i].Count)
	}

	ytd, all := stats.For(sport)
	return &models.ActivitySnapshot{
		Athlete:   athlete.DisplayName(),
		Sport:     sport,
		FetchedAt: now,
		Current:   months[0],
		Period:    totalsAggregate(sport, ytd, models.YearStart(now)),
		AllTime:   totalsAggregate(sport, all, time.Time{}),
		Children:  children,
		Previous:  months[1:],
	}
}

func totalsAggregate(sport string, t Totals, date time.Time) models.Aggregate {
	return models.Aggregate{
		Name:     Label(sport, t.Count),
		Date:     date,
		Distance: models.MetresToKm(t.Distance),
		Count:    t.Count,
		Elapsed:  seconds(t.MovingTime),
	}
}

// monthsBetween counts whole calendar months from t's month back to
// current; negative when t is in a later month.
func monthsBetween(t, current time.Time) int {
	return (current.Year()-t.Year())*12 + int(current.Month()) - int(t.Month())
}

// wallClock reinterprets a start_date_local value, which Strava encodes
// with a Z suffix, as wall time in loc.
func wallClock(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

func seconds(s int64) time.Duration { return time.Duration(s) * time.Second }
