package format

import (
	"fmt"
	"strings"

	"github.com/joshuadavidthomas/stravabar/internal/models"
)

// Detail report column layout.
const (
	labelWidth    = 6
	nameWidth     = 20
	distanceWidth = 8
	timeWidth     = 10
	paceWidth     = 6
)

var (
	headingTemplate = fmt.Sprintf("{label:^%d}  {name:^%d} {distance:^%d} {time:^%d} {pace:^%d}",
		labelWidth, nameWidth, distanceWidth, timeWidth, paceWidth)
	rowTemplate = fmt.Sprintf("{label:<%d}: {name:<%d.%d} {distance:>%d,.1f} {time:>%d} {pace:>%d}",
		labelWidth, nameWidth, nameWidth, distanceWidth, timeWidth, paceWidth)
)

// Report renders the multi-line detail view: recent activities, the
// current and previous months, the year and the all-time totals.
func Report(snap *models.ActivitySnapshot) (string, error) {
	if snap == nil {
		return "", nil
	}

	var lines []string

	heading, err := expand(headingTemplate, func(token string) (any, error) {
		switch token {
		case "label":
			return "Date", nil
		case "name":
			return "Title", nil
		case "distance":
			return "km", nil
		case "time":
			return "time", nil
		case "pace":
			return "pace", nil
		}
		return nil, &Error{Kind: ErrFieldNotFound, Token: token}
	})
	if err != nil {
		return "", err
	}
	lines = append(lines, heading)

	add := func(blank bool, datePattern, fixedLabel string, a models.Aggregate) error {
		label := fixedLabel
		if datePattern != "" {
			var err error
			label, err = formatTime("label", a.Date, datePattern)
			if err != nil {
				return err
			}
		}
		line, err := reportRow(label, a)
		if err != nil {
			return err
		}
		if blank {
			lines = append(lines, "")
		}
		lines = append(lines, line)
		return nil
	}

	for _, act := range snap.Children {
		if err := add(false, "%d %b", "", act); err != nil {
			return "", err
		}
	}
	if err := add(true, "%b %y", "", snap.Current); err != nil {
		return "", err
	}
	for _, month := range snap.Previous {
		if err := add(false, "%b %y", "", month); err != nil {
			return "", err
		}
	}
	if err := add(true, "%Y", "", snap.Period); err != nil {
		return "", err
	}
	if err := add(true, "", "TOTAL", snap.AllTime); err != nil {
		return "", err
	}

	return strings.Join(lines, "\n"), nil
}

func reportRow(label string, a models.Aggregate) (string, error) {
	return expand(rowTemplate, func(token string) (any, error) {
		if token == "label" {
			return label, nil
		}
		return Resolve(a, token)
	})
}

// ReportWidth is the display width of every report line.
func ReportWidth() int {
	return labelWidth + 2 + nameWidth + 1 + distanceWidth + 1 + timeWidth + 1 + paceWidth
}
