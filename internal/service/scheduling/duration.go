package scheduling

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/frtext"
)

// WorkdayMinutes is the length of one calendar cell.
const WorkdayMinutes = 8 * 60

var (
	daysRe    = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:jours?|j)\b`)
	halfDayRe = regexp.MustCompile(`demi[- ]?journee`)
	hoursRe   = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:heures?|h)(?:\s*(\d{1,2}))?\b`)
	minutesRe = regexp.MustCompile(`(\d+)\s*(?:minutes?|min|mn)\b`)
)

// Duration is a parsed free-text appointment duration.
type Duration struct {
	Days    int
	Minutes int
	// Known is false when the text matched nothing.
	Known bool
}

// ParseDuration reads texts such as "2 jours", "4h", "1h30", "90 min" or
// "demi-journée".
func ParseDuration(s string) Duration {
	text := frtext.Fold(s)

	if m := daysRe.FindStringSubmatch(text); m != nil {
		days := int(math.Ceil(parseNumber(m[1])))
		if days > 0 {
			return Duration{Days: days, Known: true}
		}
	}

	if halfDayRe.MatchString(text) {
		return Duration{Minutes: WorkdayMinutes / 2, Known: true}
	}

	total := 0
	if m := hoursRe.FindStringSubmatch(text); m != nil {
		total = int(math.Round(parseNumber(m[1]) * 60))
		if m[2] != "" {
			mm, _ := strconv.Atoi(m[2])
			total += mm
		}
	} else if m := minutesRe.FindStringSubmatch(text); m != nil {
		total, _ = strconv.Atoi(m[1])
	}

	if total > 0 {
		return Duration{Minutes: total, Known: true}
	}
	return Duration{}
}

// Cells is the number of day cells the duration covers: days as given,
// hours rounded up to whole workdays, at least one.
func (d Duration) Cells() int {
	switch {
	case d.Days > 0:
		return d.Days
	case d.Minutes > 0:
		return max(1, (d.Minutes+WorkdayMinutes-1)/WorkdayMinutes)
	default:
		return 1
	}
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return f
}
