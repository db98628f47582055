package scheduling

import (
	"cmp"
	"slices"
	"time"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/frtext"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

// Entry places one appointment on the week grid. Column is 0 for Monday;
// Lane separates overlapping entries of a row.
type Entry struct {
	Appointment  storage.Appointment `json:"appointment"`
	Column       int                 `json:"column"`
	Span         int                 `json:"span"`
	Lane         int                 `json:"lane"`
	ClippedStart bool                `json:"clippedStart,omitempty"`
	ClippedEnd   bool                `json:"clippedEnd,omitempty"`
}

type Row struct {
	Team    storage.TeamSnapshot `json:"team"`
	Active  bool                 `json:"active"`
	Lanes   int                  `json:"lanes"`
	Entries []Entry              `json:"entries"`
}

type Week struct {
	Start string   `json:"start"`
	Days  []string `json:"days"`
	Rows  []Row    `json:"rows"`
	// Unassigned holds appointments whose team matches no known team.
	Unassigned []Entry `json:"unassigned"`
}

// LayoutWeek builds the team x day grid of the week starting at weekStart.
// Appointments that start before the week but reach into it are clipped to
// the first column.
func LayoutWeek(apps []storage.Appointment, teams []storage.Team, weekStart time.Time) Week {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, time.UTC)

	sorted := slices.Clone(teams)
	slices.SortStableFunc(sorted, func(a, b storage.Team) int {
		if a.Active != b.Active {
			if a.Active {
				return -1
			}
			return 1
		}
		return frtext.Compare(a.Name, b.Name)
	})

	rows := make([]Row, len(sorted))
	byName := make(map[string]int, len(sorted))
	for i, t := range sorted {
		rows[i] = Row{Team: t.Snapshot(), Active: t.Active, Entries: []Entry{}}
		key := frtext.Fold(t.Name)
		if _, dup := byName[key]; !dup {
			byName[key] = i
		}
	}

	week := Week{
		Start:      start.Format(storage.DayLayout),
		Days:       WeekDays(start),
		Unassigned: []Entry{},
	}

	for _, a := range apps {
		e, ok := place(a, start)
		if !ok {
			continue
		}
		if i, found := byName[frtext.Fold(a.Team)]; found {
			rows[i].Entries = append(rows[i].Entries, e)
			continue
		}
		week.Unassigned = append(week.Unassigned, e)
	}

	for i := range rows {
		rows[i].Lanes = assignLanes(rows[i].Entries)
	}
	assignLanes(week.Unassigned)

	week.Rows = rows
	return week
}

func place(a storage.Appointment, weekStart time.Time) (Entry, bool) {
	day, err := time.Parse(storage.DayLayout, a.Date)
	if err != nil {
		return Entry{}, false
	}

	first := int(day.Sub(weekStart).Hours() / 24)
	last := first + ParseDuration(a.Duration).Cells() - 1
	if last < 0 || first > 6 {
		return Entry{}, false
	}

	e := Entry{Appointment: a}
	if first < 0 {
		e.ClippedStart = true
		first = 0
	}
	if last > 6 {
		e.ClippedEnd = true
		last = 6
	}
	e.Column = first
	e.Span = last - first + 1
	return e, true
}

// assignLanes gives each entry the lowest lane free at its first column and
// returns the number of lanes used, at least 1.
func assignLanes(entries []Entry) int {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(a.Column, b.Column); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Span, a.Span); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Appointment.Time, b.Appointment.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Appointment.ID, b.Appointment.ID)
	})

	var laneEnd []int
	for i := range entries {
		e := &entries[i]
		lane := -1
		for l, end := range laneEnd {
			if end < e.Column {
				lane = l
				break
			}
		}
		if lane < 0 {
			lane = len(laneEnd)
			laneEnd = append(laneEnd, 0)
		}
		laneEnd[lane] = e.Column + e.Span - 1
		e.Lane = lane
	}

	return max(1, len(laneEnd))
}

// Indicator is the position of the current-time line.
type Indicator struct {
	Day     string `json:"day"`
	Column  int    `json:"column"`
	Visible bool   `json:"visible"`
	// Position is the fraction of the working day elapsed, 0..1.
	Position float64 `json:"position"`
}

// NowIndicator places now on the grid of the week containing it, in loc,
// for working hours [dayStart, dayEnd).
func NowIndicator(now time.Time, loc *time.Location, dayStart, dayEnd int) Indicator {
	local := now.In(loc)
	ind := Indicator{
		Day:    local.Format(storage.DayLayout),
		Column: (int(local.Weekday()) + 6) % 7,
	}

	if dayEnd <= dayStart {
		return ind
	}

	minutes := local.Hour()*60 + local.Minute()
	from, to := dayStart*60, dayEnd*60
	if minutes < from || minutes >= to {
		return ind
	}

	ind.Visible = true
	ind.Position = float64(minutes-from) / float64(to-from)
	return ind
}
