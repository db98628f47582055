package scheduling

import (
	"time"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/frtext"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

// CellAppointments returns the appointments of one calendar cell: the date
// must equal day exactly, the team name is compared without case or accents.
func CellAppointments(apps []storage.Appointment, team, day string) []storage.Appointment {
	var out []storage.Appointment
	for _, a := range apps {
		if a.Date == day && frtext.Equal(a.Team, team) {
			out = append(out, a)
		}
	}
	return out
}

func ByTeam(apps []storage.Appointment, team string) []storage.Appointment {
	var out []storage.Appointment
	for _, a := range apps {
		if frtext.Equal(a.Team, team) {
			out = append(out, a)
		}
	}
	return out
}

func ByStatus(apps []storage.Appointment, statuses ...string) []storage.Appointment {
	var out []storage.Appointment
	for _, a := range apps {
		for _, s := range statuses {
			if a.Status == s {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// InWeek keeps appointments dated within the 7 days starting at weekStart.
func InWeek(apps []storage.Appointment, weekStart time.Time) []storage.Appointment {
	days := make(map[string]bool, 7)
	for _, d := range WeekDays(weekStart) {
		days[d] = true
	}

	var out []storage.Appointment
	for _, a := range apps {
		if days[a.Date] {
			out = append(out, a)
		}
	}
	return out
}

// WeekStart returns the Monday of t's week at midnight, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// WeekDays lists the 7 days of the week starting at weekStart.
func WeekDays(weekStart time.Time) []string {
	days := make([]string, 7)
	for i := range days {
		days[i] = weekStart.AddDate(0, 0, i).Format(storage.DayLayout)
	}
	return days
}
