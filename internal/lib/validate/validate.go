package validate

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"
)

// Violations maps a field path to a violation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Err returns v as an error, or nil when there is nothing to report.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return v
}

// Merge copies other into v, prefixing each field.
func (v Violations) Merge(prefix string, other Violations) {
	for f, code := range other {
		if prefix != "" {
			f = prefix + "." + f
		}
		v[f] = code
	}
}

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// OneOf accepts an empty value; combine with Required when it is mandatory.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" {
		return
	}
	if !slices.Contains(allowed, value) {
		v[field] = "invalid_value"
	}
}

func Day(field, value string, v Violations) {
	if value == "" {
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		v[field] = "invalid_date"
	}
}

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func Clock(field, value string, v Violations) {
	if value == "" {
		return
	}
	if !clockRe.MatchString(value) {
		v[field] = "invalid_time"
	}
}

func NonNegative(field string, val int, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func Positive(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	if !emailRe.MatchString(value) {
		v[field] = "invalid_email"
	}
}

// DayOrder reports end before start. Invalid days are left to Day.
func DayOrder(field, start, end string, v Violations) {
	s, err1 := time.Parse("2006-01-02", start)
	e, err2 := time.Parse("2006-01-02", end)
	if err1 != nil || err2 != nil {
		return
	}
	if e.Before(s) {
		v[field] = "before_start"
	}
}
