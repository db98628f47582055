// Package frtext holds French text helpers: accent-insensitive comparison,
// collation order and month names.
package frtext

import (
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics: "Équipe Été" -> "equipe ete".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Equal compares two strings ignoring case and accents.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Words splits the folded form of s on anything that is not a letter or a
// digit: "Split-Daïkin 2,5kW" -> [split daikin 2 5kw].
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Contains reports whether the words of needle appear in s as a run of
// whole words, ignoring case and accents. "clim" is not in "climatiseur".
func Contains(s, needle string) bool {
	return containsRun(Words(s), Words(needle))
}

func containsRun(words, run []string) bool {
	if len(run) == 0 {
		return false
	}
	for i := 0; i+len(run) <= len(words); i++ {
		if slices.Equal(words[i:i+len(run)], run) {
			return true
		}
	}
	return false
}

// collators are not safe for concurrent use
var collators = sync.Pool{
	New: func() any {
		return collate.New(language.French, collate.IgnoreCase, collate.Loose)
	},
}

// Compare orders strings the way a French dictionary does.
func Compare(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}

var months = [...]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return months[m-1]
}

var weekdays = [...]string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

func WeekdayName(d time.Weekday) string {
	return weekdays[d]
}

// LongDate formats t as "lundi 3 juin 2024".
func LongDate(t time.Time) string {
	return strings.ToLower(WeekdayName(t.Weekday())) + " " +
		strconv.Itoa(t.Day()) + " " + strings.ToLower(MonthName(t.Month())) + " " +
		strconv.Itoa(t.Year())
}
