// Package backenddate converts regional date strings into the legacy
// "\/Date(<epoch-ms>)\/" wire format expected by the sales-order backend.
package backenddate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	minYear = 1900
	maxYear = 2100

	summerOffset = 2 * time.Hour
	winterOffset = 1 * time.Hour
)

var (
	writtenMonthPattern = regexp.MustCompile(`^(\d{1,2})\.?[\s\p{Zs}]+([\p{L}\p{M}]+)[\s\p{Zs}]+(\d{2,4})$`)
	yearFirstPattern    = regexp.MustCompile(`^(\d{4})[./-](\d{1,2})[./-](\d{1,2})$`)

	separators = strings.NewReplacer("/", ".", "-", ".")
)

// Date is a calendar date without time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Parse reads a date written as "21. Oktober 2025", "2025-10-21" or
// "21.10.2025" (also with / or - separators and two-digit years). Two-digit
// years are always in the 2000s. It reports false for anything that is not
// a real calendar date between 1900 and 2100.
func Parse(input string) (Date, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Date{}, false
	}

	var day, month, year int
	if m := writtenMonthPattern.FindStringSubmatch(s); m != nil {
		mon, ok := LookupMonth(m[2])
		if !ok {
			return Date{}, false
		}
		day, _ = strconv.Atoi(m[1])
		month = int(mon)
		year, _ = strconv.Atoi(m[3])
	} else if m := yearFirstPattern.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	} else {
		parts := strings.Split(separators.Replace(s), ".")
		if len(parts) != 3 {
			return Date{}, false
		}
		var ok bool
		if day, ok = leadingInt(parts[0]); !ok {
			return Date{}, false
		}
		if month, ok = leadingInt(parts[1]); !ok {
			return Date{}, false
		}
		if year, ok = leadingInt(parts[2]); !ok {
			return Date{}, false
		}
	}

	if year >= 0 && year < 100 {
		year += 2000
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year < minYear || year > maxYear {
		return Date{}, false
	}

	// time.Date normalizes overflow, so Feb 30 comes back as March 2.
	t := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, true
}

// Instant returns the moment sent to the backend for d: UTC noon shifted
// by the central European offset in effect on that day.
func (d Date) Instant() time.Time {
	noon := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
	if IsSummerTime(noon) {
		return noon.Add(summerOffset)
	}
	return noon.Add(winterOffset)
}

// ToBackendDate converts input to "\/Date(<epoch-ms>)\/". It returns "" for
// empty or invalid input; callers treat "" as no date.
func ToBackendDate(input string) string {
	d, ok := Parse(input)
	if !ok {
		return ""
	}
	return Format(d.Instant())
}

// Format renders t in the backend wire format.
func Format(t time.Time) string {
	return `\/Date(` + strconv.FormatInt(t.UnixMilli(), 10) + `)\/`
}

// IsSummerTime reports whether t falls between the last Sunday of March and
// the last Sunday of October, both at 02:00 UTC, start inclusive.
func IsSummerTime(t time.Time) bool {
	t = t.UTC()
	start := LastSunday(t.Year(), time.March)
	end := LastSunday(t.Year(), time.October)
	return !t.Before(start) && t.Before(end)
}

// LastSunday returns 02:00 UTC on the last Sunday of the given month.
func LastSunday(year int, month time.Month) time.Time {
	last := time.Date(year, month+1, 0, 2, 0, 0, 0, time.UTC)
	return last.AddDate(0, 0, -int(last.Weekday()))
}

// leadingInt parses the integer prefix of s, allowing leading whitespace
// and a sign. Trailing garbage is ignored.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
