package backenddate

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// German and Swiss month names and abbreviations, keyed by folded form.
var monthNames = map[string]time.Month{
	"januar": time.January, "jan": time.January, "jänner": time.January,
	"februar": time.February, "feb": time.February, "feber": time.February,
	"märz": time.March, "mär": time.March, "maerz": time.March,
	"april": time.April, "apr": time.April,
	"mai":  time.May,
	"juni": time.June, "jun": time.June,
	"juli": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November,
	"dezember": time.December, "dez": time.December,
}

// LookupMonth resolves a month name case-insensitively. Decomposed umlauts
// ("März") match their composed spelling.
func LookupMonth(name string) (time.Month, bool) {
	key := cases.Fold().String(norm.NFC.String(name))
	m, ok := monthNames[key]
	return m, ok
}
