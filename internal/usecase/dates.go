package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"cv-generator/internal/domain"
)

// Sections that are never date-filtered regardless of the template window.
// These describe standing status rather than windowed activity.
var dateFilterExempt = map[string]bool{
	"leave of absence":             true,
	"employment record":            true,
	"continuing education":         true,
	"continuing medical education": true,
	"dissertations":                true,
	"post-secondary education":     true,
}

// Attribute display names checked, in order, when extracting an end year.
var (
	yearAttributes = []string{"year published", "year"}
	dateAttributes = []string{"dates", "date"}
)

// Tokens that mean the record extends to the present day.
var openEndedTokens = []string{"current", "present", "ongoing"}

// Range separators, tried in order; spaced variants first so hyphenated
// values ("2019-2021") only split when no spaced separator matched.
var rangeSeparators = []string{" - ", " – ", " — ", " to ", "-", "–", "—"}

var fourDigitYear = regexp.MustCompile(`\d{4}`)
var twoDigitYear = regexp.MustCompile(`\d{2}`)

// Month names in a fixed scan order so ambiguous values resolve the same
// way on every run. Full names come before abbreviations.
var monthNames = []struct {
	name string
	num  int
}{
	{"january", 1}, {"february", 2}, {"march", 3}, {"april", 4},
	{"may", 5}, {"june", 6}, {"july", 7}, {"august", 8},
	{"september", 9}, {"october", 10}, {"november", 11}, {"december", 12},
	{"jan", 1}, {"feb", 2}, {"mar", 3}, {"apr", 4},
	{"jun", 6}, {"jul", 7}, {"aug", 8},
	{"sept", 9}, {"sep", 9}, {"oct", 10}, {"nov", 11}, {"dec", 12},
}

// dateValue finds the record's date-like value for a list of candidate
// attribute display names, resolving display names through the section's
// attribute map.
func dateValue(section domain.Section, rec domain.CVDataRecord, names []string) (string, bool) {
	for _, name := range names {
		if key, ok := section.Key(name); ok {
			if v := rec.Value(key); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// endSegment splits a date-like value on the first matching separator and
// returns the final segment, or the whole value when no separator matches.
func endSegment(v string) string {
	for _, sep := range rangeSeparators {
		if strings.Contains(v, sep) {
			parts := strings.Split(v, sep)
			return strings.TrimSpace(parts[len(parts)-1])
		}
	}
	return strings.TrimSpace(v)
}

// ExtractEndYear derives the calendar year a record ends in, for filtering
// and sorting. The steps and their order are load-bearing:
//  1. a direct year attribute: last 4-digit run in the value (the value may
//     itself be a range);
//  2. a dates attribute containing an open-ended token: today's year;
//  3. the final range segment: a 4-digit year, else a 2-digit year mapped
//     to the 2000s when ≤30 and the 1900s otherwise.
//
// When nothing matches the record reports no year and is included
// (fail-open) by the window filter.
func ExtractEndYear(section domain.Section, rec domain.CVDataRecord, now time.Time) (int, bool) {
	if v, ok := dateValue(section, rec, yearAttributes); ok {
		runs := fourDigitYear.FindAllString(v, -1)
		if len(runs) > 0 {
			y, _ := strconv.Atoi(runs[len(runs)-1])
			return y, true
		}
		return 0, false
	}

	v, ok := dateValue(section, rec, dateAttributes)
	if !ok {
		return 0, false
	}

	lower := strings.ToLower(v)
	for _, tok := range openEndedTokens {
		if strings.Contains(lower, tok) {
			return now.Year(), true
		}
	}

	seg := endSegment(v)
	if m := fourDigitYear.FindAllString(seg, -1); len(m) > 0 {
		y, _ := strconv.Atoi(m[len(m)-1])
		return y, true
	}
	if m := twoDigitYear.FindString(seg); m != "" {
		y, _ := strconv.Atoi(m)
		if y <= 30 {
			return 2000 + y, true
		}
		return 1900 + y, true
	}
	return 0, false
}

// extractEndMonth finds a month name in the final segment of the record's
// date value, falling back to the whole value; used only as a sort
// tie-break within a year.
func extractEndMonth(section domain.Section, rec domain.CVDataRecord) (int, bool) {
	v, ok := dateValue(section, rec, dateAttributes)
	if !ok {
		return 0, false
	}
	for _, candidate := range []string{endSegment(v), v} {
		lower := strings.ToLower(candidate)
		for _, m := range monthNames {
			if containsWord(lower, m.name) {
				return m.num, true
			}
		}
	}
	return 0, false
}

// containsWord reports whether s contains w as a whole word, so "may" does
// not match inside "Maynard".
func containsWord(s, w string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], w)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isLetter(s[i-1])
		afterIdx := i + len(w)
		after := afterIdx >= len(s) || !isLetter(s[afterIdx])
		if before && after {
			return true
		}
		idx = i + len(w)
		if idx >= len(s) {
			return false
		}
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// FilterDateRange drops records whose extracted end year falls outside the
// template window. Exempt sections are never filtered; records with no
// extractable year are always kept (fail-open — a CV row must not vanish
// because its date did not parse). Idempotent by construction.
func FilterDateRange(section domain.Section, records []domain.CVDataRecord, startYear, endYear *int, now time.Time) []domain.CVDataRecord {
	if dateFilterExempt[strings.ToLower(section.Title)] {
		return records
	}
	if startYear == nil && endYear == nil {
		return records
	}
	out := make([]domain.CVDataRecord, 0, len(records))
	for _, rec := range records {
		year, ok := ExtractEndYear(section, rec, now)
		if !ok {
			out = append(out, rec)
			continue
		}
		if startYear != nil && year < *startYear {
			continue
		}
		if endYear != nil && year > *endYear {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// SortByEndYear orders records chronologically by extracted end year,
// tie-broken by month when both records expose one; direction follows
// ascending for both comparisons. Records with no extractable year sort
// after all dated records, keeping their input order.
func SortByEndYear(section domain.Section, records []domain.CVDataRecord, ascending bool, now time.Time) []domain.CVDataRecord {
	type keyed struct {
		rec     domain.CVDataRecord
		year    int
		hasYear bool
		month   int
		hasMon  bool
	}
	keys := make([]keyed, len(records))
	for i, rec := range records {
		y, okY := ExtractEndYear(section, rec, now)
		m, okM := extractEndMonth(section, rec)
		keys[i] = keyed{rec: rec, year: y, hasYear: okY, month: m, hasMon: okM}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.hasYear != b.hasYear {
			return a.hasYear // undated records go last either direction
		}
		if !a.hasYear {
			return false
		}
		if a.year != b.year {
			if ascending {
				return a.year < b.year
			}
			return a.year > b.year
		}
		if a.hasMon && b.hasMon && a.month != b.month {
			if ascending {
				return a.month < b.month
			}
			return a.month > b.month
		}
		return false
	})
	out := make([]domain.CVDataRecord, len(keys))
	for i, k := range keys {
		out[i] = k.rec
	}
	return out
}
