package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-generator/internal/domain"
)

var testNow = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func yearSection() domain.Section {
	return domain.Section{
		ID:    "pub",
		Title: "Publications",
		Attributes: map[string]string{
			"Title":          "title",
			"Author Names":   "author_names",
			"Year Published": "year_published",
			"DOI":            "doi",
		},
	}
}

func dateSection(title string) domain.Section {
	return domain.Section{
		ID:    "sec",
		Title: title,
		Attributes: map[string]string{
			"Position": "position",
			"Dates":    "dates",
		},
	}
}

func rec(sectionID string, details map[string]any) domain.CVDataRecord {
	return domain.CVDataRecord{SectionID: sectionID, Details: details}
}

func TestExtractEndYearFromYearAttribute(t *testing.T) {
	s := yearSection()
	y, ok := ExtractEndYear(s, rec("pub", map[string]any{"year_published": "2019"}), testNow)
	require.True(t, ok)
	assert.Equal(t, 2019, y)

	// a value already containing a range takes the last 4-digit run
	y, ok = ExtractEndYear(s, rec("pub", map[string]any{"year_published": "2017-2021"}), testNow)
	require.True(t, ok)
	assert.Equal(t, 2021, y)
}

func TestExtractEndYearCurrentMeansToday(t *testing.T) {
	s := dateSection("Employment Record")
	for _, v := range []string{"January, 2010 - Current", "2015 - present", "Ongoing"} {
		y, ok := ExtractEndYear(s, rec("sec", map[string]any{"dates": v}), testNow)
		require.True(t, ok, v)
		assert.Equal(t, testNow.Year(), y, v)
	}
}

func TestExtractEndYearRangeSeparators(t *testing.T) {
	s := dateSection("Service")
	cases := map[string]int{
		"2012 - 2016":               2016,
		"2012 to 2016":              2016,
		"2012-2016":                 2016,
		"May 2011 – June 2013":      2013,
		"September 2008":            2008,
		"January, 2010 - May, 2014": 2014,
	}
	for v, want := range cases {
		y, ok := ExtractEndYear(s, rec("sec", map[string]any{"dates": v}), testNow)
		require.True(t, ok, v)
		assert.Equal(t, want, y, v)
	}
}

func TestExtractEndYearTwoDigitMapping(t *testing.T) {
	s := dateSection("Service")
	y, ok := ExtractEndYear(s, rec("sec", map[string]any{"dates": "Jan '09"}), testNow)
	require.True(t, ok)
	assert.Equal(t, 2009, y)

	y, ok = ExtractEndYear(s, rec("sec", map[string]any{"dates": "Jan '98"}), testNow)
	require.True(t, ok)
	assert.Equal(t, 1998, y)
}

func TestExtractEndYearFailOpen(t *testing.T) {
	s := dateSection("Service")
	_, ok := ExtractEndYear(s, rec("sec", map[string]any{"dates": "Winter term"}), testNow)
	assert.False(t, ok)

	_, ok = ExtractEndYear(s, rec("sec", map[string]any{"position": "Chair"}), testNow)
	assert.False(t, ok)
}

func intp(v int) *int { return &v }

func TestFilterDateRangeWindow(t *testing.T) {
	s := yearSection()
	records := []domain.CVDataRecord{
		rec("pub", map[string]any{"title": "a", "year_published": "2015"}),
		rec("pub", map[string]any{"title": "b", "year_published": "2019"}),
		rec("pub", map[string]any{"title": "c", "year_published": "2021"}),
	}
	got := FilterDateRange(s, records, intp(2018), intp(2022), testNow)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Value("title"))
	assert.Equal(t, "c", got[1].Value("title"))
}

func TestFilterDateRangeUnboundedSides(t *testing.T) {
	s := yearSection()
	records := []domain.CVDataRecord{
		rec("pub", map[string]any{"year_published": "2015"}),
		rec("pub", map[string]any{"year_published": "2021"}),
	}
	assert.Len(t, FilterDateRange(s, records, nil, intp(2016), testNow), 1)
	assert.Len(t, FilterDateRange(s, records, intp(2016), nil, testNow), 1)
	assert.Len(t, FilterDateRange(s, records, nil, nil, testNow), 2)
}

func TestFilterDateRangeFailOpenKeepsUnparseable(t *testing.T) {
	s := dateSection("Service")
	records := []domain.CVDataRecord{
		rec("sec", map[string]any{"dates": "no date here at all"}),
	}
	got := FilterDateRange(s, records, intp(2018), intp(2020), testNow)
	assert.Len(t, got, 1)
}

func TestFilterDateRangeExemptSection(t *testing.T) {
	// scenario: Employment Record is exempt; a 2010 record survives a
	// 2015-2020 window
	s := dateSection("Employment Record")
	records := []domain.CVDataRecord{
		rec("sec", map[string]any{"dates": "January, 2010 - Current"}),
	}
	got := FilterDateRange(s, records, intp(2015), intp(2020), testNow)
	assert.Len(t, got, 1)
}

func TestFilterDateRangeIdempotent(t *testing.T) {
	s := yearSection()
	records := []domain.CVDataRecord{
		rec("pub", map[string]any{"year_published": "2015"}),
		rec("pub", map[string]any{"year_published": "2019"}),
		rec("pub", map[string]any{"year_published": "2021"}),
	}
	once := FilterDateRange(s, records, intp(2018), intp(2022), testNow)
	twice := FilterDateRange(s, once, intp(2018), intp(2022), testNow)
	assert.Equal(t, once, twice)
}

func TestSortByEndYearAscendingAndDescending(t *testing.T) {
	s := yearSection()
	records := []domain.CVDataRecord{
		rec("pub", map[string]any{"year_published": "2021"}),
		rec("pub", map[string]any{"year_published": "2015"}),
		rec("pub", map[string]any{"year_published": "2019"}),
	}
	asc := SortByEndYear(s, records, true, testNow)
	years := func(rs []domain.CVDataRecord) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Value("year_published"))
		}
		return out
	}
	assert.Equal(t, []string{"2015", "2019", "2021"}, years(asc))

	desc := SortByEndYear(s, records, false, testNow)
	assert.Equal(t, []string{"2021", "2019", "2015"}, years(desc))
}

func TestSortByEndYearMonthTieBreak(t *testing.T) {
	s := dateSection("Service")
	records := []domain.CVDataRecord{
		rec("sec", map[string]any{"position": "b", "dates": "November 2019"}),
		rec("sec", map[string]any{"position": "a", "dates": "March 2019"}),
	}
	asc := SortByEndYear(s, records, true, testNow)
	assert.Equal(t, "a", asc[0].Value("position"))
	assert.Equal(t, "b", asc[1].Value("position"))

	desc := SortByEndYear(s, records, false, testNow)
	assert.Equal(t, "b", desc[0].Value("position"))
}

func TestSortByEndYearMixedMonthFallsBackToYear(t *testing.T) {
	// when only one record exposes a month, order falls back to year only
	// (stable, so input order within equal years is kept)
	s := dateSection("Service")
	records := []domain.CVDataRecord{
		rec("sec", map[string]any{"position": "x", "dates": "2019"}),
		rec("sec", map[string]any{"position": "y", "dates": "March 2019"}),
	}
	got := SortByEndYear(s, records, true, testNow)
	assert.Equal(t, "x", got[0].Value("position"))
	assert.Equal(t, "y", got[1].Value("position"))
}

func TestExtractEndMonthDeterministicOnAmbiguousValue(t *testing.T) {
	// two month words in one candidate string must resolve the same way on
	// every call, not by map iteration luck
	s := dateSection("Service")
	r := rec("sec", map[string]any{"dates": "December/January 2020"})
	first, ok := extractEndMonth(s, r)
	require.True(t, ok)
	assert.Equal(t, 1, first)
	for i := 0; i < 50; i++ {
		m, ok := extractEndMonth(s, r)
		require.True(t, ok)
		assert.Equal(t, first, m)
	}
}

func TestSortByEndYearUndatedSortLast(t *testing.T) {
	s := dateSection("Service")
	records := []domain.CVDataRecord{
		rec("sec", map[string]any{"position": "u1", "dates": "sometime"}),
		rec("sec", map[string]any{"position": "d", "dates": "2018"}),
		rec("sec", map[string]any{"position": "u2", "dates": "another time"}),
	}
	for _, asc := range []bool{true, false} {
		got := SortByEndYear(s, records, asc, testNow)
		assert.Equal(t, "d", got[0].Value("position"))
		assert.Equal(t, "u1", got[1].Value("position"))
		assert.Equal(t, "u2", got[2].Value("position"))
	}
}
