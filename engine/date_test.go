package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/deploy-engine/engine"
)

// =============================================================================
// DATE PARSING AND FORMATTING
// =============================================================================

func TestParseDate_RoundTrip(t *testing.T) {
	d, err := engine.ParseDate("2025-07-14")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-14", d.String())
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, 14, d.Day())
}

func TestParseDate_Malformed(t *testing.T) {
	for _, s := range []string{"", "2025-13-01", "07/14/2025", "2025-07-14T00:00:00Z"} {
		_, err := engine.ParseDate(s)
		assert.ErrorIs(t, err, engine.ErrInvalidDate, "input %q", s)
		assert.True(t, engine.IsClientError(err))
	}
}

func TestDate_JSON(t *testing.T) {
	d := engine.MustDate("2025-07-14")

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-07-14"`, string(b))

	var back engine.Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d))
}

func TestDate_JSON_EmptyAndNull(t *testing.T) {
	var d engine.Date
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	b, err := json.Marshal(engine.Date{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(b))
}

// =============================================================================
// ARITHMETIC AND RANGES
// =============================================================================

func TestDaysBetween(t *testing.T) {
	a := engine.MustDate("2025-01-01")
	b := engine.MustDate("2025-01-20")

	assert.Equal(t, 19, engine.DaysBetween(a, b))
	assert.Equal(t, -19, engine.DaysBetween(b, a))
	assert.Equal(t, 0, engine.DaysBetween(a, a))
}

func TestDaysBetween_AcrossDSTDates(t *testing.T) {
	// Dates are UTC midnights, so spring-forward days must not shorten spans.
	a := engine.MustDate("2025-03-01")
	b := engine.MustDate("2025-04-01")
	assert.Equal(t, 31, engine.DaysBetween(a, b))
}

func TestDateRange_DayCount(t *testing.T) {
	r := engine.DateRange{Start: engine.MustDate("2025-01-01"), End: engine.MustDate("2025-01-15")}
	assert.Equal(t, 15, r.DayCount(), "ranges are inclusive of both endpoints")

	inverted := engine.DateRange{Start: engine.MustDate("2025-01-15"), End: engine.MustDate("2025-01-01")}
	assert.Equal(t, 0, inverted.DayCount())
}

func TestDateRange_Days_Iteration(t *testing.T) {
	r := engine.DateRange{Start: engine.MustDate("2025-01-30"), End: engine.MustDate("2025-02-02")}

	var got []string
	for d := range r.Days() {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{"2025-01-30", "2025-01-31", "2025-02-01", "2025-02-02"}, got)
}

func TestDateRange_Contains(t *testing.T) {
	r := engine.DateRange{Start: engine.MustDate("2025-01-01"), End: engine.MustDate("2025-01-15")}

	assert.True(t, r.Contains(engine.MustDate("2025-01-01")))
	assert.True(t, r.Contains(engine.MustDate("2025-01-15")))
	assert.False(t, r.Contains(engine.MustDate("2024-12-31")))
	assert.False(t, r.Contains(engine.MustDate("2025-01-16")))
}

// =============================================================================
// CALENDAR KEYS
// =============================================================================

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-02", engine.MustDate("2026-02-15").MonthKey())
}

func TestISOWeek_YearBoundary(t *testing.T) {
	// Mon 2025-12-29 already belongs to ISO 2026-W01.
	y, w := engine.MustDate("2025-12-29").ISOWeek()
	assert.Equal(t, 2026, y)
	assert.Equal(t, 1, w)
}
