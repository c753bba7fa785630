package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daxsim/rules"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"morning_1", "morning_2", "afternoon_1", "afternoon_2"} {
		w, ok := Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, key, w.Key)
		assert.NotEmpty(t, w.Label)
	}

	_, ok := Lookup("lunch")
	assert.False(t, ok)
}

func TestFilterDatesPreservesOrder(t *testing.T) {
	t.Parallel()

	cal := New(rules.Default())
	w, _ := Lookup("morning_1")

	// Mon 2024-11-04 .. Fri 2024-11-08: Tue and Wed must drop out.
	dates := []time.Time{
		day(2024, 11, 4), // Monday
		day(2024, 11, 5), // Tuesday
		day(2024, 11, 6), // Wednesday
		day(2024, 11, 7), // Thursday
		day(2024, 11, 8), // Friday
	}

	got := cal.FilterDates(dates, w)
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(day(2024, 11, 4)))
	assert.True(t, got[1].Equal(day(2024, 11, 7)))
	assert.True(t, got[2].Equal(day(2024, 11, 8)))
}

func TestDatesInRange(t *testing.T) {
	t.Parallel()

	cal := New(rules.Default())
	w, _ := Lookup("afternoon_1")

	got := cal.DatesInRange(day(2024, 11, 4), day(2024, 11, 8), w)
	require.Len(t, got, 3)
	assert.Equal(t, time.Monday, got[0].Weekday())
	assert.Equal(t, time.Thursday, got[1].Weekday())
	assert.Equal(t, time.Friday, got[2].Weekday())
}

func TestNoValidWeekdaysMeansNoDates(t *testing.T) {
	t.Parallel()

	r := rules.Default()
	r.ValidWeekdays = nil
	cal := New(r)
	w, _ := Lookup("morning_1")

	assert.False(t, cal.IsValidSession(day(2024, 11, 4), w))
	assert.Empty(t, cal.DatesInRange(day(2024, 11, 4), day(2024, 11, 29), w))
}

func TestWindowBoundsSummer(t *testing.T) {
	t.Parallel()

	// 2024-07-04 is inside BST: 08:00 London == 07:00 UTC.
	w, _ := Lookup("morning_1")
	start, end := w.Bounds(day(2024, 7, 4))

	assert.Equal(t, "2024-07-04T07:00:00Z", start.Format(time.RFC3339))
	assert.Equal(t, "2024-07-04T08:00:00Z", end.Format(time.RFC3339))
}

func TestWindowBoundsWinter(t *testing.T) {
	t.Parallel()

	// 2024-11-04 is GMT: 08:00 London == 08:00 UTC.
	w, _ := Lookup("morning_1")
	start, end := w.Bounds(day(2024, 11, 4))

	assert.Equal(t, "2024-11-04T08:00:00Z", start.Format(time.RFC3339))
	assert.Equal(t, "2024-11-04T09:00:00Z", end.Format(time.RFC3339))
}

func TestWindowContains(t *testing.T) {
	t.Parallel()

	w, _ := Lookup("morning_1")

	inside := time.Date(2024, 11, 4, 8, 59, 0, 0, time.UTC)
	boundary := time.Date(2024, 11, 4, 9, 0, 0, 0, time.UTC)
	before := time.Date(2024, 11, 4, 7, 59, 0, 0, time.UTC)

	assert.True(t, w.Contains(inside))
	assert.False(t, w.Contains(boundary), "end is exclusive of the next hour")
	assert.False(t, w.Contains(before))
}
