// Package calendar answers one question: is a given calendar date a
// valid practice scenario for a given time window. Windows are defined
// in the London trading day (BST/GMT); candle data stays in UTC.
package calendar

import (
	"time"

	"daxsim/rules"
)

// Window is a fixed intraday practice window, expressed as a start and
// end time of day in the display timezone. End is inclusive of the
// final minute (08:00–08:59 covers the first trading hour).
type Window struct {
	Key       string
	Label     string
	StartHour int
	StartMin  int
	EndHour   int
	EndMin    int
}

// The four practice windows. Static for the process lifetime.
var windows = []Window{
	{Key: "morning_1", Label: "08:00 - 09:00 BST", StartHour: 8, EndHour: 8, EndMin: 59},
	{Key: "morning_2", Label: "09:00 - 10:00 BST", StartHour: 9, EndHour: 9, EndMin: 59},
	{Key: "afternoon_1", Label: "14:00 - 15:00 BST", StartHour: 14, EndHour: 14, EndMin: 59},
	{Key: "afternoon_2", Label: "15:00 - 16:00 BST", StartHour: 15, EndHour: 15, EndMin: 59},
}

// Windows returns the predefined windows in display order.
func Windows() []Window {
	out := make([]Window, len(windows))
	copy(out, windows)
	return out
}

// Lookup finds a window by key.
func Lookup(key string) (Window, bool) {
	for _, w := range windows {
		if w.Key == key {
			return w, true
		}
	}
	return Window{}, false
}

var displayTZ = loadDisplayTZ()

func loadDisplayTZ() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		// No tzdata on this host; BST as a fixed offset is close enough
		// for window bounds.
		return time.FixedZone("BST", 60*60)
	}
	return loc
}

// Bounds returns the UTC instants [start, end) covering the window on
// the given date, interpreting the window times in the display
// timezone. The half-open end is one minute past EndMin, so a candle
// opening at 08:59 is inside and one opening at 09:00 is not.
func (w Window) Bounds(date time.Time) (start, end time.Time) {
	y, m, d := date.Date()
	start = time.Date(y, m, d, w.StartHour, w.StartMin, 0, 0, displayTZ)
	end = time.Date(y, m, d, w.EndHour, w.EndMin, 0, 0, displayTZ).Add(time.Minute)
	return start.UTC(), end.UTC()
}

// At returns the UTC instant for the given wall-clock time on date,
// interpreted in the display timezone.
func At(date time.Time, hour, min int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, min, 0, 0, displayTZ).UTC()
}

// Contains reports whether the instant falls inside the window on the
// instant's own (London) trading day.
func (w Window) Contains(t time.Time) bool {
	start, end := w.Bounds(t.In(displayTZ))
	return !t.Before(start) && t.Before(end)
}

// Calendar evaluates the weekday/time predicate for scenario dates.
// Whether candle data actually exists for a date is the data provider's
// business; callers check that separately.
type Calendar struct {
	Rules rules.Rules
}

// New returns a calendar bound to the given rules.
func New(r rules.Rules) Calendar {
	return Calendar{Rules: r}
}

// IsValidSession reports whether date+window qualifies as a practice
// scenario: the weekday must be whitelisted. If the rules whitelist no
// weekday at all this is false for every date, and callers should
// surface "no valid dates" rather than an error.
func (c Calendar) IsValidSession(date time.Time, w Window) bool {
	return c.Rules.ValidDay(date.In(displayTZ).Weekday())
}

// FilterDates keeps the dates whose weekday is whitelisted, preserving
// their relative order.
func (c Calendar) FilterDates(dates []time.Time, w Window) []time.Time {
	var out []time.Time
	for _, d := range dates {
		if c.IsValidSession(d, w) {
			out = append(out, d)
		}
	}
	return out
}

// DatesInRange walks [start, end] day by day and returns the valid
// scenario dates in order.
func (c Calendar) DatesInRange(start, end time.Time, w Window) []time.Time {
	var out []time.Time
	y, m, d := start.Date()
	cur := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = end.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		if c.IsValidSession(cur, w) {
			out = append(out, cur)
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return out
}
