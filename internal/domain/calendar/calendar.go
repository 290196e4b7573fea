// Package calendar owns the date marker written into the first column of each
// day's row. Row lookup compares these strings textually, so every reader and
// writer must go through Format.
package calendar

import "time"

// layout is M/D/YY without zero padding, e.g. 10/5/26.
const layout = "1/2/06"

// Clock returns the current time.
type Clock func() time.Time

// Format renders the date marker for t in t's own location.
func Format(t time.Time) string {
	return t.Format(layout)
}

// IsDay reports whether cell is the marker for t's calendar day.
func IsDay(cell string, t time.Time) bool {
	return cell == Format(t)
}

// InLocation returns a clock reading time.Now in loc. A nil loc means local
// time.
func InLocation(loc *time.Location) Clock {
	if loc == nil {
		return time.Now
	}
	return func() time.Time { return time.Now().In(loc) }
}
