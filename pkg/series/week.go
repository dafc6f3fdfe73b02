package series

import (
	"fmt"
	"time"
)

// Week is an ISO week-of-year grouping key. Residual summaries are
// partitioned by it for weekly reporting.
type Week struct {
	Year int
	Week int
}

func (w Week) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// Before orders weeks chronologically.
func (w Week) Before(o Week) bool {
	if w.Year != o.Year {
		return w.Year < o.Year
	}
	return w.Week < o.Week
}

// WeekOf returns the ISO week containing t, evaluated in UTC.
func WeekOf(t time.Time) Week {
	y, wk := t.UTC().ISOWeek()
	return Week{Year: y, Week: wk}
}

// WeeksBetween enumerates every ISO week from the one containing start to the
// one containing end, inclusive. Weeks with no data still appear so reports
// can mark them explicitly.
func WeeksBetween(start, end time.Time) []Week {
	if end.Before(start) {
		return nil
	}
	var weeks []Week
	last := WeekOf(end)
	for t := start; ; t = t.Add(7 * 24 * time.Hour) {
		w := WeekOf(t)
		weeks = append(weeks, w)
		if w == last {
			break
		}
	}
	return weeks
}
