// Package rollover implements the weekly period arithmetic for recurring
// goals. Periods are ISO weeks starting on Monday; dates are civil calendar
// dates in the server's configured time zone.
//
// The functions here are pure. Persisting a rolled-over goal, and re-reading
// it, is the caller's job.
package rollover

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/facebookgo/clock"

	"github.com/tbourn/go-mood-journal/internal/domain"
)

// Today returns the current calendar date in loc according to clk.
func Today(clk clock.Clock, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(clk.Now().In(loc))
}

// WeekStart returns the Monday on or before d.
func WeekStart(d civil.Date) civil.Date {
	offset := (int(d.In(time.UTC).Weekday()) + 6) % 7 // Monday=0 … Sunday=6
	return d.AddDays(-offset)
}

// Advance brings g into the period containing today.
//
// If the stored period already is today's week the goal is returned unchanged
// apart from the derived AlreadyCompletedToday flag. Otherwise the streak is
// extended when the stored period met its target and reset when it did not,
// and the weekly counter starts over at zero.
//
// Only the stored period is judged: a gap of several idle weeks still credits
// a streak if that one stored week was complete.
func Advance(g domain.Goal, today civil.Date) (domain.Goal, bool) {
	week := WeekStart(today).String()
	rolled := false
	if g.PeriodStart != week {
		if g.FrequencyPerWeek > 0 && g.Completed >= g.FrequencyPerWeek {
			g.Streak++
		} else {
			g.Streak = 0
		}
		g.Completed = 0
		g.PeriodStart = week
		rolled = true
	}
	g.AlreadyCompletedToday = g.LastCompletedDate == today.String()
	return g, rolled
}
