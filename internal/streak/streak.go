// Package streak computes the journal streak: the number of consecutive
// calendar days, ending today or yesterday, that carry at least one entry.
package streak

import (
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Accepted stored date layouts. Legacy rows use US month/day order.
var layouts = []string{"01/02/2006", "2006-01-02"}

// ErrUnparseable is returned by Parse for a value in no accepted layout.
var ErrUnparseable = errors.New("unparseable entry date")

// Parse converts a stored entry date into a calendar date.
func Parse(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, ErrUnparseable
}

// ParseAll parses raw stored dates, dropping duplicates (the same day may be
// stored in both layouts). Values that do not parse are returned in skipped.
func ParseAll(raw []string) (dates []civil.Date, skipped []string) {
	seen := make(map[civil.Date]struct{}, len(raw))
	for _, s := range raw {
		d, err := Parse(s)
		if err != nil {
			skipped = append(skipped, s)
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	return dates, skipped
}

// Current returns the streak length for a set of distinct entry dates.
//
// A streak is alive while its most recent day is today or yesterday; a user
// who has not written yet today keeps yesterday's streak. A most recent date
// after today (clock skew, or a future-dated entry) does not break it.
func Current(dates []civil.Date, today civil.Date) int {
	if len(dates) == 0 {
		return 0
	}
	sorted := make([]civil.Date, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	latest := sorted[0]
	if today.DaysSince(latest) > 1 {
		return 0
	}

	n := 0
	expected := latest
	for _, d := range sorted {
		if d == expected {
			n++
			expected = expected.AddDays(-1)
			continue
		}
		if d.Before(expected) {
			break
		}
	}
	return n
}
