package streak

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
)

func d(t *testing.T, s string) civil.Date {
	t.Helper()
	out, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return out
}

func TestParse(t *testing.T) {
	cases := map[string]string{
		"2024-03-05":   "2024-03-05",
		"03/05/2024":   "2024-03-05",
		" 12/31/2023 ": "2023-12-31",
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil || got.String() != want {
			t.Fatalf("Parse(%q) = %v, %v; want %s", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "yesterday", "2024/03/05", "13/45/2024"} {
		if _, err := Parse(bad); !errors.Is(err, ErrUnparseable) {
			t.Fatalf("Parse(%q) err = %v; want ErrUnparseable", bad, err)
		}
	}
}

func TestParseAll_DedupesAcrossLayoutsAndReportsSkipped(t *testing.T) {
	dates, skipped := ParseAll([]string{"2024-03-05", "03/05/2024", "garbage", "2024-03-04"})
	if len(dates) != 2 {
		t.Fatalf("dates = %v; want 2 distinct", dates)
	}
	if len(skipped) != 1 || skipped[0] != "garbage" {
		t.Fatalf("skipped = %v", skipped)
	}
}

func TestCurrent(t *testing.T) {
	today := "2024-03-10"
	cases := []struct {
		name  string
		dates []string
		want  int
	}{
		{"no entries", nil, 0},
		{"only today", []string{"2024-03-10"}, 1},
		{"grace: latest is yesterday", []string{"2024-03-09", "2024-03-08"}, 2},
		{"broken: latest two days ago", []string{"2024-03-08", "2024-03-07"}, 0},
		{"run with a gap", []string{"2024-03-10", "2024-03-09", "2024-03-07"}, 2},
		{"unsorted input", []string{"2024-03-08", "2024-03-10", "2024-03-09"}, 3},
		{"future-dated latest", []string{"2024-03-11", "2024-03-10"}, 2},
		{"month boundary", []string{"2024-03-01", "2024-02-29", "2024-02-28"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var in []civil.Date
			for _, s := range tc.dates {
				in = append(in, d(t, s))
			}
			if got := Current(in, d(t, today)); got != tc.want {
				t.Fatalf("Current(%v) = %d; want %d", tc.dates, got, tc.want)
			}
		})
	}
}

func TestCurrent_MonthBoundaryAlive(t *testing.T) {
	in := []civil.Date{d(t, "2024-03-01"), d(t, "2024-02-29"), d(t, "2024-02-28")}
	if got := Current(in, d(t, "2024-03-02")); got != 3 {
		t.Fatalf("Current across Feb/Mar = %d; want 3", got)
	}
}

func TestCurrent_DoesNotMutateInput(t *testing.T) {
	in := []civil.Date{d(t, "2024-03-08"), d(t, "2024-03-10"), d(t, "2024-03-09")}
	_ = Current(in, d(t, "2024-03-10"))
	if in[0].String() != "2024-03-08" {
		t.Fatalf("input slice was reordered")
	}
}
