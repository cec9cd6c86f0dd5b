package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-mood-journal/internal/observability"
	"github.com/tbourn/go-mood-journal/internal/repo"
)

func TestGoalService_CreateValidation(t *testing.T) {
	env := newTestEnv(t, "2024-01-03")
	u := env.user(t, "v")
	svc := env.goals()
	ctx := context.Background()

	cases := []struct {
		name   string
		userID uint
		in     GoalInput
	}{
		{"zero user", 0, GoalInput{Title: "Run", FrequencyPerWeek: 3}},
		{"empty title", u.ID, GoalInput{Title: "", FrequencyPerWeek: 3}},
		{"blank title", u.ID, GoalInput{Title: " \t\n", FrequencyPerWeek: 3}},
		{"title too long", u.ID, GoalInput{Title: strings.Repeat("a", 201), FrequencyPerWeek: 3}},
		{"frequency zero", u.ID, GoalInput{Title: "Run", FrequencyPerWeek: 0}},
		{"frequency eight", u.ID, GoalInput{Title: "Run", FrequencyPerWeek: 8}},
		{"frequency negative", u.ID, GoalInput{Title: "Run", FrequencyPerWeek: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.userID, tc.in); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v; want ErrValidation", err)
			}
		})
	}

	var n int64
	env.db.Table("goals").Count(&n)
	if n != 0 {
		t.Fatalf("rejected input wrote %d goals", n)
	}
}

func TestGoalService_CreateStartsInCurrentWeek(t *testing.T) {
	env := newTestEnv(t, "2024-01-03") // Wednesday
	u := env.user(t, "c")

	g, err := env.goals().Create(context.Background(), u.ID, GoalInput{
		Title:            "  Morning \t  run ",
		Description:      " outside ",
		FrequencyPerWeek: 3,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID == 0 || g.PeriodStart != "2024-01-01" || g.Completed != 0 || g.Streak != 0 {
		t.Fatalf("created goal = %+v", g)
	}
	if g.Title != "Morning run" || g.Description != "outside" {
		t.Fatalf("title/description not cleaned: %q / %q", g.Title, g.Description)
	}
}

// The weekly walkthrough: three days of progress in one week, a repeated
// call on day one, then a read on the following Monday.
func TestGoalService_WeeklyScenario(t *testing.T) {
	env := newTestEnv(t, "2024-01-01") // Monday
	u := env.user(t, "walk")
	ctx := context.Background()
	goals, tracker := env.goals(), env.tracker()

	g, err := goals.Create(ctx, u.ID, GoalInput{Title: "Meditate", FrequencyPerWeek: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	steps := []struct {
		day       string
		completed int
	}{
		{"2024-01-01", 1},
		{"2024-01-01", 1},
		{"2024-01-02", 2},
		{"2024-01-03", 3},
	}
	for i, s := range steps {
		env.setToday(t, s.day)
		got, err := tracker.Increment(ctx, u.ID, g.ID)
		if err != nil {
			t.Fatalf("step %d: Increment: %v", i, err)
		}
		if got.Completed != s.completed || got.LastCompletedDate != s.day || !got.AlreadyCompletedToday {
			t.Fatalf("step %d: goal = %+v; want completed %d on %s", i, got, s.completed, s.day)
		}
	}
	if n := env.completions(t, g.ID); n != 3 {
		t.Fatalf("completion facts = %d; want 3", n)
	}

	env.setToday(t, "2024-01-08")
	list, err := goals.List(ctx, u.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %v, %v", list, err)
	}
	got := list[0]
	if got.Completed != 0 || got.Streak != 1 || got.PeriodStart != "2024-01-08" || got.AlreadyCompletedToday {
		t.Fatalf("after rollover = %+v; want completed 0, streak 1, period 2024-01-08", got)
	}
}

func TestGoalService_RolloverIsIdempotent(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	u := env.user(t, "idem")
	ctx := context.Background()
	goals, tracker := env.goals(), env.tracker()

	g, _ := goals.Create(ctx, u.ID, GoalInput{Title: "Read", FrequencyPerWeek: 1})
	if _, err := tracker.Increment(ctx, u.ID, g.ID); err != nil {
		t.Fatalf("Increment: %v", err)
	}

	env.setToday(t, "2024-01-09")
	before := testutil.ToFloat64(observability.GoalRollovers)

	first, err := goals.Get(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := goals.Get(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	listed, err := goals.List(ctx, u.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	for _, got := range []int{first.Streak, second.Streak, listed[0].Streak} {
		if got != 1 {
			t.Fatalf("streak = %d; want 1 on every read", got)
		}
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second read differs:\n%+v\n%+v", first, second)
	}
	if d := testutil.ToFloat64(observability.GoalRollovers) - before; d != 1 {
		t.Fatalf("rollovers counted = %v; want 1", d)
	}
}

func TestGoalService_MissedTargetResetsStreak(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	u := env.user(t, "reset")
	ctx := context.Background()

	g, _ := env.goals().Create(ctx, u.ID, GoalInput{Title: "Gym", FrequencyPerWeek: 2})
	env.db.Exec("UPDATE goals SET streak = 4, completed = 1 WHERE id = ?", g.ID)

	env.setToday(t, "2024-01-10")
	got, err := env.goals().Get(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Streak != 0 || got.Completed != 0 || got.PeriodStart != "2024-01-08" {
		t.Fatalf("after missed week = %+v; want streak 0, completed 0", got)
	}
}

func TestGoalService_LongAbsenceJudgesOnlyStoredWeek(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	u := env.user(t, "away")
	ctx := context.Background()

	g, _ := env.goals().Create(ctx, u.ID, GoalInput{Title: "Call mum", FrequencyPerWeek: 1})
	if _, err := env.tracker().Increment(ctx, u.ID, g.ID); err != nil {
		t.Fatalf("Increment: %v", err)
	}

	env.setToday(t, "2024-02-01") // four idle weeks later
	got, err := env.goals().Get(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Streak != 1 || got.PeriodStart != "2024-01-29" {
		t.Fatalf("after absence = %+v; want streak 1, period 2024-01-29", got)
	}
}

func TestGoalService_UsesConfiguredLocation(t *testing.T) {
	env := newTestEnv(t, "2024-01-07") // Sunday noon UTC
	u := env.user(t, "tz")
	ctx := context.Background()

	env.clk.Add(11 * time.Hour) // Sunday 23:00 UTC, Monday 08:00 at UTC+9
	svc := NewGoalService(env.gw, env.clk, time.FixedZone("UTC+9", 9*3600))
	g, err := svc.Create(ctx, u.ID, GoalInput{Title: "Stretch", FrequencyPerWeek: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.PeriodStart != "2024-01-08" {
		t.Fatalf("period_start = %s; want 2024-01-08", g.PeriodStart)
	}
}

func TestGoalService_GetScopedByUser(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	alice, bob := env.user(t, "alice"), env.user(t, "bob")
	ctx := context.Background()
	svc := env.goals()

	g, _ := svc.Create(ctx, alice.ID, GoalInput{Title: "Run", FrequencyPerWeek: 3})
	if _, err := svc.Get(ctx, bob.ID, g.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("foreign Get err = %v; want ErrGoalNotFound", err)
	}
	if _, err := svc.Get(ctx, alice.ID, g.ID+100); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("missing Get err = %v; want ErrGoalNotFound", err)
	}
	if list, err := svc.List(ctx, bob.ID); err != nil || len(list) != 0 {
		t.Fatalf("bob's List = %v, %v; want empty", list, err)
	}
}

func TestGoalService_Update(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	u := env.user(t, "upd")
	ctx := context.Background()
	svc := env.goals()

	g, _ := svc.Create(ctx, u.ID, GoalInput{Title: "Run", FrequencyPerWeek: 5})
	env.db.Exec("UPDATE goals SET completed = 4 WHERE id = ?", g.ID)

	got, err := svc.Update(ctx, u.ID, g.ID, GoalPatch{FrequencyPerWeek: ptr(2), Description: ptr(" longer ")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.FrequencyPerWeek != 2 || got.Completed != 2 || got.Description != "longer" || got.Title != "Run" {
		t.Fatalf("updated = %+v", got)
	}

	if _, err := svc.Update(ctx, u.ID, g.ID, GoalPatch{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty patch err = %v; want ErrValidation", err)
	}
	if _, err := svc.Update(ctx, u.ID, g.ID, GoalPatch{FrequencyPerWeek: ptr(9)}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad frequency err = %v; want ErrValidation", err)
	}
	if _, err := svc.Update(ctx, u.ID, g.ID, GoalPatch{Title: ptr("  ")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank title err = %v; want ErrValidation", err)
	}
	if _, err := svc.Update(ctx, u.ID, g.ID+1, GoalPatch{Title: ptr("Swim")}); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("missing goal err = %v; want ErrGoalNotFound", err)
	}
}

func TestGoalService_UpdateAfterAbsenceOnlyAffectsCurrentWeek(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	u := env.user(t, "upd-stale")
	ctx := context.Background()
	svc := env.goals()

	g, _ := svc.Create(ctx, u.ID, GoalInput{Title: "Run", FrequencyPerWeek: 3})
	for _, day := range []string{"2024-01-01", "2024-01-02"} {
		env.setToday(t, day)
		if _, err := env.tracker().Increment(ctx, u.ID, g.ID); err != nil {
			t.Fatalf("Increment %s: %v", day, err)
		}
	}

	// Two of three in the stored week: lowering the target now must not
	// retroactively meet it.
	env.setToday(t, "2024-01-17")
	got, err := svc.Update(ctx, u.ID, g.ID, GoalPatch{FrequencyPerWeek: ptr(2)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Streak != 0 || got.Completed != 0 || got.PeriodStart != "2024-01-15" || got.FrequencyPerWeek != 2 {
		t.Fatalf("updated = %+v", got)
	}
}

func TestGoalService_DeleteCascadesCompletions(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	u := env.user(t, "del")
	ctx := context.Background()
	svc := env.goals()

	g, _ := svc.Create(ctx, u.ID, GoalInput{Title: "Run", FrequencyPerWeek: 3})
	if _, err := env.tracker().Increment(ctx, u.ID, g.ID); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if err := svc.Delete(ctx, u.ID, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := env.completions(t, g.ID); n != 0 {
		t.Fatalf("completions after delete = %d; want 0", n)
	}
	if err := svc.Delete(ctx, u.ID, g.ID); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("second Delete err = %v; want ErrGoalNotFound", err)
	}
}

func TestGoalService_Completions(t *testing.T) {
	env := newTestEnv(t, "2024-01-01")
	u, other := env.user(t, "comp"), env.user(t, "other")
	ctx := context.Background()
	svc, tracker := env.goals(), env.tracker()

	g, _ := svc.Create(ctx, u.ID, GoalInput{Title: "Walk", FrequencyPerWeek: 7})
	for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-04"} {
		env.setToday(t, day)
		if _, err := tracker.Increment(ctx, u.ID, g.ID); err != nil {
			t.Fatalf("Increment on %s: %v", day, err)
		}
	}

	env.setToday(t, "2024-01-10")
	all, err := svc.Completions(ctx, u.ID, g.ID, "", "")
	if err != nil {
		t.Fatalf("Completions: %v", err)
	}
	if want := []string{"2024-01-01", "2024-01-02", "2024-01-04"}; !reflect.DeepEqual(all, want) {
		t.Fatalf("default window = %v; want %v", all, want)
	}

	some, err := svc.Completions(ctx, u.ID, g.ID, "2024-01-02", "2024-01-04")
	if err != nil || !reflect.DeepEqual(some, []string{"2024-01-02", "2024-01-04"}) {
		t.Fatalf("explicit window = %v, %v", some, err)
	}

	svc.CompletionWindowDays = 7 // 2024-01-03 .. 2024-01-10
	recent, err := svc.Completions(ctx, u.ID, g.ID, "", "")
	if err != nil || !reflect.DeepEqual(recent, []string{"2024-01-04"}) {
		t.Fatalf("7-day window = %v, %v", recent, err)
	}

	for _, bad := range [][2]string{{"2024-01-05", "2024-01-01"}, {"01/01/2024", "2024-01-05"}, {"2024-01-01", "soon"}} {
		if _, err := svc.Completions(ctx, u.ID, g.ID, bad[0], bad[1]); !errors.Is(err, ErrValidation) {
			t.Fatalf("Completions(%q, %q) err = %v; want ErrValidation", bad[0], bad[1], err)
		}
	}
	if _, err := svc.Completions(ctx, other.ID, g.ID, "", ""); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("foreign Completions err = %v; want ErrGoalNotFound", err)
	}
}

func TestGoalService_StorageErrors(t *testing.T) {
	svc := NewGoalService(fakeTx{err: errors.Join(repo.ErrTransient, errors.New("database is locked"))}, nil, time.UTC)
	svc.Clock = newTestEnv(t, "2024-01-01").clk

	if _, err := svc.List(context.Background(), 1); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("exhausted retries err = %v; want ErrUnavailable", err)
	}

	svc.Tx = fakeTx{err: errors.New("disk I/O error")}
	_, err := svc.Get(context.Background(), 1, 1)
	if !errors.Is(err, ErrStorage) || errors.Is(err, ErrUnavailable) {
		t.Fatalf("fatal err = %v; want ErrStorage only", err)
	}
}
