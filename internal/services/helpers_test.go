package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/repo"
)

// testEnv bundles a migrated in-memory database, a gateway over it and a
// mock clock pinned to noon UTC on a chosen day.
type testEnv struct {
	db  *gorm.DB
	gw  *repo.Gateway
	clk *clock.Mock
}

func newTestEnv(t *testing.T, today string) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := repo.Migrate(context.Background(), db, repo.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	env := &testEnv{
		db:  db,
		gw:  repo.NewGateway(db, fastRetry()),
		clk: clock.NewMock(),
	}
	env.setToday(t, today)
	return env
}

func fastRetry() repo.RetryPolicy {
	return repo.RetryPolicy{Attempts: 5, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

// setToday moves the mock clock to noon UTC on day (YYYY-MM-DD).
func (e *testEnv) setToday(t *testing.T, day string) {
	t.Helper()
	d, err := time.ParseInLocation(domain.DateLayout, day, time.UTC)
	if err != nil {
		t.Fatalf("bad test date %q: %v", day, err)
	}
	e.clk.Add(d.Add(12 * time.Hour).Sub(e.clk.Now()))
}

func (e *testEnv) user(t *testing.T, externalID string) *domain.User {
	t.Helper()
	u := &domain.User{ExternalID: externalID}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (e *testEnv) goals() *GoalService {
	return NewGoalService(e.gw, e.clk, time.UTC)
}

func (e *testEnv) tracker() *ProgressTracker {
	return NewProgressTracker(e.gw, e.clk, time.UTC)
}

func (e *testEnv) streaks() *StreakCalculator {
	return NewStreakCalculator(e.gw, e.clk, time.UTC)
}

func (e *testEnv) evaluator() *AchievementEvaluator {
	return NewAchievementEvaluator(e.gw, e.streaks())
}

func (e *testEnv) journal() *JournalService {
	return NewJournalService(e.gw, e.streaks(), e.clk, time.UTC)
}

// entry stores a raw journal entry, bypassing validation so legacy date
// layouts can be seeded.
func (e *testEnv) entry(t *testing.T, userID uint, date string) {
	t.Helper()
	if err := e.db.Create(&domain.MoodEntry{UserID: userID, Date: date, Mood: 3, Content: "x"}).Error; err != nil {
		t.Fatalf("seed entry: %v", err)
	}
}

func (e *testEnv) completions(t *testing.T, goalID uint) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&domain.GoalCompletion{}).Where("goal_id = ?", goalID).Count(&n).Error; err != nil {
		t.Fatalf("count completions: %v", err)
	}
	return n
}

// fakeTx fails every unit of work with err.
type fakeTx struct{ err error }

func (f fakeTx) InTx(context.Context, string, func(*gorm.DB) error) error { return f.err }
func (f fakeTx) Do(context.Context, string, func(*gorm.DB) error) error   { return f.err }

func ptr[T any](v T) *T { return &v }
