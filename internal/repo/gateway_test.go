package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/observability"
)

var errBusy = errors.New("database is locked (5) (SQLITE_BUSY)")

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{Attempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestGateway_RetriesBusyThenSucceeds(t *testing.T) {
	gw := NewGateway(newTestDB(t), fastPolicy(3))
	before := testutil.ToFloat64(observability.StorageRetries.WithLabelValues("test.busy_then_ok"))

	calls := 0
	err := gw.InTx(context.Background(), "test.busy_then_ok", func(tx *gorm.DB) error {
		calls++
		if calls < 3 {
			return errBusy
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d; want 3", calls)
	}
	if got := testutil.ToFloat64(observability.StorageRetries.WithLabelValues("test.busy_then_ok")); got != before+2 {
		t.Fatalf("storage_retries_total = %v; want %v", got, before+2)
	}
}

func TestGateway_ExhaustedBudgetIsTransient(t *testing.T) {
	gw := NewGateway(newTestDB(t), fastPolicy(3))
	calls := 0
	err := gw.InTx(context.Background(), "test.exhaust", func(tx *gorm.DB) error {
		calls++
		return errBusy
	})
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("err = %v; want ErrTransient", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d; want exactly the budget of 3", calls)
	}
}

func TestGateway_NonBusyErrorsAreNotRetried(t *testing.T) {
	gw := NewGateway(newTestDB(t), fastPolicy(5))
	sentinel := errors.New("UNIQUE constraint failed: achievements.user_id")
	calls := 0
	err := gw.InTx(context.Background(), "test.permanent", func(tx *gorm.DB) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) || calls != 1 {
		t.Fatalf("err=%v calls=%d; want sentinel after 1 call", err, calls)
	}
	if errors.Is(err, ErrTransient) {
		t.Fatalf("a constraint error must not be tagged transient")
	}
	if !errors.Is(Classify(err), ErrIntegrity) {
		t.Fatalf("Classify should tag unique violations as integrity errors")
	}
}

func TestGateway_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	gw := NewGateway(db, fastPolicy(1))
	boom := errors.New("boom")
	err := gw.InTx(context.Background(), "test.rollback", func(tx *gorm.DB) error {
		if err := tx.Create(&domain.User{ExternalID: "rolled-back"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	var n int64
	db.Model(&domain.User{}).Where("external_id = ?", "rolled-back").Count(&n)
	if n != 0 {
		t.Fatalf("insert should have been rolled back")
	}
}

func TestGateway_CanceledContext(t *testing.T) {
	gw := NewGateway(newTestDB(t), fastPolicy(3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := gw.InTx(ctx, "test.canceled", func(tx *gorm.DB) error { calls++; return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
	if calls != 0 {
		t.Fatalf("fn should not run with a canceled context")
	}
}

func TestGateway_DoAndPing(t *testing.T) {
	gw := NewGateway(newTestDB(t), RetryPolicy{})
	if gw.policy.Attempts != 1 || gw.policy.BaseDelay <= 0 {
		t.Fatalf("zero policy should be normalized: %+v", gw.policy)
	}
	if err := gw.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	calls := 0
	err := gw.Do(context.Background(), "test.do", func(db *gorm.DB) error {
		calls++
		return db.Create(&domain.User{ExternalID: "via-do"}).Error
	})
	if err != nil || calls != 1 {
		t.Fatalf("Do err=%v calls=%d", err, calls)
	}
}

// Concurrent read-modify-write units on a file database: every unit must be
// applied exactly once even though some hit lock contention and are replayed.
func TestGateway_ConcurrentWritersSerialize(t *testing.T) {
	opts := DefaultSQLiteOptions()
	opts.BusyTimeout = 50 * time.Millisecond
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "journal.db"), opts)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if _, err := Migrate(context.Background(), db, Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	u := seedUser(t, db, "concurrent")
	if err := IncrementStatsViews(context.Background(), db, u.ID); err != nil {
		t.Fatalf("seed metric: %v", err)
	}

	gw := NewGateway(db, RetryPolicy{Attempts: 100, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond})
	const workers, each = 4, 5
	var wg sync.WaitGroup
	errs := make(chan error, workers*each)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				errs <- gw.InTx(context.Background(), "test.concurrent", func(tx *gorm.DB) error {
					v, err := StatsViews(context.Background(), tx, u.ID)
					if err != nil {
						return err
					}
					return tx.Model(&domain.UserMetric{}).Where("user_id = ?", u.ID).Update("stats_views", v+1).Error
				})
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unit failed: %v", err)
		}
	}
	got, err := StatsViews(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("StatsViews: %v", err)
	}
	if want := 1 + workers*each; got != want {
		t.Fatalf("stats_views = %d; want %d", got, want)
	}
}

func TestIsBusyAndIsDuplicate(t *testing.T) {
	busy := []error{
		errBusy,
		errors.New("database is locked (517)"),
		errors.New("database table is locked: goals"),
		fmt.Errorf("wrapped: %w", errors.New("SQLITE_LOCKED")),
	}
	for _, e := range busy {
		if !IsBusy(e) {
			t.Fatalf("IsBusy(%v) = false", e)
		}
		if !errors.Is(Classify(e), ErrTransient) {
			t.Fatalf("Classify(%v) should be transient", e)
		}
	}
	if IsBusy(nil) || IsBusy(errors.New("no such table: goals")) {
		t.Fatalf("IsBusy false positives")
	}

	dups := []error{
		gorm.ErrDuplicatedKey,
		ErrDuplicate,
		errors.New("constraint failed: UNIQUE constraint failed: users.external_id (2067)"),
		errors.New("ERROR: duplicate key value violates unique constraint"),
	}
	for _, e := range dups {
		if !IsDuplicate(e) {
			t.Fatalf("IsDuplicate(%v) = false", e)
		}
	}
	if IsDuplicate(nil) || IsDuplicate(errors.New("CHECK constraint failed")) {
		t.Fatalf("IsDuplicate false positives")
	}

	fks := []error{
		gorm.ErrForeignKeyViolated,
		errors.New("constraint failed: FOREIGN KEY constraint failed (787)"),
	}
	for _, e := range fks {
		got := Classify(e)
		if !IsForeignKey(e) || !errors.Is(got, ErrMissingRef) || !errors.Is(got, ErrIntegrity) {
			t.Fatalf("Classify(%v) = %v; want integrity + missing ref", e, got)
		}
	}
	if IsForeignKey(nil) || IsForeignKey(errors.New("UNIQUE constraint failed: goals.id")) {
		t.Fatalf("IsForeignKey false positives")
	}

	if Classify(nil) != nil {
		t.Fatalf("Classify(nil) should be nil")
	}
	if !errors.Is(Classify(ErrNotFound), ErrNotFound) || errors.Is(Classify(ErrNotFound), ErrTransient) {
		t.Fatalf("ErrNotFound must pass through unchanged")
	}
	plain := errors.New("disk I/O error")
	if Classify(plain) != plain {
		t.Fatalf("unclassified errors pass through")
	}
}
