package services

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/observability"
	"github.com/tbourn/go-mood-journal/internal/rollover"
)

// Increment outcomes, used as the goal_increments_total label.
const (
	OutcomeIncremented  = "incremented"
	OutcomeTargetMet    = "target_met"
	OutcomeAlreadyToday = "already_today"
)

// ProgressTracker records daily progress against a goal.
type ProgressTracker struct {
	Tx       TxRunner
	Store    GoalStore
	Clock    clock.Clock
	Location *time.Location
}

// NewProgressTracker builds a ProgressTracker over the repo query functions.
func NewProgressTracker(tx TxRunner, clk clock.Clock, loc *time.Location) *ProgressTracker {
	return &ProgressTracker{Tx: tx, Store: repoStore{}, Clock: clk, Location: loc}
}

// Increment records today's progress on the goal.
//
// The goal is rolled into the current week first. The weekly counter rises
// by one only if nothing was recorded today and the target is not yet met;
// in every case last_completed_date becomes today and a completion fact for
// today exists afterwards. Repeating the call on the same day changes
// nothing. The returned goal has AlreadyCompletedToday set.
func (t *ProgressTracker) Increment(ctx context.Context, userID, goalID uint) (*domain.Goal, error) {
	ctx, span := observability.Tracer("services/ProgressTracker").Start(ctx, "Increment",
		trace.WithAttributes(attribute.Int64("user_id", int64(userID)), attribute.Int64("goal_id", int64(goalID))))
	defer span.End()

	today := rollover.Today(t.Clock, t.Location)
	todayISO := today.String()

	var (
		out     *domain.Goal
		outcome string
		rolled  bool
	)
	err := t.Tx.InTx(ctx, "goals.increment", func(tx *gorm.DB) error {
		g, won, err := loadCurrent(ctx, tx, t.Store, userID, goalID, today)
		if err != nil {
			return err
		}
		rolled = won

		switch {
		case g.LastCompletedDate == todayISO:
			outcome = OutcomeAlreadyToday
		case g.Completed < g.FrequencyPerWeek:
			g.Completed++
			outcome = OutcomeIncremented
		default:
			outcome = OutcomeTargetMet
		}
		g.LastCompletedDate = todayISO

		if err := t.Store.SaveGoalProgress(ctx, tx, g); err != nil {
			return err
		}
		if _, err := t.Store.InsertCompletion(ctx, tx, userID, goalID, todayISO); err != nil {
			return err
		}

		out, err = t.Store.GetGoal(ctx, tx, userID, goalID)
		if err != nil {
			return err
		}
		out.AlreadyCompletedToday = true
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}

	if rolled {
		observability.GoalRollovers.Inc()
	}
	observability.GoalIncrements.WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.String("outcome", outcome))
	log.Debug().
		Uint("user_id", userID).
		Uint("goal_id", goalID).
		Str("outcome", outcome).
		Int("completed", out.Completed).
		Int("target", out.FrequencyPerWeek).
		Msg("goal progress recorded")
	return out, nil
}
