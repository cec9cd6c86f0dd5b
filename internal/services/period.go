package services

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/repo"
	"github.com/tbourn/go-mood-journal/internal/rollover"
)

// loadCurrent reads one goal inside tx and brings it into today's period.
func loadCurrent(ctx context.Context, tx *gorm.DB, store GoalStore, userID, goalID uint, today civil.Date) (*domain.Goal, bool, error) {
	g, err := store.GetGoal(ctx, tx, userID, goalID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, ErrGoalNotFound
	}
	if err != nil {
		return nil, false, err
	}
	return syncPeriod(ctx, tx, store, g, today)
}

// syncPeriod applies the weekly rollover to g and, when the period changed,
// writes it back and returns the re-read row. The write only lands if the
// stored period is still the one g was loaded with, so two callers racing
// over the same week boundary credit the streak once. The bool reports
// whether this call performed the rollover.
func syncPeriod(ctx context.Context, tx *gorm.DB, store GoalStore, g *domain.Goal, today civil.Date) (*domain.Goal, bool, error) {
	next, rolled := rollover.Advance(*g, today)
	if !rolled {
		return &next, false, nil
	}

	won, err := store.AdvanceGoalPeriod(ctx, tx, &next, g.PeriodStart)
	if err != nil {
		return nil, false, err
	}
	if won {
		log.Debug().
			Uint("user_id", g.UserID).
			Uint("goal_id", g.ID).
			Str("from", g.PeriodStart).
			Str("to", next.PeriodStart).
			Int("streak", next.Streak).
			Msg("goal period rolled over")
	}

	fresh, err := store.GetGoal(ctx, tx, g.UserID, g.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, ErrGoalNotFound
	}
	if err != nil {
		return nil, false, err
	}
	fresh.AlreadyCompletedToday = fresh.LastCompletedDate == today.String()
	return fresh, won, nil
}
