package services

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/rollover"
	"github.com/tbourn/go-mood-journal/internal/streak"
)

// StreakCalculator derives a user's journal streak from entry dates.
type StreakCalculator struct {
	Tx       TxRunner
	Store    JournalStore
	Clock    clock.Clock
	Location *time.Location
}

// NewStreakCalculator builds a StreakCalculator over the repo query functions.
func NewStreakCalculator(tx TxRunner, clk clock.Clock, loc *time.Location) *StreakCalculator {
	return &StreakCalculator{Tx: tx, Store: repoStore{}, Clock: clk, Location: loc}
}

// CurrentStreak returns the number of consecutive days, ending today or
// yesterday, on which the user wrote at least one entry. Stored dates that
// cannot be parsed are skipped and logged.
func (c *StreakCalculator) CurrentStreak(ctx context.Context, userID uint) (int, error) {
	var raw []string
	err := c.Tx.Do(ctx, "moods.dates", func(db *gorm.DB) error {
		var err error
		raw, err = c.Store.DistinctEntryDates(ctx, db, userID)
		return err
	})
	if err != nil {
		return 0, storageErr(err)
	}

	dates, skipped := streak.ParseAll(raw)
	if len(skipped) > 0 {
		log.Warn().
			Uint("user_id", userID).
			Strs("dates", skipped).
			Msg("skipping unparseable entry dates")
	}
	return streak.Current(dates, rollover.Today(c.Clock, c.Location)), nil
}
