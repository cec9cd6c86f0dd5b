package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mood-journal/internal/domain"
)

// InsertCompletion records that goalID was progressed on date (ISO). A fact
// that already exists is left alone; the result reports whether a row was
// written.
func InsertCompletion(ctx context.Context, db *gorm.DB, userID, goalID uint, date string) (bool, error) {
	c := &domain.GoalCompletion{UserID: userID, GoalID: goalID, Date: date, CreatedAt: time.Now().UTC()}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "goal_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(c)
	return res.RowsAffected == 1, res.Error
}

// ListCompletionDates returns the completion dates of a goal within
// [start, end] (inclusive ISO dates), ascending.
func ListCompletionDates(ctx context.Context, db *gorm.DB, userID, goalID uint, start, end string) ([]string, error) {
	out := []string{}
	err := db.WithContext(ctx).
		Model(&domain.GoalCompletion{}).
		Where("user_id = ? AND goal_id = ? AND date BETWEEN ? AND ?", userID, goalID, start, end).
		Order("date ASC").
		Pluck("date", &out).Error
	return out, err
}
