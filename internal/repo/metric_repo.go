package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mood-journal/internal/domain"
)

// IncrementStatsViews bumps the user's statistics-view counter, creating the
// metrics row on first use, in one statement.
func IncrementStatsViews(ctx context.Context, db *gorm.DB, userID uint) error {
	now := time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"stats_views": gorm.Expr("stats_views + 1"),
				"updated_at":  now,
			}),
		}).
		Create(&domain.UserMetric{UserID: userID, StatsViews: 1, UpdatedAt: now}).Error
}

// StatsViews returns the counter, or 0 for a user with no metrics row.
func StatsViews(ctx context.Context, db *gorm.DB, userID uint) (int, error) {
	var m domain.UserMetric
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return m.StatsViews, nil
}
