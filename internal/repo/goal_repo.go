package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
)

// GoalUpdate carries the optional fields of a goal edit; nil leaves a column
// unchanged.
type GoalUpdate struct {
	Title            *string
	Description      *string
	FrequencyPerWeek *int
}

// Empty reports whether no field is set.
func (u GoalUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.FrequencyPerWeek == nil
}

// CreateGoal inserts g. Timestamps are filled in UTC when unset.
func CreateGoal(ctx context.Context, db *gorm.DB, g *domain.Goal) error {
	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = now
	}
	return db.WithContext(ctx).Create(g).Error
}

// GetGoal fetches one goal owned by userID, or ErrNotFound.
func GetGoal(ctx context.Context, db *gorm.DB, userID, goalID uint) (*domain.Goal, error) {
	var g domain.Goal
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGoals returns the user's goals, newest first.
func ListGoals(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Goal, error) {
	var out []domain.Goal
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

// AdvanceGoalPeriod persists a rolled-over goal, but only while the stored
// period is still prevPeriod. It reports false when another writer advanced
// the period first, in which case nothing is written.
func AdvanceGoalPeriod(ctx context.Context, db *gorm.DB, g *domain.Goal, prevPeriod string) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Goal{}).
		Where("id = ? AND user_id = ? AND COALESCE(period_start, '') = ?", g.ID, g.UserID, prevPeriod).
		Updates(map[string]any{
			"streak":       g.Streak,
			"completed":    g.Completed,
			"period_start": g.PeriodStart,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SaveGoalProgress writes the weekly counter and the last completion date.
func SaveGoalProgress(ctx context.Context, db *gorm.DB, g *domain.Goal) error {
	res := db.WithContext(ctx).
		Model(&domain.Goal{}).
		Where("id = ? AND user_id = ?", g.ID, g.UserID).
		Updates(map[string]any{
			"completed":           g.Completed,
			"last_completed_date": g.LastCompletedDate,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateGoal applies the set fields of upd. A new frequency also clamps the
// weekly counter so it never exceeds the target. It reports whether a row
// matched.
func UpdateGoal(ctx context.Context, db *gorm.DB, userID, goalID uint, upd GoalUpdate) (bool, error) {
	if upd.Empty() {
		return false, nil
	}
	set := map[string]any{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.FrequencyPerWeek != nil {
		set["frequency_per_week"] = *upd.FrequencyPerWeek
		set["completed"] = gorm.Expr("MIN(completed, ?)", *upd.FrequencyPerWeek)
	}
	res := db.WithContext(ctx).
		Model(&domain.Goal{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		Updates(set)
	return res.RowsAffected > 0, res.Error
}

// DeleteGoal removes a goal; its completions go with it through the cascade.
func DeleteGoal(ctx context.Context, db *gorm.DB, userID, goalID uint) (bool, error) {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		Delete(&domain.Goal{})
	return res.RowsAffected > 0, res.Error
}
