package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
)

// MoodAggregate summarizes the mood scores of a user's entries. The zero
// value describes a user with no entries.
type MoodAggregate struct {
	Total   int64   `json:"total_entries"`
	Average float64 `json:"average_mood"`
	Lowest  int     `json:"lowest_mood"`
	Highest int     `json:"highest_mood"`
}

// MoodStats computes the aggregate in a single query.
func MoodStats(ctx context.Context, db *gorm.DB, userID uint) (MoodAggregate, error) {
	var agg MoodAggregate
	err := db.WithContext(ctx).
		Model(&domain.MoodEntry{}).
		Select("COUNT(*) AS total, COALESCE(AVG(mood), 0) AS average, COALESCE(MIN(mood), 0) AS lowest, COALESCE(MAX(mood), 0) AS highest").
		Where("user_id = ?", userID).
		Scan(&agg).Error
	return agg, err
}

// MoodCounts returns how many entries carry each mood score (1..5).
func MoodCounts(ctx context.Context, db *gorm.DB, userID uint) (map[int]int64, error) {
	var rows []struct {
		Mood  int
		Count int64
	}
	err := db.WithContext(ctx).
		Model(&domain.MoodEntry{}).
		Select("mood, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("mood").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int]int64, len(rows))
	for _, r := range rows {
		out[r.Mood] = r.Count
	}
	return out, nil
}
