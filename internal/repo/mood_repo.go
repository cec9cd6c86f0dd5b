package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
)

// CreateEntry inserts a journal entry.
func CreateEntry(ctx context.Context, db *gorm.DB, e *domain.MoodEntry) error {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	return db.WithContext(ctx).Create(e).Error
}

// ListEntriesPage returns a page of the user's entries, newest first.
func ListEntriesPage(ctx context.Context, db *gorm.DB, userID uint, offset, limit int) ([]domain.MoodEntry, error) {
	var out []domain.MoodEntry
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

// CountEntries returns the number of entries the user has logged.
func CountEntries(ctx context.Context, db *gorm.DB, userID uint) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.MoodEntry{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// DistinctEntryDates returns each stored date string once, in whatever
// layout it was written.
func DistinctEntryDates(ctx context.Context, db *gorm.DB, userID uint) ([]string, error) {
	out := []string{}
	err := db.WithContext(ctx).
		Model(&domain.MoodEntry{}).
		Where("user_id = ?", userID).
		Distinct("date").
		Pluck("date", &out).Error
	return out, err
}

// DeleteEntry removes one entry owned by userID and reports whether it existed.
func DeleteEntry(ctx context.Context, db *gorm.DB, userID, entryID uint) (bool, error) {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&domain.MoodEntry{})
	return res.RowsAffected > 0, res.Error
}
