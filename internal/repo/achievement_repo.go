package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
)

// InsertAchievement awards key to userID. It returns ErrDuplicate when the
// user already holds it.
func InsertAchievement(ctx context.Context, db *gorm.DB, userID uint, key string) (*domain.Achievement, error) {
	a := &domain.Achievement{UserID: userID, AchievementType: key, EarnedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if IsDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return a, nil
}

// ListAchievements returns the user's achievements, most recent first.
func ListAchievements(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Achievement, error) {
	var out []domain.Achievement
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

// AnnotateAchievementMint records that an external service minted a token
// for the achievement. It returns ErrNotFound when the user does not hold it.
func AnnotateAchievementMint(ctx context.Context, db *gorm.DB, userID uint, key string, tokenID int64, txHash string) error {
	res := db.WithContext(ctx).
		Model(&domain.Achievement{}).
		Where("user_id = ? AND achievement_type = ?", userID, key).
		Updates(map[string]any{"minted": true, "token_id": tokenID, "tx_hash": txHash})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
