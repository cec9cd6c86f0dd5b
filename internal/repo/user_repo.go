package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mood-journal/internal/domain"
)

// UpsertUser inserts u, or refreshes the existing row with the same
// ExternalID, in one statement. Empty profile fields never overwrite stored
// values. The stored row is returned.
func UpsertUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	row := *u
	row.ID = 0
	row.CreatedAt = now
	row.LastLogin = now

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"email":      gorm.Expr("COALESCE(NULLIF(excluded.email, ''), users.email)"),
				"name":       gorm.Expr("COALESCE(NULLIF(excluded.name, ''), users.name)"),
				"avatar_url": gorm.Expr("COALESCE(excluded.avatar_url, users.avatar_url)"),
				"last_login": now,
			}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}
	return GetUserByExternalID(ctx, db, u.ExternalID)
}

// GetUser fetches a user by primary key, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByExternalID fetches a user by the identity provider's subject.
func GetUserByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("external_id = ?", externalID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
