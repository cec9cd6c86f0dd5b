package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/repo"
)

// UserInput is the profile reported by the identity provider on login.
type UserInput struct {
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
}

// UserService resolves external identities to local users.
type UserService struct {
	Tx    TxRunner
	Store UserStore
}

// NewUserService builds a UserService over the repo query functions.
func NewUserService(tx TxRunner) *UserService {
	return &UserService{Tx: tx, Store: repoStore{}}
}

// UpsertByExternalID creates the user on first login and refreshes the
// profile and last_login afterwards. Empty fields keep their stored values.
// Concurrent first logins for one identity resolve to a single row.
func (s *UserService) UpsertByExternalID(ctx context.Context, in UserInput) (*domain.User, error) {
	ext := strings.TrimSpace(in.ExternalID)
	if ext == "" {
		return nil, invalid("external id is required")
	}
	u := &domain.User{
		ExternalID: ext,
		Email:      strings.TrimSpace(in.Email),
		Name:       strings.TrimSpace(in.Name),
	}
	if avatar := strings.TrimSpace(in.AvatarURL); avatar != "" {
		if parsed, err := url.Parse(avatar); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, invalid("avatar_url must be an absolute URL")
		}
		u.AvatarURL = &avatar
	}

	var out *domain.User
	err := s.Tx.InTx(ctx, "users.upsert", func(tx *gorm.DB) error {
		var err error
		out, err = s.Store.UpsertUser(ctx, tx, u)
		return err
	})
	if err != nil && repo.IsDuplicate(err) {
		log.Debug().Str("external_id", ext).Msg("concurrent first login; reading winner")
		err = s.Tx.Do(ctx, "users.get", func(db *gorm.DB) error {
			var err error
			out, err = s.Store.GetUserByExternalID(ctx, db, ext)
			return err
		})
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	var out *domain.User
	err := s.Tx.Do(ctx, "users.get", func(db *gorm.DB) error {
		var err error
		out, err = s.Store.GetUser(ctx, db, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}
