package services

import (
	"context"
	"errors"
	"time"

	"github.com/facebookgo/clock"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/repo"
)

// IdempotencyService remembers which resource a create request produced so
// a retry with the same Idempotency-Key can be answered without creating a
// second one.
type IdempotencyService struct {
	Tx    TxRunner
	Store IdempotencyStore
	Clock clock.Clock
	TTL   time.Duration
}

// NewIdempotencyService builds an IdempotencyService over the repo query
// functions. Records expire after ttl.
func NewIdempotencyService(tx TxRunner, clk clock.Clock, ttl time.Duration) *IdempotencyService {
	return &IdempotencyService{Tx: tx, Store: repoStore{}, Clock: clk, TTL: ttl}
}

// Lookup returns the live record for (userID, scope, key), or nil.
func (s *IdempotencyService) Lookup(ctx context.Context, userID uint, scope, key string) (*domain.Idempotency, error) {
	var rec *domain.Idempotency
	err := s.Tx.Do(ctx, "idempotency.get", func(db *gorm.DB) error {
		var err error
		rec, err = s.Store.GetIdempotency(ctx, db, userID, scope, key, s.Clock.Now().UTC())
		if errors.Is(err, repo.ErrNotFound) {
			rec, err = nil, nil
		}
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return rec, nil
}

// Remember stores resourceID as the outcome for (userID, scope, key). If a
// live record already exists it is returned with created=false.
func (s *IdempotencyService) Remember(ctx context.Context, userID uint, scope, key string, resourceID uint, status int) (rec *domain.Idempotency, created bool, err error) {
	now := s.Clock.Now().UTC()
	err = s.Tx.InTx(ctx, "idempotency.put", func(tx *gorm.DB) error {
		created = false
		var err error
		rec, err = s.Store.CreateIdempotency(ctx, tx, userID, scope, key, resourceID, status, now, s.TTL)
		if errors.Is(err, repo.ErrDuplicate) {
			rec, err = s.Store.GetIdempotency(ctx, tx, userID, scope, key, now)
			return err
		}
		created = err == nil
		return err
	})
	if err != nil {
		return nil, false, storageErr(err)
	}
	return rec, created, nil
}
