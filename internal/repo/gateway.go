package repo

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/observability"
)

// RetryPolicy bounds how often lock contention is retried.
// Attempts counts every try, including the first.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy allows three tries, backing off from 100ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}
}

// Gateway owns the database handle and runs units of work against it.
// Only lock contention is retried; every other error is returned on the
// first failure.
type Gateway struct {
	db     *gorm.DB
	policy RetryPolicy
}

// NewGateway builds a Gateway over db.
func NewGateway(db *gorm.DB, policy RetryPolicy) *Gateway {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryPolicy().BaseDelay
	}
	if policy.MaxDelay < policy.BaseDelay {
		policy.MaxDelay = policy.BaseDelay
	}
	return &Gateway{db: db, policy: policy}
}

// DB exposes the root handle for bootstrapping (migrations, health checks).
func (g *Gateway) DB() *gorm.DB { return g.db }

// InTx runs fn inside a single transaction. The transaction commits when fn
// returns nil and rolls back otherwise. If the transaction fails on lock
// contention the whole unit, fn included, is replayed, so fn must not keep
// state across calls. op names the unit in logs and metrics.
func (g *Gateway) InTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	return g.retry(ctx, op, func() error {
		return g.db.WithContext(ctx).Transaction(fn)
	})
}

// Do runs fn outside an explicit transaction, with the same retry policy.
// It suits single statements that are atomic on their own.
func (g *Gateway) Do(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	return g.retry(ctx, op, func() error {
		return fn(g.db.WithContext(ctx))
	})
}

// Ping checks that the database answers.
func (g *Gateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *Gateway) retry(ctx context.Context, op string, unit func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.policy.BaseDelay
	b.MaxInterval = g.policy.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0.2

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := unit()
		if err == nil {
			return struct{}{}, nil
		}
		if IsBusy(err) {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(g.policy.Attempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			observability.StorageRetries.WithLabelValues(op).Inc()
			log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Dur("retry_in", next).Msg("storage busy; retrying")
		}),
	)
	if err == nil {
		return nil
	}
	if IsBusy(err) {
		log.Error().Err(err).Str("op", op).Int("attempts", attempt).Msg("storage busy; retry budget exhausted")
		return errors.Join(ErrTransient, err)
	}
	return err
}
