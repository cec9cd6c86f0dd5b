// Package services holds the journal's use-cases: goal tracking with weekly
// rollover, progress increments, the journal streak, achievement evaluation,
// mood entries, statistics, users, and idempotent creation.
//
// Services return the sentinel errors below for predictable outcomes so the
// HTTP layer can map them to status codes. Storage failures are wrapped in
// ErrUnavailable (lock contention outlived the retry budget) or ErrStorage
// (anything else).
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tbourn/go-mood-journal/internal/repo"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrGoalNotFound indicates the goal does not exist or belongs to
	// another user.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrEntryNotFound indicates the mood entry does not exist or belongs
	// to another user.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrUserNotFound indicates no user has the requested id.
	ErrUserNotFound = errors.New("user not found")

	// ErrAchievementNotFound indicates the user does not hold the achievement.
	ErrAchievementNotFound = errors.New("achievement not found")

	// ErrUnavailable means storage stayed locked for the whole retry budget.
	// The request can be retried later.
	ErrUnavailable = errors.New("storage temporarily unavailable")

	// ErrStorage wraps any other storage failure.
	ErrStorage = errors.New("storage failure")
)

// ValidationError reports a rejected input. It matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func isServiceError(err error) bool {
	for _, s := range []error{ErrValidation, ErrGoalNotFound, ErrEntryNotFound, ErrUserNotFound, ErrAchievementNotFound, ErrUnavailable, ErrStorage} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

// storageErr maps an error leaving a unit of work to the service taxonomy.
// A foreign-key violation becomes ErrUserNotFound.
func storageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case isServiceError(err):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, repo.ErrTransient):
		return errors.Join(ErrUnavailable, err)
	case repo.IsForeignKey(err):
		// Goal-scoped writes load their goal first in the same unit of work,
		// so the only parent that can be missing here is the user.
		return errors.Join(ErrUserNotFound, repo.Classify(err))
	}
	return errors.Join(ErrStorage, repo.Classify(err))
}
