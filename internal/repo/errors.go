package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Error classes returned by this package. Infrastructure errors are tagged
// with errors.Join so callers can test the class with errors.Is and still
// see the driver message.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = gorm.ErrRecordNotFound

	// ErrDuplicate is returned by inserts that hit a unique index where the
	// caller treats the collision as an expected outcome.
	ErrDuplicate = errors.New("duplicate")

	// ErrTransient marks lock contention that outlived the retry budget.
	ErrTransient = errors.New("storage busy")

	// ErrIntegrity marks a constraint violation.
	ErrIntegrity = errors.New("integrity violation")

	// ErrMissingRef marks a write whose foreign key points at no row. It is
	// always joined with ErrIntegrity.
	ErrMissingRef = errors.New("referenced row missing")
)

// IsBusy reports whether err is SQLite lock contention (SQLITE_BUSY or
// SQLITE_LOCKED). The pure-Go driver only exposes these as message text.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "database is locked") ||
		strings.Contains(low, "database table is locked") ||
		strings.Contains(low, "sqlite_busy") ||
		strings.Contains(low, "sqlite_locked")
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// IsForeignKey reports whether err is a foreign-key violation.
func IsForeignKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingRef) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

// Classify tags err with its storage class. Already-classified errors,
// ErrNotFound, and context errors pass through untouched.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTransient), errors.Is(err, ErrIntegrity), errors.Is(err, ErrNotFound):
		return err
	case IsBusy(err):
		return errors.Join(ErrTransient, err)
	case IsDuplicate(err):
		return errors.Join(ErrIntegrity, err)
	case IsForeignKey(err):
		return errors.Join(ErrIntegrity, ErrMissingRef, err)
	}
	return err
}
