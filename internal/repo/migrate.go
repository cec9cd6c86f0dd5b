package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/observability"
)

// MigrationStep is one named, idempotent schema change. A failing Critical
// step aborts the migration; any other failing step is reported and skipped.
type MigrationStep struct {
	Name     string
	Critical bool
	Apply    func(tx *gorm.DB) error
}

// MigrationResult is the outcome of one step.
type MigrationResult struct {
	Name     string
	Critical bool
	OK       bool
	Err      error
}

// ErrMigration wraps the failure of a critical step.
var ErrMigration = errors.New("migration failed")

func autoMigrate(models ...any) func(*gorm.DB) error {
	return func(tx *gorm.DB) error { return tx.AutoMigrate(models...) }
}

// Migrations returns the schema steps in the order they must run.
func Migrations() []MigrationStep {
	return []MigrationStep{
		{Name: "users", Critical: true, Apply: autoMigrate(&domain.User{})},
		{Name: "mood_entries", Critical: true, Apply: autoMigrate(&domain.MoodEntry{})},
		{Name: "achievements", Critical: true, Apply: autoMigrate(&domain.Achievement{})},
		{
			// Tables created before progress tracking lack the column. Runs
			// ahead of the goals step, which would otherwise add it silently.
			Name: "goals.last_completed_date",
			Apply: func(tx *gorm.DB) error {
				m := tx.Migrator()
				if !m.HasTable(&domain.Goal{}) || m.HasColumn(&domain.Goal{}, "LastCompletedDate") {
					return nil
				}
				return m.AddColumn(&domain.Goal{}, "LastCompletedDate")
			},
		},
		{Name: "goals", Critical: true, Apply: autoMigrate(&domain.Goal{})},
		{Name: "goal_completions", Critical: true, Apply: autoMigrate(&domain.GoalCompletion{})},
		{Name: "user_metrics", Apply: autoMigrate(&domain.UserMetric{})},
		{Name: "idempotency", Apply: autoMigrate(&domain.Idempotency{})},
		{
			Name: "idx_mood_entries_user_date",
			Apply: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_mood_entries_user_date ON mood_entries (user_id, date)").Error
			},
		},
		{
			Name: "idx_achievements_user_earned",
			Apply: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_achievements_user_earned ON achievements (user_id, earned_at)").Error
			},
		},
	}
}

// Migrate runs steps in order and returns one result per attempted step.
// It stops at the first failing critical step and returns ErrMigration
// joined with the cause.
func Migrate(ctx context.Context, db *gorm.DB, steps []MigrationStep) ([]MigrationResult, error) {
	results := make([]MigrationResult, 0, len(steps))
	for _, s := range steps {
		err := s.Apply(db.WithContext(ctx))
		res := MigrationResult{Name: s.Name, Critical: s.Critical, OK: err == nil, Err: err}
		results = append(results, res)
		observability.MigrationSteps.WithLabelValues(s.Name, strconv.FormatBool(res.OK)).Inc()

		switch {
		case err == nil:
			log.Debug().Str("step", s.Name).Bool("ok", true).Msg("migration step applied")
		case s.Critical:
			log.Error().Err(err).Str("step", s.Name).Bool("ok", false).Msg("critical migration step failed")
			return results, errors.Join(ErrMigration, fmt.Errorf("step %s: %w", s.Name, err))
		default:
			log.Warn().Err(err).Str("step", s.Name).Bool("ok", false).Msg("migration step failed; continuing")
		}
	}
	return results, nil
}
