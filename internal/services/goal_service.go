package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/facebookgo/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/observability"
	"github.com/tbourn/go-mood-journal/internal/repo"
	"github.com/tbourn/go-mood-journal/internal/rollover"
)

const (
	minFrequency = 1
	maxFrequency = 7
)

// GoalInput is the payload for creating a goal.
type GoalInput struct {
	Title            string
	Description      string
	FrequencyPerWeek int
}

// GoalPatch is a partial edit; nil fields are left unchanged.
type GoalPatch struct {
	Title            *string
	Description      *string
	FrequencyPerWeek *int
}

// GoalService manages a user's recurring weekly goals. Every read brings the
// goal into the current week before returning it.
type GoalService struct {
	Tx       TxRunner
	Store    GoalStore
	Clock    clock.Clock
	Location *time.Location

	// CompletionWindowDays is the trailing window used by Completions when a
	// bound is missing.
	CompletionWindowDays int
	// TitleMaxLen caps titles by rune count.
	TitleMaxLen int
}

// NewGoalService builds a GoalService over the repo query functions.
func NewGoalService(tx TxRunner, clk clock.Clock, loc *time.Location) *GoalService {
	return &GoalService{
		Tx:                   tx,
		Store:                repoStore{},
		Clock:                clk,
		Location:             loc,
		CompletionWindowDays: 90,
		TitleMaxLen:          200,
	}
}

func (s *GoalService) today() civil.Date { return rollover.Today(s.Clock, s.Location) }

// Create validates in and inserts a goal whose first period is the current
// week, with zero progress and no streak.
func (s *GoalService) Create(ctx context.Context, userID uint, in GoalInput) (*domain.Goal, error) {
	ctx, span := observability.Tracer("services/GoalService").Start(ctx, "Create",
		trace.WithAttributes(attribute.Int64("user_id", int64(userID))))
	defer span.End()

	if userID == 0 {
		return nil, invalid("user id must be positive")
	}
	title, err := s.cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if err := checkFrequency(in.FrequencyPerWeek); err != nil {
		return nil, err
	}

	today := s.today()
	g := &domain.Goal{
		UserID:           userID,
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		FrequencyPerWeek: in.FrequencyPerWeek,
		PeriodStart:      rollover.WeekStart(today).String(),
	}
	err = s.Tx.InTx(ctx, "goals.create", func(tx *gorm.DB) error {
		g.ID = 0
		return s.Store.CreateGoal(ctx, tx, g)
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return g, nil
}

// List returns the user's goals, each rolled into the current week.
func (s *GoalService) List(ctx context.Context, userID uint) ([]domain.Goal, error) {
	ctx, span := observability.Tracer("services/GoalService").Start(ctx, "List",
		trace.WithAttributes(attribute.Int64("user_id", int64(userID))))
	defer span.End()

	today := s.today()
	var (
		out    []domain.Goal
		rolled int
	)
	err := s.Tx.InTx(ctx, "goals.list", func(tx *gorm.DB) error {
		out, rolled = nil, 0
		goals, err := s.Store.ListGoals(ctx, tx, userID)
		if err != nil {
			return err
		}
		out = make([]domain.Goal, 0, len(goals))
		for i := range goals {
			g, won, err := syncPeriod(ctx, tx, s.Store, &goals[i], today)
			if errors.Is(err, ErrGoalNotFound) {
				continue // deleted concurrently
			}
			if err != nil {
				return err
			}
			if won {
				rolled++
			}
			out = append(out, *g)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	observability.GoalRollovers.Add(float64(rolled))
	return out, nil
}

// Get returns one goal rolled into the current week, or ErrGoalNotFound.
func (s *GoalService) Get(ctx context.Context, userID, goalID uint) (*domain.Goal, error) {
	ctx, span := observability.Tracer("services/GoalService").Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("user_id", int64(userID)), attribute.Int64("goal_id", int64(goalID))))
	defer span.End()

	today := s.today()
	var (
		out *domain.Goal
		won bool
	)
	err := s.Tx.InTx(ctx, "goals.get", func(tx *gorm.DB) error {
		var err error
		out, won, err = loadCurrent(ctx, tx, s.Store, userID, goalID, today)
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if won {
		observability.GoalRollovers.Inc()
	}
	return out, nil
}

// Update rolls the goal into the current week, applies p and returns the
// goal as now stored. Lowering the target clamps the week's progress to it.
// An empty patch is a validation error.
func (s *GoalService) Update(ctx context.Context, userID, goalID uint, p GoalPatch) (*domain.Goal, error) {
	ctx, span := observability.Tracer("services/GoalService").Start(ctx, "Update",
		trace.WithAttributes(attribute.Int64("user_id", int64(userID)), attribute.Int64("goal_id", int64(goalID))))
	defer span.End()

	upd := repo.GoalUpdate{Description: p.Description, FrequencyPerWeek: p.FrequencyPerWeek}
	if p.Title != nil {
		title, err := s.cleanTitle(*p.Title)
		if err != nil {
			return nil, err
		}
		upd.Title = &title
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		upd.Description = &desc
	}
	if p.FrequencyPerWeek != nil {
		if err := checkFrequency(*p.FrequencyPerWeek); err != nil {
			return nil, err
		}
	}
	if upd.Empty() {
		return nil, invalid("no changes")
	}

	today := s.today()
	var (
		out *domain.Goal
		won bool
	)
	err := s.Tx.InTx(ctx, "goals.update", func(tx *gorm.DB) error {
		// Roll first so the edit only touches the current week.
		var err error
		if _, won, err = loadCurrent(ctx, tx, s.Store, userID, goalID, today); err != nil {
			return err
		}
		ok, err := s.Store.UpdateGoal(ctx, tx, userID, goalID, upd)
		if err != nil {
			return err
		}
		if !ok {
			return ErrGoalNotFound
		}
		out, err = s.Store.GetGoal(ctx, tx, userID, goalID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrGoalNotFound
		}
		if err != nil {
			return err
		}
		out.AlreadyCompletedToday = out.LastCompletedDate == today.String()
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if won {
		observability.GoalRollovers.Inc()
	}
	return out, nil
}

// Delete removes the goal and its completion history.
func (s *GoalService) Delete(ctx context.Context, userID, goalID uint) error {
	err := s.Tx.InTx(ctx, "goals.delete", func(tx *gorm.DB) error {
		ok, err := s.Store.DeleteGoal(ctx, tx, userID, goalID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrGoalNotFound
		}
		return nil
	})
	return storageErr(err)
}

// Completions returns the ISO dates on which the goal was progressed within
// [start, end], ascending. When either bound is empty the window is the
// trailing CompletionWindowDays ending today.
func (s *GoalService) Completions(ctx context.Context, userID, goalID uint, start, end string) ([]string, error) {
	from, to, err := s.completionWindow(start, end)
	if err != nil {
		return nil, err
	}

	var out []string
	err = s.Tx.InTx(ctx, "goals.completions", func(tx *gorm.DB) error {
		if _, err := s.Store.GetGoal(ctx, tx, userID, goalID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrGoalNotFound
			}
			return err
		}
		var err error
		out, err = s.Store.ListCompletionDates(ctx, tx, userID, goalID, from.String(), to.String())
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *GoalService) completionWindow(start, end string) (civil.Date, civil.Date, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		days := s.CompletionWindowDays
		if days < 1 {
			days = 90
		}
		to := s.today()
		return to.AddDays(-days), to, nil
	}
	from, err := civil.ParseDate(start)
	if err != nil {
		return civil.Date{}, civil.Date{}, invalid("start must be an ISO date (YYYY-MM-DD)")
	}
	to, err := civil.ParseDate(end)
	if err != nil {
		return civil.Date{}, civil.Date{}, invalid("end must be an ISO date (YYYY-MM-DD)")
	}
	if to.Before(from) {
		return civil.Date{}, civil.Date{}, invalid("end must not be before start")
	}
	return from, to, nil
}

func (s *GoalService) cleanTitle(title string) (string, error) {
	title = norm.NFC.String(whitespaceRE.ReplaceAllString(strings.TrimSpace(title), " "))
	if title == "" {
		return "", invalid("title is required")
	}
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return "", invalid("title must be at most %d characters", s.TitleMaxLen)
	}
	return title, nil
}

func checkFrequency(f int) error {
	if f < minFrequency || f > maxFrequency {
		return invalid("frequency_per_week must be between %d and %d", minFrequency, maxFrequency)
	}
	return nil
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
