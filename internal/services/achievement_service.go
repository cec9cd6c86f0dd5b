package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/observability"
	"github.com/tbourn/go-mood-journal/internal/repo"
)

// Streaker reports a user's journal streak.
type Streaker interface {
	CurrentStreak(ctx context.Context, userID uint) (int, error)
}

// RuleProgress is how far a user is towards one achievement.
type RuleProgress struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// EarnedAchievement is an owned achievement joined with its catalogue entry.
type EarnedAchievement struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Rarity      string    `json:"rarity"`
	EarnedAt    time.Time `json:"earned_at"`
	Minted      bool      `json:"minted"`
	TokenID     *int64    `json:"token_id,omitempty"`
	TxHash      *string   `json:"tx_hash,omitempty"`
}

// AchievementEvaluator awards achievements whose thresholds a user has met.
type AchievementEvaluator struct {
	Tx      TxRunner
	Store   AchievementStore
	Journal JournalStore
	Metrics MetricStore
	Streaks Streaker
	Rules   []domain.AchievementRule
}

// NewAchievementEvaluator builds an evaluator over the repo query functions
// and the standard rule catalogue.
func NewAchievementEvaluator(tx TxRunner, streaks Streaker) *AchievementEvaluator {
	return &AchievementEvaluator{
		Tx:      tx,
		Store:   repoStore{},
		Journal: repoStore{},
		Metrics: repoStore{},
		Streaks: streaks,
		Rules:   domain.AchievementRules(),
	}
}

// Snapshot gathers the inputs the rules are evaluated against.
func (e *AchievementEvaluator) Snapshot(ctx context.Context, userID uint) (domain.AchievementMetrics, error) {
	var m domain.AchievementMetrics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return e.Tx.Do(gctx, "moods.count", func(db *gorm.DB) error {
			n, err := e.Journal.CountEntries(gctx, db, userID)
			m.TotalEntries = int(n)
			return err
		})
	})
	g.Go(func() error {
		return e.Tx.Do(gctx, "metrics.stats_views", func(db *gorm.DB) error {
			n, err := e.Metrics.StatsViews(gctx, db, userID)
			m.StatsViews = n
			return err
		})
	})
	g.Go(func() error {
		n, err := e.Streaks.CurrentStreak(gctx, userID)
		m.CurrentStreak = n
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.AchievementMetrics{}, storageErr(err)
	}
	return m, nil
}

// CheckAndAward evaluates every rule and stores the ones newly met. It
// returns only the keys awarded by this call; achievements the user already
// held are skipped silently.
func (e *AchievementEvaluator) CheckAndAward(ctx context.Context, userID uint) ([]string, error) {
	ctx, span := observability.Tracer("services/AchievementEvaluator").Start(ctx, "CheckAndAward")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", int64(userID)))

	m, err := e.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	var met []string
	for _, r := range e.Rules {
		if r.Met(m) {
			met = append(met, r.Key)
		}
	}
	if len(met) == 0 {
		return []string{}, nil
	}

	var awarded []string
	err = e.Tx.InTx(ctx, "achievements.award", func(tx *gorm.DB) error {
		awarded = awarded[:0]
		for _, key := range met {
			_, err := e.Store.InsertAchievement(ctx, tx, userID, key)
			if errors.Is(err, repo.ErrDuplicate) {
				continue
			}
			if err != nil {
				return err
			}
			awarded = append(awarded, key)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}

	for _, key := range awarded {
		observability.AchievementsUnlocked.WithLabelValues(key).Inc()
	}
	if len(awarded) > 0 {
		log.Info().Uint("user_id", userID).Strs("achievements", awarded).Msg("achievements unlocked")
	}
	if awarded == nil {
		awarded = []string{}
	}
	return awarded, nil
}

// Progress reports {current, max} for every rule, with current clamped to
// the threshold. It writes nothing.
func (e *AchievementEvaluator) Progress(ctx context.Context, userID uint) (map[string]RuleProgress, error) {
	m, err := e.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]RuleProgress, len(e.Rules))
	for _, r := range e.Rules {
		cur, max := r.Progress(m)
		out[r.Key] = RuleProgress{Current: cur, Max: max}
	}
	return out, nil
}

// List returns the user's achievements with catalogue metadata, newest
// first. Stored keys missing from the catalogue are listed with the key as
// their name.
func (e *AchievementEvaluator) List(ctx context.Context, userID uint) ([]EarnedAchievement, error) {
	var rows []domain.Achievement
	err := e.Tx.Do(ctx, "achievements.list", func(db *gorm.DB) error {
		var err error
		rows, err = e.Store.ListAchievements(ctx, db, userID)
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}

	out := make([]EarnedAchievement, 0, len(rows))
	for _, a := range rows {
		ea := EarnedAchievement{
			Key:      a.AchievementType,
			Name:     a.AchievementType,
			EarnedAt: a.EarnedAt,
			Minted:   a.Minted,
			TokenID:  a.TokenID,
			TxHash:   a.TxHash,
		}
		if r, ok := domain.LookupAchievement(a.AchievementType); ok {
			ea.Name, ea.Description, ea.Icon, ea.Rarity = r.Name, r.Description, r.Icon, r.Rarity
		}
		out = append(out, ea)
	}
	return out, nil
}

// AnnotateMint records an externally minted token for an owned achievement.
func (e *AchievementEvaluator) AnnotateMint(ctx context.Context, userID uint, key string, tokenID int64, txHash string) error {
	key, txHash = strings.TrimSpace(key), strings.TrimSpace(txHash)
	if _, ok := domain.LookupAchievement(key); !ok {
		return invalid("unknown achievement %q", key)
	}
	if tokenID < 0 {
		return invalid("token_id must not be negative")
	}
	if txHash == "" {
		return invalid("tx_hash is required")
	}
	err := e.Tx.Do(ctx, "achievements.mint", func(db *gorm.DB) error {
		err := e.Store.AnnotateAchievementMint(ctx, db, userID, key, tokenID, txHash)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAchievementNotFound
		}
		return err
	})
	return storageErr(err)
}
