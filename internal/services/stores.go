package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/repo"
)

// TxRunner runs units of work against storage. *repo.Gateway implements it.
type TxRunner interface {
	// InTx runs fn in one transaction, replaying it on lock contention.
	InTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error
	// Do runs fn without an explicit transaction, with the same retry.
	Do(ctx context.Context, op string, fn func(db *gorm.DB) error) error
}

// GoalStore is the query set used by GoalService and ProgressTracker.
type GoalStore interface {
	CreateGoal(ctx context.Context, db *gorm.DB, g *domain.Goal) error
	GetGoal(ctx context.Context, db *gorm.DB, userID, goalID uint) (*domain.Goal, error)
	ListGoals(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Goal, error)
	AdvanceGoalPeriod(ctx context.Context, db *gorm.DB, g *domain.Goal, prevPeriod string) (bool, error)
	SaveGoalProgress(ctx context.Context, db *gorm.DB, g *domain.Goal) error
	UpdateGoal(ctx context.Context, db *gorm.DB, userID, goalID uint, upd repo.GoalUpdate) (bool, error)
	DeleteGoal(ctx context.Context, db *gorm.DB, userID, goalID uint) (bool, error)
	InsertCompletion(ctx context.Context, db *gorm.DB, userID, goalID uint, date string) (bool, error)
	ListCompletionDates(ctx context.Context, db *gorm.DB, userID, goalID uint, start, end string) ([]string, error)
}

// JournalStore is the query set over mood entries.
type JournalStore interface {
	CreateEntry(ctx context.Context, db *gorm.DB, e *domain.MoodEntry) error
	ListEntriesPage(ctx context.Context, db *gorm.DB, userID uint, offset, limit int) ([]domain.MoodEntry, error)
	CountEntries(ctx context.Context, db *gorm.DB, userID uint) (int64, error)
	DistinctEntryDates(ctx context.Context, db *gorm.DB, userID uint) ([]string, error)
	DeleteEntry(ctx context.Context, db *gorm.DB, userID, entryID uint) (bool, error)
	MoodStats(ctx context.Context, db *gorm.DB, userID uint) (repo.MoodAggregate, error)
	MoodCounts(ctx context.Context, db *gorm.DB, userID uint) (map[int]int64, error)
}

// AchievementStore is the query set over awarded achievements.
type AchievementStore interface {
	InsertAchievement(ctx context.Context, db *gorm.DB, userID uint, key string) (*domain.Achievement, error)
	ListAchievements(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Achievement, error)
	AnnotateAchievementMint(ctx context.Context, db *gorm.DB, userID uint, key string, tokenID int64, txHash string) error
}

// MetricStore is the query set over per-user counters.
type MetricStore interface {
	IncrementStatsViews(ctx context.Context, db *gorm.DB, userID uint) error
	StatsViews(ctx context.Context, db *gorm.DB, userID uint) (int, error)
}

// UserStore is the query set over users.
type UserStore interface {
	UpsertUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error)
	GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error)
	GetUserByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*domain.User, error)
}

// IdempotencyStore is the query set over idempotency records.
type IdempotencyStore interface {
	GetIdempotency(ctx context.Context, db *gorm.DB, userID uint, scope, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, db *gorm.DB, userID uint, scope, key string, resourceID uint, status int, now time.Time, ttl time.Duration) (*domain.Idempotency, error)
}

// repoStore adapts the package-level repo functions to the store interfaces.
type repoStore struct{}

var (
	_ GoalStore        = repoStore{}
	_ JournalStore     = repoStore{}
	_ AchievementStore = repoStore{}
	_ MetricStore      = repoStore{}
	_ UserStore        = repoStore{}
	_ IdempotencyStore = repoStore{}
)

func (repoStore) CreateGoal(ctx context.Context, db *gorm.DB, g *domain.Goal) error {
	return repo.CreateGoal(ctx, db, g)
}
func (repoStore) GetGoal(ctx context.Context, db *gorm.DB, userID, goalID uint) (*domain.Goal, error) {
	return repo.GetGoal(ctx, db, userID, goalID)
}
func (repoStore) ListGoals(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Goal, error) {
	return repo.ListGoals(ctx, db, userID)
}
func (repoStore) AdvanceGoalPeriod(ctx context.Context, db *gorm.DB, g *domain.Goal, prevPeriod string) (bool, error) {
	return repo.AdvanceGoalPeriod(ctx, db, g, prevPeriod)
}
func (repoStore) SaveGoalProgress(ctx context.Context, db *gorm.DB, g *domain.Goal) error {
	return repo.SaveGoalProgress(ctx, db, g)
}
func (repoStore) UpdateGoal(ctx context.Context, db *gorm.DB, userID, goalID uint, upd repo.GoalUpdate) (bool, error) {
	return repo.UpdateGoal(ctx, db, userID, goalID, upd)
}
func (repoStore) DeleteGoal(ctx context.Context, db *gorm.DB, userID, goalID uint) (bool, error) {
	return repo.DeleteGoal(ctx, db, userID, goalID)
}
func (repoStore) InsertCompletion(ctx context.Context, db *gorm.DB, userID, goalID uint, date string) (bool, error) {
	return repo.InsertCompletion(ctx, db, userID, goalID, date)
}
func (repoStore) ListCompletionDates(ctx context.Context, db *gorm.DB, userID, goalID uint, start, end string) ([]string, error) {
	return repo.ListCompletionDates(ctx, db, userID, goalID, start, end)
}

func (repoStore) CreateEntry(ctx context.Context, db *gorm.DB, e *domain.MoodEntry) error {
	return repo.CreateEntry(ctx, db, e)
}
func (repoStore) ListEntriesPage(ctx context.Context, db *gorm.DB, userID uint, offset, limit int) ([]domain.MoodEntry, error) {
	return repo.ListEntriesPage(ctx, db, userID, offset, limit)
}
func (repoStore) CountEntries(ctx context.Context, db *gorm.DB, userID uint) (int64, error) {
	return repo.CountEntries(ctx, db, userID)
}
func (repoStore) DistinctEntryDates(ctx context.Context, db *gorm.DB, userID uint) ([]string, error) {
	return repo.DistinctEntryDates(ctx, db, userID)
}
func (repoStore) DeleteEntry(ctx context.Context, db *gorm.DB, userID, entryID uint) (bool, error) {
	return repo.DeleteEntry(ctx, db, userID, entryID)
}
func (repoStore) MoodStats(ctx context.Context, db *gorm.DB, userID uint) (repo.MoodAggregate, error) {
	return repo.MoodStats(ctx, db, userID)
}
func (repoStore) MoodCounts(ctx context.Context, db *gorm.DB, userID uint) (map[int]int64, error) {
	return repo.MoodCounts(ctx, db, userID)
}

func (repoStore) InsertAchievement(ctx context.Context, db *gorm.DB, userID uint, key string) (*domain.Achievement, error) {
	return repo.InsertAchievement(ctx, db, userID, key)
}
func (repoStore) ListAchievements(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Achievement, error) {
	return repo.ListAchievements(ctx, db, userID)
}
func (repoStore) AnnotateAchievementMint(ctx context.Context, db *gorm.DB, userID uint, key string, tokenID int64, txHash string) error {
	return repo.AnnotateAchievementMint(ctx, db, userID, key, tokenID, txHash)
}

func (repoStore) IncrementStatsViews(ctx context.Context, db *gorm.DB, userID uint) error {
	return repo.IncrementStatsViews(ctx, db, userID)
}
func (repoStore) StatsViews(ctx context.Context, db *gorm.DB, userID uint) (int, error) {
	return repo.StatsViews(ctx, db, userID)
}

func (repoStore) UpsertUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error) {
	return repo.UpsertUser(ctx, db, u)
}
func (repoStore) GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	return repo.GetUser(ctx, db, id)
}
func (repoStore) GetUserByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*domain.User, error) {
	return repo.GetUserByExternalID(ctx, db, externalID)
}

func (repoStore) GetIdempotency(ctx context.Context, db *gorm.DB, userID uint, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, db, userID, scope, key, now)
}
func (repoStore) CreateIdempotency(ctx context.Context, db *gorm.DB, userID uint, scope, key string, resourceID uint, status int, now time.Time, ttl time.Duration) (*domain.Idempotency, error) {
	return repo.CreateIdempotency(ctx, db, userID, scope, key, resourceID, status, now, ttl)
}
