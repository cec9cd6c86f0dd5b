package handlers

import (
	"context"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/http/middleware"
	"github.com/tbourn/go-mood-journal/internal/services"
	"github.com/tbourn/go-mood-journal/internal/utils"
)

// GoalService is the goal lifecycle consumed by the goal endpoints.
type GoalService interface {
	Create(ctx context.Context, userID uint, in services.GoalInput) (*domain.Goal, error)
	List(ctx context.Context, userID uint) ([]domain.Goal, error)
	Get(ctx context.Context, userID, goalID uint) (*domain.Goal, error)
	Update(ctx context.Context, userID, goalID uint, p services.GoalPatch) (*domain.Goal, error)
	Delete(ctx context.Context, userID, goalID uint) error
	Completions(ctx context.Context, userID, goalID uint, start, end string) ([]string, error)
}

// ProgressService records goal progress for today.
type ProgressService interface {
	Increment(ctx context.Context, userID, goalID uint) (*domain.Goal, error)
}

// AchievementService evaluates and lists achievements.
type AchievementService interface {
	CheckAndAward(ctx context.Context, userID uint) ([]string, error)
	Progress(ctx context.Context, userID uint) (map[string]services.RuleProgress, error)
	List(ctx context.Context, userID uint) ([]services.EarnedAchievement, error)
	AnnotateMint(ctx context.Context, userID uint, key string, tokenID int64, txHash string) error
}

// JournalService manages mood entries.
type JournalService interface {
	CreateEntry(ctx context.Context, userID uint, in services.EntryInput) (*domain.MoodEntry, error)
	ListEntries(ctx context.Context, userID uint, page, pageSize int) ([]domain.MoodEntry, int64, error)
	DeleteEntry(ctx context.Context, userID, entryID uint) error
	Statistics(ctx context.Context, userID uint) (*services.Statistics, error)
}

// StreakService reports the journal streak.
type StreakService interface {
	CurrentStreak(ctx context.Context, userID uint) (int, error)
}

// MetricsService records engagement counters.
type MetricsService interface {
	RecordStatsView(ctx context.Context, userID uint) error
}

// UserService resolves users from the identity provider.
type UserService interface {
	UpsertByExternalID(ctx context.Context, in services.UserInput) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
}

// IdempotencyService stores the outcome of keyed create requests.
type IdempotencyService interface {
	Remember(ctx context.Context, userID uint, scope, key string, resourceID uint, status int) (*domain.Idempotency, bool, error)
}

// Services bundles the core the handlers call into. Idempotency may be nil,
// in which case Idempotency-Key headers are validated but not stored.
type Services struct {
	Goals        GoalService
	Progress     ProgressService
	Achievements AchievementService
	Journal      JournalService
	Streaks      StreakService
	Metrics      MetricsService
	Users        UserService
	Idempotency  IdempotencyService
}

// Handlers groups the HTTP endpoints. It only translates between HTTP and
// the core.
type Handlers struct {
	svc Services
}

// New constructs Handlers bound to svc.
func New(svc Services) *Handlers {
	return &Handlers{svc: svc}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	pages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}

// clampPagination bounds the page and page_size query params. The page cap
// keeps the row offset within int32.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPageSize = 20
		maxPageSize     = 100
		maxPage         = math.MaxInt32 / maxPageSize
	)
	page = min(max(utils.AtoiDefault(c.Query("page"), 1), 1), maxPage)
	pageSize = min(max(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1), maxPageSize)
	return page, pageSize
}

// currentUser returns the caller resolved by middleware.Identity. A missing
// identity here means the route was mounted without it.
func currentUser(c *gin.Context) (uint, bool) {
	id, found := middleware.UserID(c)
	if !found {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing or invalid user identity")
	}
	return id, found
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, valid := utils.ParseID(c.Param(name))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
	}
	return id, valid
}

// evaluate runs the achievement evaluator after a committed mutation. The
// mutation already succeeded, so a failed evaluation is logged and reported
// as no new achievements.
func (h *Handlers) evaluate(c *gin.Context, userID uint) []string {
	keys, err := h.svc.Achievements.CheckAndAward(c.Request.Context(), userID)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Uint("user_id", userID).Msg("achievement evaluation failed")
		return []string{}
	}
	return keys
}
