package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/http/middleware"
	"github.com/tbourn/go-mood-journal/internal/services"
)

type stubGoals struct {
	create      func(context.Context, uint, services.GoalInput) (*domain.Goal, error)
	list        func(context.Context, uint) ([]domain.Goal, error)
	get         func(context.Context, uint, uint) (*domain.Goal, error)
	update      func(context.Context, uint, uint, services.GoalPatch) (*domain.Goal, error)
	del         func(context.Context, uint, uint) error
	completions func(context.Context, uint, uint, string, string) ([]string, error)
}

func (s *stubGoals) Create(ctx context.Context, u uint, in services.GoalInput) (*domain.Goal, error) {
	return s.create(ctx, u, in)
}

func (s *stubGoals) List(ctx context.Context, u uint) ([]domain.Goal, error) { return s.list(ctx, u) }

func (s *stubGoals) Get(ctx context.Context, u, g uint) (*domain.Goal, error) { return s.get(ctx, u, g) }

func (s *stubGoals) Update(ctx context.Context, u, g uint, p services.GoalPatch) (*domain.Goal, error) {
	return s.update(ctx, u, g, p)
}

func (s *stubGoals) Delete(ctx context.Context, u, g uint) error { return s.del(ctx, u, g) }

func (s *stubGoals) Completions(ctx context.Context, u, g uint, start, end string) ([]string, error) {
	return s.completions(ctx, u, g, start, end)
}

type stubProgress struct {
	increment func(context.Context, uint, uint) (*domain.Goal, error)
}

func (s *stubProgress) Increment(ctx context.Context, u, g uint) (*domain.Goal, error) {
	return s.increment(ctx, u, g)
}

type stubAchievements struct {
	check    func(context.Context, uint) ([]string, error)
	progress func(context.Context, uint) (map[string]services.RuleProgress, error)
	list     func(context.Context, uint) ([]services.EarnedAchievement, error)
	mint     func(context.Context, uint, string, int64, string) error
	checks   int
}

func (s *stubAchievements) CheckAndAward(ctx context.Context, u uint) ([]string, error) {
	s.checks++
	if s.check == nil {
		return []string{}, nil
	}
	return s.check(ctx, u)
}

func (s *stubAchievements) Progress(ctx context.Context, u uint) (map[string]services.RuleProgress, error) {
	return s.progress(ctx, u)
}

func (s *stubAchievements) List(ctx context.Context, u uint) ([]services.EarnedAchievement, error) {
	return s.list(ctx, u)
}

func (s *stubAchievements) AnnotateMint(ctx context.Context, u uint, key string, tokenID int64, txHash string) error {
	return s.mint(ctx, u, key, tokenID, txHash)
}

type stubJournal struct {
	create func(context.Context, uint, services.EntryInput) (*domain.MoodEntry, error)
	list   func(context.Context, uint, int, int) ([]domain.MoodEntry, int64, error)
	del    func(context.Context, uint, uint) error
	stats  func(context.Context, uint) (*services.Statistics, error)
}

func (s *stubJournal) CreateEntry(ctx context.Context, u uint, in services.EntryInput) (*domain.MoodEntry, error) {
	return s.create(ctx, u, in)
}

func (s *stubJournal) ListEntries(ctx context.Context, u uint, page, size int) ([]domain.MoodEntry, int64, error) {
	return s.list(ctx, u, page, size)
}

func (s *stubJournal) DeleteEntry(ctx context.Context, u, id uint) error { return s.del(ctx, u, id) }

func (s *stubJournal) Statistics(ctx context.Context, u uint) (*services.Statistics, error) {
	return s.stats(ctx, u)
}

type stubStreaks struct {
	n   int
	err error
}

func (s stubStreaks) CurrentStreak(context.Context, uint) (int, error) { return s.n, s.err }

type stubMetrics struct {
	views int
	err   error
}

func (s *stubMetrics) RecordStatsView(context.Context, uint) error {
	s.views++
	return s.err
}

type stubUsers struct {
	upsert func(context.Context, services.UserInput) (*domain.User, error)
	get    func(context.Context, uint) (*domain.User, error)
}

func (s *stubUsers) UpsertByExternalID(ctx context.Context, in services.UserInput) (*domain.User, error) {
	return s.upsert(ctx, in)
}

func (s *stubUsers) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.get(ctx, id)
}

type stubIdem struct {
	remember func(context.Context, uint, string, string, uint, int) (*domain.Idempotency, bool, error)
}

func (s *stubIdem) Remember(ctx context.Context, u uint, scope, key string, id uint, status int) (*domain.Idempotency, bool, error) {
	return s.remember(ctx, u, scope, key, id, status)
}

// newRouter mounts h the way the API group does, minus rate limiting.
func newRouter(h *Handlers, lookup middleware.IdempotencyLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/users/identify", h.IdentifyUser)

	api := r.Group("/")
	api.Use(middleware.Identity())
	api.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, lookup))
	api.GET("/users/me", h.CurrentUser)
	api.GET("/goals", h.ListGoals)
	api.POST("/goals", h.CreateGoal)
	api.GET("/goals/:id", h.GetGoal)
	api.PUT("/goals/:id", h.UpdateGoal)
	api.PATCH("/goals/:id", h.UpdateGoal)
	api.DELETE("/goals/:id", h.DeleteGoal)
	api.POST("/goals/:id/progress", h.IncrementGoal)
	api.GET("/goals/:id/completions", h.GoalCompletions)
	api.GET("/achievements", h.ListAchievements)
	api.POST("/achievements/check", h.CheckAchievements)
	api.GET("/achievements/progress", h.AchievementProgress)
	api.PUT("/achievements/:key/mint", h.MintAchievement)
	api.POST("/moods", h.CreateEntry)
	api.GET("/moods", h.ListEntries)
	api.DELETE("/moods/:id", h.DeleteEntry)
	api.GET("/statistics", h.Statistics)
	api.GET("/streak", h.Streak)
	return r
}

// do sends a request as user 7 unless the caller overrides X-User-ID.
func do(t *testing.T, r http.Handler, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderUserID, "7")
	for k, v := range hdr {
		if v == "" {
			req.Header.Del(k)
			continue
		}
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("json: %v (body=%s)", err, w.Body.String())
	}
	return v
}
