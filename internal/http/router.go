// Package httpapi wires the HTTP transport (Gin) to the journal core,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, identity, idempotency, and rate
// limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/facebookgo/clock"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-mood-journal/docs"
	"github.com/tbourn/go-mood-journal/internal/config"
	"github.com/tbourn/go-mood-journal/internal/http/handlers"
	"github.com/tbourn/go-mood-journal/internal/http/middleware"
	"github.com/tbourn/go-mood-journal/internal/repo"
	"github.com/tbourn/go-mood-journal/internal/services"
)

const (
	maxBodyBytes  = 1 << 20
	healthTimeout = 2 * time.Second
)

// Deps are the runtime collaborators the routes are built over.
type Deps struct {
	Gateway  *repo.Gateway
	Clock    clock.Clock
	Location *time.Location
}

// newServices builds the journal core over deps. The idempotency service is
// also returned on its own for the middleware lookup.
func newServices(deps Deps, cfg config.Config) (handlers.Services, *services.IdempotencyService) {
	gw, clk, loc := deps.Gateway, deps.Clock, deps.Location

	streaks := services.NewStreakCalculator(gw, clk, loc)
	goals := services.NewGoalService(gw, clk, loc)
	if cfg.CompletionsDefaultDays > 0 {
		goals.CompletionWindowDays = cfg.CompletionsDefaultDays
	}
	idem := services.NewIdempotencyService(gw, clk, cfg.IdempotencyTTL)
	return handlers.Services{
		Goals:        goals,
		Progress:     services.NewProgressTracker(gw, clk, loc),
		Achievements: services.NewAchievementEvaluator(gw, streaks),
		Journal:      services.NewJournalService(gw, streaks, clk, loc),
		Streaks:      streaks,
		Metrics:      services.NewMetricsService(gw),
		Users:        services.NewUserService(gw),
		Idempotency:  idem,
	}, idem
}

// RegisterRoutes attaches all middleware and endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID, RedactingLogger, Recovery: panics carry the correlation id
//  3. Body limit, metrics, gzip
//  4. CORS and security headers
//  5. Per API group: Identity, then idempotency (which marks replays), then
//     the rate limiter (which lets replays through)
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", health(deps.Gateway))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	svc, idem := newServices(deps, cfg)
	h := handlers.New(svc)
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())

	base := groupWithPrefix(r, cfg.APIBasePath)

	// Called by the auth layer before the caller has a user id.
	base.POST("/users/identify", rl.Handler(), h.IdentifyUser)

	api := base.Group("")
	api.Use(middleware.Identity())
	api.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idempotencyLookup(idem)))
	api.Use(rl.Handler())
	{
		api.GET("/users/me", h.CurrentUser)

		// Goals
		api.GET("/goals", h.ListGoals)
		api.POST("/goals", h.CreateGoal)
		api.GET("/goals/:id", h.GetGoal)
		api.PUT("/goals/:id", h.UpdateGoal)
		api.PATCH("/goals/:id", h.UpdateGoal)
		api.DELETE("/goals/:id", h.DeleteGoal)
		api.POST("/goals/:id/progress", h.IncrementGoal)
		api.GET("/goals/:id/completions", h.GoalCompletions)

		// Achievements
		api.GET("/achievements", h.ListAchievements)
		api.POST("/achievements/check", h.CheckAchievements)
		api.GET("/achievements/progress", h.AchievementProgress)
		api.PUT("/achievements/:key/mint", h.MintAchievement)

		// Journal
		api.POST("/moods", h.CreateEntry)
		api.GET("/moods", h.ListEntries)
		api.DELETE("/moods/:id", h.DeleteEntry)
		api.GET("/statistics", h.Statistics)
		api.GET("/streak", h.Streak)
	}
}

func idempotencyLookup(svc *services.IdempotencyService) middleware.IdempotencyLookup {
	return func(ctx context.Context, userID uint, scope, key string) (uint, bool, error) {
		rec, err := svc.Lookup(ctx, userID, scope, key)
		if err != nil || rec == nil {
			return 0, false, err
		}
		return rec.ResourceID, true, nil
	}
}

// health reports whether the database answers within healthTimeout.
func health(gw *repo.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := gw.Ping(ctx); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

var (
	corsMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderUserID, middleware.HeaderIdempotencyKey}
	corsExpose  = []string{"X-Request-ID", middleware.HeaderReplayed, "Retry-After", "Content-Length"}
)

// corsMiddleware allows every origin when origins is empty, otherwise only
// the listed ones, echoed back with Vary: Origin.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	if len(origins) == 0 {
		return []gin.HandlerFunc{
			// Set ACAO even without an Origin header so plain clients see it.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(cors.Config{
				AllowAllOrigins:  true,
				AllowMethods:     corsMethods,
				AllowHeaders:     corsHeaders,
				ExposeHeaders:    corsExpose,
				AllowCredentials: false,
				MaxAge:           12 * time.Hour,
			}),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	}
}

// limitBody caps request bodies at maxBytes; reads past it fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
