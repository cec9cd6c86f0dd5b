// Command server runs the mood journal HTTP API.
//
//	@title			Mood Journal API
//	@version		1.0
//	@description	Weekly goals, journal streaks, and achievements.
//	@BasePath		/api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookgo/clock"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-mood-journal/internal/config"
	httpapi "github.com/tbourn/go-mood-journal/internal/http"
	"github.com/tbourn/go-mood-journal/internal/observability"
	"github.com/tbourn/go-mood-journal/internal/repo"
	"github.com/tbourn/go-mood-journal/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

// Run wires storage, telemetry, and routes, then serves until ctx is done.
func Run(ctx context.Context, cfg config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DB.Path, repo.SQLiteOptions{
		BusyTimeout:     cfg.DB.BusyTimeout,
		MaxOpenConns:    cfg.DB.OpenConnsMax,
		ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := observability.InstrumentDB(db, cfg.OTEL.Enabled); err != nil {
		return fmt.Errorf("instrument database: %w", err)
	}
	if _, err := repo.Migrate(ctx, db, repo.Migrations()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	gw := repo.NewGateway(db, repo.RetryPolicy{
		Attempts:  cfg.DB.RetryAttempts,
		BaseDelay: cfg.DB.RetryBaseDelay,
		MaxDelay:  cfg.DB.RetryMaxDelay,
	})

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{Gateway: gw, Clock: clock.New(), Location: loc}, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("version", version).Str("db", cfg.DB.Path).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	closer := sysutil.SetupLogger(cfg)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server exited")
		closer.Close()
		os.Exit(1)
	}
}
