package services

import (
	"context"

	"gorm.io/gorm"
)

// MetricsService maintains the per-user counters read by achievement rules.
type MetricsService struct {
	Tx    TxRunner
	Store MetricStore
}

// NewMetricsService builds a MetricsService over the repo query functions.
func NewMetricsService(tx TxRunner) *MetricsService {
	return &MetricsService{Tx: tx, Store: repoStore{}}
}

// RecordStatsView counts one view of the statistics page.
func (s *MetricsService) RecordStatsView(ctx context.Context, userID uint) error {
	err := s.Tx.Do(ctx, "metrics.stats_view", func(db *gorm.DB) error {
		return s.Store.IncrementStatsViews(ctx, db, userID)
	})
	return storageErr(err)
}

// StatsViews returns how often the user has viewed statistics.
func (s *MetricsService) StatsViews(ctx context.Context, userID uint) (int, error) {
	var n int
	err := s.Tx.Do(ctx, "metrics.stats_views", func(db *gorm.DB) error {
		var err error
		n, err = s.Store.StatsViews(ctx, db, userID)
		return err
	})
	return n, storageErr(err)
}
