package scheduler

import (
	"context"

	"github.com/amirtishiva/craftbiz-backend/internal/app/service"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// TrendingScheduler periodically recomputes the cached trending product list
type TrendingScheduler struct {
	cron           *cron.Cron
	productService service.ProductService
}

func NewTrendingScheduler(productService service.ProductService) *TrendingScheduler {
	return &TrendingScheduler{
		cron:           cron.New(),
		productService: productService,
	}
}

func (s *TrendingScheduler) Start() error {
	// Refresh every 30 minutes; the cache TTL outlives one missed run
	_, err := s.cron.AddFunc("*/30 * * * *", func() {
		logger.Info("Starting scheduled trending refresh", nil)

		if err := s.productService.RefreshTrending(context.Background()); err != nil {
			logger.Error("Failed to refresh trending products from scheduler", err)
			return
		}

		logger.Info("Trending products refreshed from scheduler", nil)
	})

	if err != nil {
		logger.Error("Failed to add cron job for trending refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Trending scheduler started (every 30 minutes)", nil)
	return nil
}

func (s *TrendingScheduler) Stop() {
	logger.Info("Stopping trending scheduler...", nil)
	s.cron.Stop()
	logger.Info("Trending scheduler stopped", nil)
}
