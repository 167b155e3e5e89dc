package scheduler

import (
	"github.com/ikitchen/ikitchen-backend/internal/app/repository"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// AnalyticsScheduler refreshes the store's derived analytics views on a
// schedule, so dashboards stay current even on days without an ingest.
type AnalyticsScheduler struct {
	cron      *cron.Cron
	orderRepo repository.OrderRepository
	spec      string
}

func NewAnalyticsScheduler(orderRepo repository.OrderRepository, spec string) *AnalyticsScheduler {
	return &AnalyticsScheduler{
		cron:      cron.New(),
		orderRepo: orderRepo,
		spec:      spec,
	}
}

func (s *AnalyticsScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled analytics refresh", nil)

		if err := s.orderRepo.RefreshAnalytics(); err != nil {
			logger.Error("Scheduled analytics refresh failed", err)
			return
		}

		logger.Info("Scheduled analytics refresh complete", nil)
	})
	if err != nil {
		logger.Error("Failed to add cron job for analytics refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Analytics scheduler started", map[string]interface{}{
		"cron": s.spec,
	})
	return nil
}

func (s *AnalyticsScheduler) Stop() {
	logger.Info("Stopping analytics scheduler...", nil)
	s.cron.Stop()
}
