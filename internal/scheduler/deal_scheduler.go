package scheduler

import (
	"github.com/narayanji/distributor-app/internal/app/repository"
	"github.com/narayanji/distributor-app/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DealScheduler rotates the deal-of-the-day product at midnight.
type DealScheduler struct {
	cron        *cron.Cron
	productRepo repository.ProductRepository
}

func NewDealScheduler(productRepo repository.ProductRepository) *DealScheduler {
	return &DealScheduler{
		cron:        cron.New(),
		productRepo: productRepo,
	}
}

func (s *DealScheduler) Start() error {
	_, err := s.cron.AddFunc("0 0 * * *", s.rotate)
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Deal scheduler started", map[string]interface{}{
		"schedule": "daily at midnight",
	})
	return nil
}

func (s *DealScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Deal scheduler stopped", nil)
}

func (s *DealScheduler) rotate() {
	product, err := s.productRepo.RotateDealOfDay()
	if err != nil {
		logger.Error("Failed to rotate deal of the day", err, nil)
		return
	}

	logger.Info("Deal of the day updated", map[string]interface{}{
		"sku":  product.SKU,
		"name": product.Name,
	})
}
