package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/config"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/service/reporting"
	"github.com/dbautista/palomitas/pkg/clients/alerts"
)

// InventorySource provides the snapshot for the low-stock digest.
type InventorySource interface {
	LowStock() []models.InventoryItem
}

// Scheduler manages the recurring report export and low-stock digest.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	inventory    InventorySource
	notifier     alerts.Notifier
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a scheduler in the configured timezone, falling back
// to the local zone when the name cannot be resolved.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, inventory InventorySource, notifier alerts.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = alerts.Nop{}
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		reportingSvc: reportingSvc,
		inventory:    inventory,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}

	// Low-stock digest every morning at 08:00.
	if _, err := s.cron.AddFunc("0 8 * * *", s.runLowStockDigest); err != nil {
		s.logger.Error("failed to schedule low stock digest", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailyReport() {
	s.logger.Info("generating scheduled report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.reportingSvc.Run(ctx); err != nil {
		s.logger.Error("scheduled report failed", zap.Error(err))
	}
}

func (s *Scheduler) runLowStockDigest() {
	items := s.inventory.LowStock()
	if len(items) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.notifier.Digest(ctx, items); err != nil {
		s.logger.Error("low stock digest failed", zap.Error(err))
	} else {
		s.logger.Info("low stock digest sent", zap.Int("items", len(items)))
	}
}
