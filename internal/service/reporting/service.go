// Package reporting derives dashboard aggregates from the sales mirror and
// assembles the exported store report.
package reporting

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

// SalesSource provides the sales snapshot the aggregates run over.
type SalesSource interface {
	List() []models.Sale
}

// InventorySource provides the inventory snapshot attached to reports.
type InventorySource interface {
	List() []models.InventoryItem
	LowStock() []models.InventoryItem
}

// SettingsSource provides the store settings used for report headers.
type SettingsSource interface {
	Get() (models.StoreSettings, bool)
}

// Exporter ships a finished report to an external destination.
type Exporter interface {
	ExportReport(ctx context.Context, report models.StoreReport) error
}

// Service builds, persists and exports store reports.
type Service struct {
	sales     SalesSource
	inventory InventorySource
	settings  SettingsSource
	reports   remote.ReportsRepository
	exporter  Exporter
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires the reporting service. exporter may be nil when no
// spreadsheet destination is configured.
func NewService(sales SalesSource, inventory InventorySource, settings SettingsSource, reports remote.ReportsRepository, exporter Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sales:     sales,
		inventory: inventory,
		settings:  settings,
		reports:   reports,
		exporter:  exporter,
		logger:    logger,
		now:       time.Now,
	}
}

// Build assembles the current report snapshot.
func (s *Service) Build() models.StoreReport {
	now := s.now()
	salesSnapshot := s.sales.List()

	storeName := "Palomitas"
	if settings, ok := s.settings.Get(); ok && settings.StoreName != "" {
		storeName = settings.StoreName
	}

	return models.StoreReport{
		GeneratedAt:   now,
		StoreName:     storeName,
		DayTotal:      TotalAmount(salesSnapshot, now, PeriodDay),
		WeekTotal:     TotalAmount(salesSnapshot, now, PeriodWeek),
		MonthTotal:    TotalAmount(salesSnapshot, now, PeriodMonth),
		DaySales:      len(SalesInWindow(salesSnapshot, now, PeriodDay)),
		WeekSales:     len(SalesInWindow(salesSnapshot, now, PeriodWeek)),
		GrowthRate:    GrowthRate(salesSnapshot, now),
		SalesByFlavor: CountByFlavor(salesSnapshot, now, PeriodWeek),
		Inventory:     s.inventory.List(),
		LowStockItems: s.inventory.LowStock(),
	}
}

// Run builds the report, persists the snapshot and exports it. Export
// failures do not lose the persisted snapshot.
func (s *Service) Run(ctx context.Context) (models.StoreReport, error) {
	report := s.Build()

	if err := s.reports.SaveReport(ctx, report); err != nil {
		return models.StoreReport{}, err
	}

	if s.exporter != nil {
		if err := s.exporter.ExportReport(ctx, report); err != nil {
			s.logger.Error("report export failed", zap.Error(err))
			return report, err
		}
	}

	s.logger.Info("report generated",
		zap.Float64("week_total", report.WeekTotal),
		zap.Int("low_stock_items", len(report.LowStockItems)))
	return report, nil
}
