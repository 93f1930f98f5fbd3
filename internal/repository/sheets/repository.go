// Package sheets exports store reports to a Google Sheets spreadsheet, one
// sheet per section.
package sheets

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/dbautista/palomitas/internal/config"
	"github.com/dbautista/palomitas/internal/domain/models"
)

const (
	salesRange     = "Ventas!A:G"
	inventoryRange = "Inventario!A:F"
	flavorsRange   = "Sabores!A:C"
	dateLayout     = "2006-01-02 15:04"
)

// Exporter appends report rows to the configured spreadsheet using the
// official Google Sheets API.
type Exporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewExporter builds a Google Sheets backed exporter instance.
func NewExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &Exporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ExportReport appends the report's summary, inventory snapshot and flavor
// breakdown to their sheets.
func (e *Exporter) ExportReport(ctx context.Context, report models.StoreReport) error {
	stamp := report.GeneratedAt.Format(dateLayout)

	summary := []interface{}{
		stamp,
		report.StoreName,
		report.DayTotal,
		report.WeekTotal,
		report.MonthTotal,
		report.GrowthRate,
		len(report.LowStockItems),
	}
	if err := e.appendRows(ctx, salesRange, [][]interface{}{summary}); err != nil {
		return err
	}

	inventoryRows := make([][]interface{}, 0, len(report.Inventory))
	for _, item := range report.Inventory {
		inventoryRows = append(inventoryRows, []interface{}{
			stamp, item.Name, string(item.Category), item.Quantity, item.Unit, item.ReorderLevel,
		})
	}
	if len(inventoryRows) > 0 {
		if err := e.appendRows(ctx, inventoryRange, inventoryRows); err != nil {
			return err
		}
	}

	flavors := make([]string, 0, len(report.SalesByFlavor))
	for flavor := range report.SalesByFlavor {
		flavors = append(flavors, flavor)
	}
	sort.Strings(flavors)
	flavorRows := make([][]interface{}, 0, len(flavors))
	for _, flavor := range flavors {
		flavorRows = append(flavorRows, []interface{}{stamp, flavor, report.SalesByFlavor[flavor]})
	}
	if len(flavorRows) > 0 {
		if err := e.appendRows(ctx, flavorsRange, flavorRows); err != nil {
			return err
		}
	}

	e.logger.Info("report exported to spreadsheet",
		zap.Int("inventory_rows", len(inventoryRows)),
		zap.Int("flavor_rows", len(flavorRows)))
	return nil
}

func (e *Exporter) appendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	payload := &sheetsapi.ValueRange{Values: rows}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into range %s: %w", sheetRange, err)
	}

	e.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("count", len(rows)))
	return nil
}
