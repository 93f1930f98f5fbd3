package reporting

import (
	"time"

	"github.com/dbautista/palomitas/internal/domain/models"
)

// Period selects a trailing time window for aggregation.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

const (
	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

// SalesInWindow filters sales to the given trailing window, preserving the
// input order. Day means the same calendar date as now in now's location;
// week and month are fixed trailing spans, not calendar units.
func SalesInWindow(sales []models.Sale, now time.Time, period Period) []models.Sale {
	var cutoff time.Time
	switch period {
	case PeriodDay:
		year, month, day := now.Date()
		cutoff = time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		cutoff = now.Add(-weekWindow)
	case PeriodMonth:
		cutoff = now.Add(-monthWindow)
	default:
		return nil
	}

	var out []models.Sale
	for _, sale := range sales {
		if !sale.CreatedAt.Before(cutoff) && !sale.CreatedAt.After(now) {
			out = append(out, sale)
		}
	}
	return out
}

// TotalAmount sums the raw amounts over the window. Zero for an empty
// window.
func TotalAmount(sales []models.Sale, now time.Time, period Period) float64 {
	var total float64
	for _, sale := range SalesInWindow(sales, now, period) {
		total += sale.TotalAmountRaw
	}
	return total
}

// CountByFlavor maps each flavor sold in the window to its summed quantity.
// Flavors with no sales in the window do not appear.
func CountByFlavor(sales []models.Sale, now time.Time, period Period) map[string]int {
	counts := make(map[string]int)
	for _, sale := range SalesInWindow(sales, now, period) {
		counts[sale.Flavor] += sale.Quantity
	}
	return counts
}

// GrowthRate is the percentage change of the trailing 7-day total versus
// the 7 days before that. When the prior window's total is zero the rate is
// exactly 100 regardless of the current total, never infinity.
func GrowthRate(sales []models.Sale, now time.Time) float64 {
	current := TotalAmount(sales, now, PeriodWeek)

	priorEnd := now.Add(-weekWindow)
	priorStart := now.Add(-2 * weekWindow)
	var prior float64
	for _, sale := range sales {
		if !sale.CreatedAt.Before(priorStart) && sale.CreatedAt.Before(priorEnd) {
			prior += sale.TotalAmountRaw
		}
	}

	if prior == 0 {
		return 100
	}
	return (current - prior) / prior * 100
}
