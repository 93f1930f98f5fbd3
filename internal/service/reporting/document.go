package reporting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dbautista/palomitas/internal/domain/models"
)

const documentLinesPerPage = 40

// RenderDocument formats the report as a paginated plain-text document with
// a header and footer per page.
func RenderDocument(report models.StoreReport) []byte {
	var lines []string

	lines = append(lines,
		fmt.Sprintf("Sales summary - generated %s", report.GeneratedAt.Format("2006-01-02 15:04")),
		"",
		fmt.Sprintf("Today:         %s (%d sales)", models.FormatAmount(report.DayTotal), report.DaySales),
		fmt.Sprintf("Last 7 days:   %s (%d sales)", models.FormatAmount(report.WeekTotal), report.WeekSales),
		fmt.Sprintf("Last 30 days:  %s", models.FormatAmount(report.MonthTotal)),
		fmt.Sprintf("Weekly growth: %.1f%%", report.GrowthRate),
		"",
		"Units by flavor (last 7 days):",
	)

	flavors := make([]string, 0, len(report.SalesByFlavor))
	for flavor := range report.SalesByFlavor {
		flavors = append(flavors, flavor)
	}
	sort.Strings(flavors)
	if len(flavors) == 0 {
		lines = append(lines, "  (no sales in window)")
	}
	for _, flavor := range flavors {
		lines = append(lines, fmt.Sprintf("  %-20s %d", flavor, report.SalesByFlavor[flavor]))
	}

	lines = append(lines, "", "Inventory:")
	for _, item := range report.Inventory {
		marker := " "
		if item.CriticalStock() {
			marker = "!"
		} else if item.LowStock() {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %-24s %-10s %8.2f %-6s (reorder at %.2f)",
			marker, item.Name, item.Category, item.Quantity, item.Unit, item.ReorderLevel))
	}

	if len(report.LowStockItems) > 0 {
		lines = append(lines, "", fmt.Sprintf("%d item(s) need restocking (* low, ! critical).", len(report.LowStockItems)))
	}

	return paginate(report.StoreName, lines)
}

func paginate(title string, lines []string) []byte {
	totalPages := (len(lines) + documentLinesPerPage - 1) / documentLinesPerPage
	if totalPages == 0 {
		totalPages = 1
	}

	var b strings.Builder
	for page := 0; page < totalPages; page++ {
		fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", len(title)))

		start := page * documentLinesPerPage
		end := start + documentLinesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		for _, line := range lines[start:end] {
			b.WriteString(line)
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "\n-- page %d of %d --\n", page+1, totalPages)
		if page < totalPages-1 {
			b.WriteByte('\f')
		}
	}
	return []byte(b.String())
}
