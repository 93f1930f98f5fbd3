package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbautista/palomitas/internal/domain/models"
)

func TestRenderDocumentSinglePage(t *testing.T) {
	report := models.StoreReport{
		GeneratedAt: time.Date(2026, time.August, 30, 21, 0, 0, 0, time.UTC),
		StoreName:   "Palomitas",
		DayTotal:    150,
		WeekTotal:   900,
		MonthTotal:  3200,
		DaySales:    10,
		WeekSales:   60,
		GrowthRate:  12.5,
		SalesByFlavor: map[string]int{
			"caramelo": 40,
			"natural":  20,
		},
		Inventory: []models.InventoryItem{
			{Name: "Maíz palomero", Category: models.CategoryIngredient, Quantity: 0.2, Unit: "kg", ReorderLevel: 1},
			{Name: "Aceite", Category: models.CategoryIngredient, Quantity: 0.8, Unit: "l", ReorderLevel: 1},
			{Name: "Bolsas medianas", Category: models.CategoryPackaging, Quantity: 500, Unit: "pz", ReorderLevel: 100},
		},
		LowStockItems: []models.InventoryItem{
			{Name: "Maíz palomero"},
			{Name: "Aceite"},
		},
	}

	doc := string(RenderDocument(report))

	assert.Contains(t, doc, "Palomitas\n=========\n")
	assert.Contains(t, doc, "Sales summary - generated 2026-08-30 21:00")
	assert.Contains(t, doc, "Today:         $150.00 (10 sales)")
	assert.Contains(t, doc, "Last 7 days:   $900.00 (60 sales)")
	assert.Contains(t, doc, "Last 30 days:  $3200.00")
	assert.Contains(t, doc, "Weekly growth: 12.5%")
	assert.Contains(t, doc, "2 item(s) need restocking")

	// Flavors appear alphabetically.
	assert.Less(t, strings.Index(doc, "caramelo"), strings.Index(doc, "natural"))

	// 0.2 of 1 is critical, 0.8 of 1 only low, 500 of 100 neither.
	assert.Contains(t, doc, "! Maíz palomero")
	assert.Contains(t, doc, "* Aceite")
	assert.Contains(t, doc, "  Bolsas medianas")

	assert.Contains(t, doc, "-- page 1 of 1 --")
	assert.NotContains(t, doc, "\f")
}

func TestRenderDocumentEmptyWindow(t *testing.T) {
	doc := string(RenderDocument(models.StoreReport{StoreName: "Palomitas"}))

	assert.Contains(t, doc, "(no sales in window)")
	assert.Contains(t, doc, "-- page 1 of 1 --")
}

func TestRenderDocumentPaginates(t *testing.T) {
	report := models.StoreReport{StoreName: "Palomitas"}
	for i := 0; i < 60; i++ {
		report.Inventory = append(report.Inventory, models.InventoryItem{
			Name:         "Artículo",
			Category:     models.CategoryEquipment,
			Quantity:     10,
			Unit:         "pz",
			ReorderLevel: 1,
		})
	}

	doc := string(RenderDocument(report))
	pages := strings.Split(doc, "\f")

	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], "-- page 1 of 2 --")
	assert.Contains(t, pages[1], "-- page 2 of 2 --")
	for _, page := range pages {
		assert.True(t, strings.HasPrefix(page, "Palomitas\n=========\n"))
	}
}
