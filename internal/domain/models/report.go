package models

import "time"

// StoreReport is the aggregated snapshot persisted after each scheduled run
// and served by the reports endpoint.
type StoreReport struct {
	GeneratedAt   time.Time       `bson:"generated_at" json:"generated_at"`
	StoreName     string          `bson:"store_name" json:"store_name"`
	DayTotal      float64         `bson:"day_total" json:"day_total"`
	WeekTotal     float64         `bson:"week_total" json:"week_total"`
	MonthTotal    float64         `bson:"month_total" json:"month_total"`
	DaySales      int             `bson:"day_sales" json:"day_sales"`
	WeekSales     int             `bson:"week_sales" json:"week_sales"`
	GrowthRate    float64         `bson:"growth_rate" json:"growth_rate"`
	SalesByFlavor map[string]int  `bson:"sales_by_flavor" json:"sales_by_flavor"`
	Inventory     []InventoryItem `bson:"inventory" json:"inventory"`
	LowStockItems []InventoryItem `bson:"low_stock_items" json:"low_stock_items"`
}
