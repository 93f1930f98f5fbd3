package models

import "time"

// StoreSettings is the single-record configuration collection edited from
// the settings screen.
type StoreSettings struct {
	ID              string    `bson:"_id" json:"id"`
	StoreName       string    `bson:"store_name" json:"store_name"`
	Currency        string    `bson:"currency" json:"currency"`
	PriceSmall      float64   `bson:"price_small" json:"price_small"`
	PriceMedium     float64   `bson:"price_medium" json:"price_medium"`
	PriceLarge      float64   `bson:"price_large" json:"price_large"`
	LowStockWebhook string    `bson:"low_stock_webhook,omitempty" json:"low_stock_webhook,omitempty"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
	UpdatedBy       string    `bson:"updated_by" json:"updated_by"`
}

// StoreSettingsPatch carries a partial settings update.
type StoreSettingsPatch struct {
	StoreName       *string  `json:"store_name,omitempty"`
	Currency        *string  `json:"currency,omitempty"`
	PriceSmall      *float64 `json:"price_small,omitempty"`
	PriceMedium     *float64 `json:"price_medium,omitempty"`
	PriceLarge      *float64 `json:"price_large,omitempty"`
	LowStockWebhook *string  `json:"low_stock_webhook,omitempty"`
}

// Apply merges the patch into a copy of the settings record.
func (p StoreSettingsPatch) Apply(s StoreSettings, actorID string, now time.Time) StoreSettings {
	if p.StoreName != nil {
		s.StoreName = *p.StoreName
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.PriceSmall != nil {
		s.PriceSmall = *p.PriceSmall
	}
	if p.PriceMedium != nil {
		s.PriceMedium = *p.PriceMedium
	}
	if p.PriceLarge != nil {
		s.PriceLarge = *p.PriceLarge
	}
	if p.LowStockWebhook != nil {
		s.LowStockWebhook = *p.LowStockWebhook
	}
	s.UpdatedBy = actorID
	s.UpdatedAt = now
	return s
}
