package models

import (
	"fmt"
	"time"
)

// BagSize enumerates the serving sizes sold at the counter.
type BagSize string

const (
	BagSmall  BagSize = "small"
	BagMedium BagSize = "medium"
	BagLarge  BagSize = "large"
)

// ValidBagSize reports whether the value is one of the known bag sizes.
func ValidBagSize(b BagSize) bool {
	switch b {
	case BagSmall, BagMedium, BagLarge:
		return true
	}
	return false
}

// Sale captures a single counter transaction. TotalAmountRaw is the
// authoritative numeric value; TotalAmount is the display rendering.
type Sale struct {
	ID             string    `bson:"_id" json:"id"`
	Flavor         string    `bson:"flavor" json:"flavor"`
	Quantity       int       `bson:"quantity" json:"quantity"`
	BagSize        BagSize   `bson:"bag_size" json:"bag_size"`
	TotalAmount    string    `bson:"total_amount" json:"total_amount"`
	TotalAmountRaw float64   `bson:"total_amount_raw" json:"total_amount_raw"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	CreatedBy      string    `bson:"created_by" json:"created_by"`
}

// FormatAmount renders the raw amount for display.
func FormatAmount(raw float64) string {
	return fmt.Sprintf("$%.2f", raw)
}
