package models

import (
	"strings"
	"time"
)

// Category classifies inventory items.
type Category string

const (
	CategoryIngredient Category = "ingredient"
	CategoryPackaging  Category = "packaging"
	CategoryEquipment  Category = "equipment"
)

// ValidCategory reports whether the value is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryIngredient, CategoryPackaging, CategoryEquipment:
		return true
	}
	return false
}

// InventoryItem represents a stocked product in the shop.
type InventoryItem struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Category     Category  `bson:"category" json:"category"`
	Quantity     float64   `bson:"quantity" json:"quantity"`
	Unit         string    `bson:"unit" json:"unit"`
	ReorderLevel float64   `bson:"reorder_level" json:"reorder_level"`
	LastUpdated  time.Time `bson:"last_updated" json:"last_updated"`
	UpdatedBy    string    `bson:"updated_by" json:"updated_by"`
}

// NaturalKey returns the case-insensitive name+category key used for
// duplicate detection.
func (i InventoryItem) NaturalKey() string {
	return strings.ToLower(i.Name) + "|" + string(i.Category)
}

// LowStock reports whether the item has reached its reorder threshold.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

// CriticalStock reports whether the item has fallen to half its reorder
// threshold or below.
func (i InventoryItem) CriticalStock() bool {
	return i.Quantity <= i.ReorderLevel/2
}

// InventoryItemPatch carries a partial update; nil fields are left untouched.
type InventoryItemPatch struct {
	Name         *string   `json:"name,omitempty"`
	Category     *Category `json:"category,omitempty"`
	Quantity     *float64  `json:"quantity,omitempty"`
	Unit         *string   `json:"unit,omitempty"`
	ReorderLevel *float64  `json:"reorder_level,omitempty"`
}

// Apply merges the patch into a copy of the item and stamps the actor.
func (p InventoryItemPatch) Apply(item InventoryItem, actorID string, now time.Time) InventoryItem {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
	if p.ReorderLevel != nil {
		item.ReorderLevel = *p.ReorderLevel
	}
	item.UpdatedBy = actorID
	item.LastUpdated = now
	return item
}
