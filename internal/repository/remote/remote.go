// Package remote declares the contracts of the backing data service: one
// repository per collection plus a push subscription delivering change
// events. Implementations live in the mongodb (production) and memory
// (tests) packages.
package remote

import (
	"context"
	"time"

	"github.com/dbautista/palomitas/internal/domain/models"
)

// EventType tags a change event pushed by the data service.
type EventType string

const (
	EventInserted EventType = "inserted"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
)

// InventoryEvent is a pushed change on the inventory_items collection. On
// deletes only ID is populated.
type InventoryEvent struct {
	Type EventType
	ID   string
	Item models.InventoryItem
}

// SaleEvent is a pushed change on the sales collection.
type SaleEvent struct {
	Type EventType
	ID   string
	Sale models.Sale
}

// RecipeEvent is a pushed change on the recipes collection.
type RecipeEvent struct {
	Type   EventType
	ID     string
	Recipe models.Recipe
}

// SettingsEvent is a pushed change on the store_settings collection.
type SettingsEvent struct {
	Type     EventType
	ID       string
	Settings models.StoreSettings
}

// InventoryRepository is the remote contract for inventory_items.
type InventoryRepository interface {
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	InsertItem(ctx context.Context, item models.InventoryItem) error
	UpdateItem(ctx context.Context, id string, patch models.InventoryItemPatch, by string, at time.Time) error
	DeleteItem(ctx context.Context, id string) error
	SubscribeItems(ctx context.Context) (<-chan InventoryEvent, error)
}

// SalesRepository is the remote contract for sales. Deletion exists only to
// compensate a failed stock deduction.
type SalesRepository interface {
	ListSales(ctx context.Context) ([]models.Sale, error)
	InsertSale(ctx context.Context, sale models.Sale) error
	DeleteSale(ctx context.Context, id string) error
	SubscribeSales(ctx context.Context) (<-chan SaleEvent, error)
}

// RecipesRepository is the remote contract for recipes.
type RecipesRepository interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	InsertRecipe(ctx context.Context, recipe models.Recipe) error
	UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch, at time.Time) error
	DeleteRecipe(ctx context.Context, id string) error
	SubscribeRecipes(ctx context.Context) (<-chan RecipeEvent, error)
}

// ProfilesRepository is the remote contract for profiles.
type ProfilesRepository interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	FindProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	InsertProfile(ctx context.Context, profile models.Profile) error
	UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) error
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	DeleteProfile(ctx context.Context, id string) error
}

// ReportsRepository persists generated report snapshots.
type ReportsRepository interface {
	SaveReport(ctx context.Context, report models.StoreReport) error
}

// SettingsRepository is the remote contract for store_settings.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (models.StoreSettings, error)
	InsertSettings(ctx context.Context, settings models.StoreSettings) error
	UpdateSettings(ctx context.Context, id string, patch models.StoreSettingsPatch, by string, at time.Time) error
	SubscribeSettings(ctx context.Context) (<-chan SettingsEvent, error)
}
