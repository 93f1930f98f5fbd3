// Package memory implements the remote repository contracts in process. It
// backs the test suite and mirrors the semantics of the mongodb adapter:
// writes are acknowledged, then a change event is pushed to subscribers.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

const subscriberBuffer = 32

// Repository is an in-memory implementation of every remote contract.
type Repository struct {
	mu       sync.RWMutex
	items    map[string]models.InventoryItem
	sales    map[string]models.Sale
	recipes  map[string]models.Recipe
	profiles map[string]models.Profile
	settings *models.StoreSettings
	reports  []models.StoreReport

	itemSubs     []chan remote.InventoryEvent
	saleSubs     []chan remote.SaleEvent
	recipeSubs   []chan remote.RecipeEvent
	settingsSubs []chan remote.SettingsEvent

	failures map[string]error
	calls    []string
}

// NewRepository returns an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		items:    make(map[string]models.InventoryItem),
		sales:    make(map[string]models.Sale),
		recipes:  make(map[string]models.Recipe),
		profiles: make(map[string]models.Profile),
		failures: make(map[string]error),
	}
}

// FailWith makes the named operation return err until cleared with nil.
// Operation names match the method names (e.g. "InsertSale").
func (r *Repository) FailWith(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, op)
		return
	}
	r.failures[op] = err
}

// Calls returns the recorded operation names in invocation order.
func (r *Repository) Calls() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.calls...)
}

func (r *Repository) enter(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op)
	if err, ok := r.failures[op]; ok {
		return err
	}
	return nil
}

// --- inventory_items ---

func (r *Repository) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	if err := r.enter("ListItems"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

func (r *Repository) InsertItem(ctx context.Context, item models.InventoryItem) error {
	if err := r.enter("InsertItem"); err != nil {
		return err
	}
	r.mu.Lock()
	r.items[item.ID] = item
	subs := append([]chan remote.InventoryEvent(nil), r.itemSubs...)
	r.mu.Unlock()

	publish(subs, remote.InventoryEvent{Type: remote.EventInserted, ID: item.ID, Item: item})
	return nil
}

func (r *Repository) UpdateItem(ctx context.Context, id string, patch models.InventoryItemPatch, by string, at time.Time) error {
	if err := r.enter("UpdateItem"); err != nil {
		return err
	}
	r.mu.Lock()
	item, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return &errs.ResourceNotFoundError{Resource: "inventory item"}
	}
	item = patch.Apply(item, by, at)
	r.items[id] = item
	subs := append([]chan remote.InventoryEvent(nil), r.itemSubs...)
	r.mu.Unlock()

	publish(subs, remote.InventoryEvent{Type: remote.EventUpdated, ID: id, Item: item})
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	if err := r.enter("DeleteItem"); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.items, id)
	subs := append([]chan remote.InventoryEvent(nil), r.itemSubs...)
	r.mu.Unlock()

	publish(subs, remote.InventoryEvent{Type: remote.EventDeleted, ID: id})
	return nil
}

func (r *Repository) SubscribeItems(ctx context.Context) (<-chan remote.InventoryEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan remote.InventoryEvent, subscriberBuffer)
	r.itemSubs = append(r.itemSubs, ch)
	return ch, nil
}

// --- sales ---

func (r *Repository) ListSales(ctx context.Context) ([]models.Sale, error) {
	if err := r.enter("ListSales"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	sales := make([]models.Sale, 0, len(r.sales))
	for _, sale := range r.sales {
		sales = append(sales, sale)
	}
	sort.Slice(sales, func(i, j int) bool {
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})
	return sales, nil
}

func (r *Repository) InsertSale(ctx context.Context, sale models.Sale) error {
	if err := r.enter("InsertSale"); err != nil {
		return err
	}
	r.mu.Lock()
	r.sales[sale.ID] = sale
	subs := append([]chan remote.SaleEvent(nil), r.saleSubs...)
	r.mu.Unlock()

	publish(subs, remote.SaleEvent{Type: remote.EventInserted, ID: sale.ID, Sale: sale})
	return nil
}

func (r *Repository) DeleteSale(ctx context.Context, id string) error {
	if err := r.enter("DeleteSale"); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.sales, id)
	subs := append([]chan remote.SaleEvent(nil), r.saleSubs...)
	r.mu.Unlock()

	publish(subs, remote.SaleEvent{Type: remote.EventDeleted, ID: id})
	return nil
}

func (r *Repository) SubscribeSales(ctx context.Context) (<-chan remote.SaleEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan remote.SaleEvent, subscriberBuffer)
	r.saleSubs = append(r.saleSubs, ch)
	return ch, nil
}

// --- recipes ---

func (r *Repository) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	if err := r.enter("ListRecipes"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipes := make([]models.Recipe, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		recipes = append(recipes, recipe)
	}
	sort.Slice(recipes, func(i, j int) bool {
		return strings.ToLower(recipes[i].Name) < strings.ToLower(recipes[j].Name)
	})
	return recipes, nil
}

func (r *Repository) InsertRecipe(ctx context.Context, recipe models.Recipe) error {
	if err := r.enter("InsertRecipe"); err != nil {
		return err
	}
	r.mu.Lock()
	r.recipes[recipe.ID] = recipe
	subs := append([]chan remote.RecipeEvent(nil), r.recipeSubs...)
	r.mu.Unlock()

	publish(subs, remote.RecipeEvent{Type: remote.EventInserted, ID: recipe.ID, Recipe: recipe})
	return nil
}

func (r *Repository) UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch, at time.Time) error {
	if err := r.enter("UpdateRecipe"); err != nil {
		return err
	}
	r.mu.Lock()
	recipe, ok := r.recipes[id]
	if !ok {
		r.mu.Unlock()
		return &errs.ResourceNotFoundError{Resource: "recipe"}
	}
	recipe = patch.Apply(recipe, at)
	r.recipes[id] = recipe
	subs := append([]chan remote.RecipeEvent(nil), r.recipeSubs...)
	r.mu.Unlock()

	publish(subs, remote.RecipeEvent{Type: remote.EventUpdated, ID: id, Recipe: recipe})
	return nil
}

func (r *Repository) DeleteRecipe(ctx context.Context, id string) error {
	if err := r.enter("DeleteRecipe"); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.recipes, id)
	subs := append([]chan remote.RecipeEvent(nil), r.recipeSubs...)
	r.mu.Unlock()

	publish(subs, remote.RecipeEvent{Type: remote.EventDeleted, ID: id})
	return nil
}

func (r *Repository) SubscribeRecipes(ctx context.Context) (<-chan remote.RecipeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan remote.RecipeEvent, subscriberBuffer)
	r.recipeSubs = append(r.recipeSubs, ch)
	return ch, nil
}

// --- profiles ---

func (r *Repository) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	if err := r.enter("ListProfiles"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]models.Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		profiles = append(profiles, profile)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Role != profiles[j].Role {
			return profiles[i].Role == models.RoleAdmin
		}
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

func (r *Repository) FindProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	if err := r.enter("FindProfileByEmail"); err != nil {
		return models.Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, profile := range r.profiles {
		if strings.EqualFold(profile.Email, email) {
			return profile, nil
		}
	}
	return models.Profile{}, &errs.ResourceNotFoundError{Resource: "profile"}
}

func (r *Repository) InsertProfile(ctx context.Context, profile models.Profile) error {
	if err := r.enter("InsertProfile"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
	return nil
}

func (r *Repository) UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) error {
	if err := r.enter("UpdateProfile"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return &errs.ResourceNotFoundError{Resource: "profile"}
	}
	r.profiles[id] = patch.Apply(profile)
	return nil
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	if err := r.enter("UpdatePasswordHash"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return &errs.ResourceNotFoundError{Resource: "profile"}
	}
	profile.PasswordHash = hash
	r.profiles[id] = profile
	return nil
}

func (r *Repository) DeleteProfile(ctx context.Context, id string) error {
	if err := r.enter("DeleteProfile"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, id)
	return nil
}

// --- store_settings ---

func (r *Repository) GetSettings(ctx context.Context) (models.StoreSettings, error) {
	if err := r.enter("GetSettings"); err != nil {
		return models.StoreSettings{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return models.StoreSettings{}, &errs.ResourceNotFoundError{Resource: "store settings"}
	}
	return *r.settings, nil
}

func (r *Repository) InsertSettings(ctx context.Context, settings models.StoreSettings) error {
	if err := r.enter("InsertSettings"); err != nil {
		return err
	}
	r.mu.Lock()
	r.settings = &settings
	subs := append([]chan remote.SettingsEvent(nil), r.settingsSubs...)
	r.mu.Unlock()

	publish(subs, remote.SettingsEvent{Type: remote.EventInserted, ID: settings.ID, Settings: settings})
	return nil
}

func (r *Repository) UpdateSettings(ctx context.Context, id string, patch models.StoreSettingsPatch, by string, at time.Time) error {
	if err := r.enter("UpdateSettings"); err != nil {
		return err
	}
	r.mu.Lock()
	if r.settings == nil || r.settings.ID != id {
		r.mu.Unlock()
		return &errs.ResourceNotFoundError{Resource: "store settings"}
	}
	updated := patch.Apply(*r.settings, by, at)
	r.settings = &updated
	subs := append([]chan remote.SettingsEvent(nil), r.settingsSubs...)
	r.mu.Unlock()

	publish(subs, remote.SettingsEvent{Type: remote.EventUpdated, ID: id, Settings: updated})
	return nil
}

func (r *Repository) SubscribeSettings(ctx context.Context) (<-chan remote.SettingsEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan remote.SettingsEvent, subscriberBuffer)
	r.settingsSubs = append(r.settingsSubs, ch)
	return ch, nil
}

// --- reports ---

func (r *Repository) SaveReport(ctx context.Context, report models.StoreReport) error {
	if err := r.enter("SaveReport"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return nil
}

// Reports returns the saved report snapshots.
func (r *Repository) Reports() []models.StoreReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.StoreReport(nil), r.reports...)
}

func publish[E any](subs []chan E, ev E) {
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber; drop rather than block the writer.
		}
	}
}
