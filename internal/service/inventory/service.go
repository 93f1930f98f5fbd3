// Package inventory maintains the local mirror of the inventory_items
// collection. Writes validate locally, go to the remote store, and become
// visible through reconciliation of pushed change events; the local slice is
// never mutated optimistically.
package inventory

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
	"github.com/dbautista/palomitas/pkg/clients/alerts"
)

// Service owns the in-memory inventory collection.
type Service struct {
	repo   remote.InventoryRepository
	alerts alerts.Notifier
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	items []models.InventoryItem
}

// NewService wires an inventory store.
func NewService(repo remote.InventoryRepository, notifier alerts.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = alerts.Nop{}
	}
	return &Service{repo: repo, alerts: notifier, logger: logger, now: time.Now}
}

// Start loads the initial snapshot and begins consuming pushed change
// events until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items = dedupe(items)
	s.mu.Unlock()

	events, err := s.repo.SubscribeItems(ctx)
	if err != nil {
		return err
	}

	go s.reconcileLoop(ctx, events)
	return nil
}

func (s *Service) reconcileLoop(ctx context.Context, events <-chan remote.InventoryEvent) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				s.logger.Warn("inventory subscription closed")
				return
			}
			s.apply(ctx, ev)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) apply(ctx context.Context, ev remote.InventoryEvent) {
	s.mu.Lock()
	next, lowStock := applyEvent(s.items, ev)
	s.items = next
	s.mu.Unlock()

	s.logger.Debug("inventory event reconciled", zap.String("type", string(ev.Type)), zap.String("id", ev.ID))

	if lowStock != nil {
		s.logger.Warn("low stock",
			zap.String("name", lowStock.Name),
			zap.Float64("quantity", lowStock.Quantity),
			zap.Float64("reorder_level", lowStock.ReorderLevel),
			zap.Bool("critical", lowStock.CriticalStock()))
		if err := s.alerts.LowStock(ctx, *lowStock); err != nil {
			s.logger.Error("failed to deliver low stock alert", zap.Error(err))
		}
	}
}

// List returns a snapshot of all items ordered by name.
func (s *Service) List() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.InventoryItem(nil), s.items...)
}

// Get returns the item with the given identity.
func (s *Service) Get(id string) (models.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.InventoryItem{}, false
}

// ByCategory returns the items in one category, order preserved.
func (s *Service) ByCategory(category models.Category) []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.InventoryItem
	for _, item := range s.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// LowStock returns the items at or below their reorder threshold.
func (s *Service) LowStock() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.InventoryItem
	for _, item := range s.items {
		if item.LowStock() {
			out = append(out, item)
		}
	}
	return out
}

// FindIngredient returns the first ingredient whose name contains match,
// ignoring case and diacritics, so "maiz" finds "Maíz palomero".
func (s *Service) FindIngredient(match string) (models.InventoryItem, bool) {
	needle := foldName(match)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Category == models.CategoryIngredient && strings.Contains(foldName(item.Name), needle) {
			return item, true
		}
	}
	return models.InventoryItem{}, false
}

var nameFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldName(name string) string {
	folded, _, err := transform.String(nameFolder, strings.ToLower(name))
	if err != nil {
		return strings.ToLower(name)
	}
	return folded
}

// Create validates the item and writes it remotely. The new record becomes
// visible locally once its change event is reconciled.
func (s *Service) Create(ctx context.Context, actor models.Actor, item models.InventoryItem) error {
	if err := validateItem(item); err != nil {
		return err
	}

	s.mu.RLock()
	key := item.NaturalKey()
	for _, existing := range s.items {
		if existing.NaturalKey() == key {
			s.mu.RUnlock()
			return &errs.ValidationError{Field: "name", Constraint: "an item with this name already exists in the category"}
		}
	}
	s.mu.RUnlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.UpdatedBy = actor.ID
	item.LastUpdated = s.now()

	return s.repo.InsertItem(ctx, item)
}

// Update validates the fields present in the patch and writes remotely.
func (s *Service) Update(ctx context.Context, actor models.Actor, id string, patch models.InventoryItemPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}

	s.mu.RLock()
	current, found := models.InventoryItem{}, false
	for _, existing := range s.items {
		if existing.ID == id {
			current, found = existing, true
			break
		}
	}
	if found && (patch.Name != nil || patch.Category != nil) {
		merged := patch.Apply(current, actor.ID, s.now())
		key := merged.NaturalKey()
		for _, existing := range s.items {
			if existing.ID != id && existing.NaturalKey() == key {
				s.mu.RUnlock()
				return &errs.ValidationError{Field: "name", Constraint: "an item with this name already exists in the category"}
			}
		}
	}
	s.mu.RUnlock()

	return s.repo.UpdateItem(ctx, id, patch, actor.ID, s.now())
}

// Delete removes the item remotely; local removal happens via the pushed
// delete event.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

// Deduct lowers an item's quantity by amount on behalf of a sale. The
// caller has already verified feasibility; this re-checks under the current
// snapshot to keep the quantity invariant.
func (s *Service) Deduct(ctx context.Context, actor models.Actor, id string, amount float64) error {
	item, ok := s.Get(id)
	if !ok {
		return &errs.ResourceNotFoundError{Resource: "inventory item"}
	}
	remaining := item.Quantity - amount
	if remaining < 0 {
		return &errs.InsufficientStockError{Item: item.Name, Required: amount, Available: item.Quantity}
	}

	patch := models.InventoryItemPatch{Quantity: &remaining}
	return s.repo.UpdateItem(ctx, id, patch, actor.ID, s.now())
}

func validateItem(item models.InventoryItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return &errs.ValidationError{Field: "name", Constraint: "must not be empty"}
	}
	if !models.ValidCategory(item.Category) {
		return &errs.ValidationError{Field: "category", Constraint: "must be ingredient, packaging or equipment"}
	}
	if item.Quantity < 0 {
		return &errs.ValidationError{Field: "quantity", Constraint: "must not be negative"}
	}
	if item.ReorderLevel < 0 {
		return &errs.ValidationError{Field: "reorder_level", Constraint: "must not be negative"}
	}
	return nil
}

func validatePatch(patch models.InventoryItemPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return &errs.ValidationError{Field: "name", Constraint: "must not be empty"}
	}
	if patch.Category != nil && !models.ValidCategory(*patch.Category) {
		return &errs.ValidationError{Field: "category", Constraint: "must be ingredient, packaging or equipment"}
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return &errs.ValidationError{Field: "quantity", Constraint: "must not be negative"}
	}
	if patch.ReorderLevel != nil && *patch.ReorderLevel < 0 {
		return &errs.ValidationError{Field: "reorder_level", Constraint: "must not be negative"}
	}
	return nil
}

// dedupe drops records sharing a natural key, keeping the first occurrence.
// The remote store should prevent this, but historic rows have contained
// duplicates.
func dedupe(items []models.InventoryItem) []models.InventoryItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, item := range items {
		key := item.NaturalKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
