package inventory

import (
	"sort"
	"strings"

	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

// applyEvent merges one pushed change into the collection and returns the
// new collection. Events arrive at least once and possibly out of order, so
// every branch is idempotent: duplicate inserts (matched by natural key) and
// deletes of absent records are no-ops. The second return value is non-nil
// when an update left the item at or below its reorder threshold.
func applyEvent(items []models.InventoryItem, ev remote.InventoryEvent) ([]models.InventoryItem, *models.InventoryItem) {
	switch ev.Type {
	case remote.EventInserted:
		key := ev.Item.NaturalKey()
		for _, existing := range items {
			if existing.NaturalKey() == key {
				return items, nil
			}
		}
		next := append(append([]models.InventoryItem(nil), items...), ev.Item)
		sortByName(next)
		return next, nil

	case remote.EventUpdated:
		next := append([]models.InventoryItem(nil), items...)
		var lowStock *models.InventoryItem
		for i, existing := range next {
			if existing.ID == ev.Item.ID {
				next[i] = ev.Item
				if ev.Item.LowStock() {
					updated := ev.Item
					lowStock = &updated
				}
				break
			}
		}
		sortByName(next)
		return next, lowStock

	case remote.EventDeleted:
		next := items[:0:0]
		for _, existing := range items {
			if existing.ID != ev.ID {
				next = append(next, existing)
			}
		}
		return next, nil
	}

	return items, nil
}

func sortByName(items []models.InventoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}
