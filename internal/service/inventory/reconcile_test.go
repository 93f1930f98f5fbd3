package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

func item(id, name string, category models.Category, quantity, reorder float64) models.InventoryItem {
	return models.InventoryItem{
		ID:           id,
		Name:         name,
		Category:     category,
		Quantity:     quantity,
		Unit:         "kg",
		ReorderLevel: reorder,
	}
}

func TestApplyEventInsert(t *testing.T) {
	base := []models.InventoryItem{
		item("1", "Maíz", models.CategoryIngredient, 5, 1),
	}

	t.Run("appends and keeps name order", func(t *testing.T) {
		got, low := applyEvent(base, remote.InventoryEvent{
			Type: remote.EventInserted,
			ID:   "2",
			Item: item("2", "Aceite", models.CategoryIngredient, 3, 1),
		})
		require.Nil(t, low)
		require.Len(t, got, 2)
		assert.Equal(t, "Aceite", got[0].Name)
		assert.Equal(t, "Maíz", got[1].Name)
	})

	t.Run("duplicate natural key is dropped", func(t *testing.T) {
		got, _ := applyEvent(base, remote.InventoryEvent{
			Type: remote.EventInserted,
			ID:   "99",
			Item: item("99", "maíz", models.CategoryIngredient, 10, 2),
		})
		assert.Equal(t, base, got)
	})

	t.Run("same name in another category is kept", func(t *testing.T) {
		got, _ := applyEvent(base, remote.InventoryEvent{
			Type: remote.EventInserted,
			ID:   "3",
			Item: item("3", "Maíz", models.CategoryPackaging, 10, 2),
		})
		assert.Len(t, got, 2)
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		_, _ = applyEvent(base, remote.InventoryEvent{
			Type: remote.EventInserted,
			ID:   "4",
			Item: item("4", "Azúcar", models.CategoryIngredient, 2, 1),
		})
		assert.Len(t, base, 1)
	})
}

func TestApplyEventUpdate(t *testing.T) {
	base := []models.InventoryItem{
		item("1", "Maíz", models.CategoryIngredient, 5, 1),
	}

	t.Run("merges by identity", func(t *testing.T) {
		got, low := applyEvent(base, remote.InventoryEvent{
			Type: remote.EventUpdated,
			ID:   "1",
			Item: item("1", "Maíz", models.CategoryIngredient, 4, 1),
		})
		require.Nil(t, low)
		assert.Equal(t, 4.0, got[0].Quantity)
	})

	t.Run("signals low stock at the threshold", func(t *testing.T) {
		_, low := applyEvent(base, remote.InventoryEvent{
			Type: remote.EventUpdated,
			ID:   "1",
			Item: item("1", "Maíz", models.CategoryIngredient, 1, 1),
		})
		require.NotNil(t, low)
		assert.Equal(t, "Maíz", low.Name)
		assert.False(t, low.CriticalStock())
	})

	t.Run("signals critical at half the threshold", func(t *testing.T) {
		_, low := applyEvent(base, remote.InventoryEvent{
			Type: remote.EventUpdated,
			ID:   "1",
			Item: item("1", "Maíz", models.CategoryIngredient, 0.5, 1),
		})
		require.NotNil(t, low)
		assert.True(t, low.CriticalStock())
	})

	t.Run("unknown identity is a no-op", func(t *testing.T) {
		got, low := applyEvent(base, remote.InventoryEvent{
			Type: remote.EventUpdated,
			ID:   "404",
			Item: item("404", "Sal", models.CategoryIngredient, 1, 5),
		})
		assert.Nil(t, low)
		assert.Equal(t, base, got)
	})
}

// Two updates generated in order A then B can be delivered as B then A.
// Reconciliation is last-applied-wins with no version tracking, so the
// final state reflects A even though B is newer. This documents the
// behavior; it is not an endorsement.
func TestApplyEventUpdateOutOfOrder(t *testing.T) {
	base := []models.InventoryItem{
		item("1", "Maíz", models.CategoryIngredient, 5, 1),
	}

	updateA := remote.InventoryEvent{
		Type: remote.EventUpdated,
		ID:   "1",
		Item: item("1", "Maíz", models.CategoryIngredient, 7, 1),
	}
	updateB := remote.InventoryEvent{
		Type: remote.EventUpdated,
		ID:   "1",
		Item: item("1", "Maíz", models.CategoryIngredient, 9, 2),
	}

	afterB, _ := applyEvent(base, updateB)
	afterA, _ := applyEvent(afterB, updateA)

	assert.Equal(t, 7.0, afterA[0].Quantity)
	assert.Equal(t, 1.0, afterA[0].ReorderLevel)
}

func TestApplyEventDelete(t *testing.T) {
	base := []models.InventoryItem{
		item("1", "Maíz", models.CategoryIngredient, 5, 1),
		item("2", "Aceite", models.CategoryIngredient, 3, 1),
	}

	t.Run("removes by identity", func(t *testing.T) {
		got, _ := applyEvent(base, remote.InventoryEvent{Type: remote.EventDeleted, ID: "1"})
		require.Len(t, got, 1)
		assert.Equal(t, "2", got[0].ID)
	})

	t.Run("absent identity is a no-op", func(t *testing.T) {
		got, _ := applyEvent(base, remote.InventoryEvent{Type: remote.EventDeleted, ID: "404"})
		assert.Equal(t, base, got)
	})

	t.Run("replayed delete stays a no-op", func(t *testing.T) {
		once, _ := applyEvent(base, remote.InventoryEvent{Type: remote.EventDeleted, ID: "1"})
		twice, _ := applyEvent(once, remote.InventoryEvent{Type: remote.EventDeleted, ID: "1"})
		assert.Equal(t, once, twice)
	})
}
