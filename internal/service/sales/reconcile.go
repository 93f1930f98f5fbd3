package sales

import (
	"sort"

	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

// applyEvent merges one pushed change into the collection, newest sale
// first. Identity is the natural key here, so a replayed insert for a known
// sale and a delete for an absent one are both no-ops.
func applyEvent(sales []models.Sale, ev remote.SaleEvent) []models.Sale {
	switch ev.Type {
	case remote.EventInserted:
		for _, existing := range sales {
			if existing.ID == ev.Sale.ID {
				return sales
			}
		}
		next := append([]models.Sale{ev.Sale}, sales...)
		sortNewestFirst(next)
		return next

	case remote.EventUpdated:
		next := append([]models.Sale(nil), sales...)
		for i, existing := range next {
			if existing.ID == ev.Sale.ID {
				next[i] = ev.Sale
				break
			}
		}
		sortNewestFirst(next)
		return next

	case remote.EventDeleted:
		next := sales[:0:0]
		for _, existing := range sales {
			if existing.ID != ev.ID {
				next = append(next, existing)
			}
		}
		return next
	}

	return sales
}

func sortNewestFirst(sales []models.Sale) {
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].CreatedAt.After(sales[j].CreatedAt)
	})
}
