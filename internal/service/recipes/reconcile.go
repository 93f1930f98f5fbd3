package recipes

import (
	"sort"
	"strings"

	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

// applyEvent merges one pushed change into the collection, ordered by name.
// Replayed inserts and deletes of absent recipes are no-ops.
func applyEvent(recipes []models.Recipe, ev remote.RecipeEvent) []models.Recipe {
	switch ev.Type {
	case remote.EventInserted:
		for _, existing := range recipes {
			if existing.ID == ev.Recipe.ID {
				return recipes
			}
		}
		next := append(append([]models.Recipe(nil), recipes...), ev.Recipe)
		sortByName(next)
		return next

	case remote.EventUpdated:
		next := append([]models.Recipe(nil), recipes...)
		for i, existing := range next {
			if existing.ID == ev.Recipe.ID {
				next[i] = ev.Recipe
				break
			}
		}
		sortByName(next)
		return next

	case remote.EventDeleted:
		next := recipes[:0:0]
		for _, existing := range recipes {
			if existing.ID != ev.ID {
				next = append(next, existing)
			}
		}
		return next
	}

	return recipes
}

func sortByName(recipes []models.Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		return strings.ToLower(recipes[i].Name) < strings.ToLower(recipes[j].Name)
	})
}
