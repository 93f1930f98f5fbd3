// Package recipes maintains the local mirror of the recipes collection.
// Every mutation is admin-gated through the central policy check before any
// remote call is issued.
package recipes

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

// Service owns the in-memory recipes collection.
type Service struct {
	repo   remote.RecipesRepository
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	recipes []models.Recipe
}

// NewService wires a recipes store.
func NewService(repo remote.RecipesRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Start loads the initial snapshot and begins consuming pushed change
// events until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	recipes, err := s.repo.ListRecipes(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.recipes = recipes
	s.mu.Unlock()

	events, err := s.repo.SubscribeRecipes(ctx)
	if err != nil {
		return err
	}

	go s.reconcileLoop(ctx, events)
	return nil
}

func (s *Service) reconcileLoop(ctx context.Context, events <-chan remote.RecipeEvent) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				s.logger.Warn("recipes subscription closed")
				return
			}
			s.mu.Lock()
			s.recipes = applyEvent(s.recipes, ev)
			s.mu.Unlock()
			s.logger.Debug("recipe event reconciled", zap.String("type", string(ev.Type)), zap.String("id", ev.ID))
		case <-ctx.Done():
			return
		}
	}
}

// List returns a snapshot of all recipes ordered by name.
func (s *Service) List() []models.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Recipe(nil), s.recipes...)
}

// Get returns the recipe with the given identity.
func (s *Service) Get(id string) (models.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, recipe := range s.recipes {
		if recipe.ID == id {
			return recipe, true
		}
	}
	return models.Recipe{}, false
}

// Create validates and writes a new recipe. Admin only.
func (s *Service) Create(ctx context.Context, actor models.Actor, recipe models.Recipe) error {
	if !models.Allow(actor, models.OpRecipeCreate, "") {
		return &errs.NotAuthorizedError{Op: string(models.OpRecipeCreate)}
	}
	if strings.TrimSpace(recipe.Name) == "" {
		return &errs.ValidationError{Field: "name", Constraint: "must not be empty"}
	}

	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	now := s.now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	return s.repo.InsertRecipe(ctx, recipe)
}

// Update applies a partial update. Admin only.
func (s *Service) Update(ctx context.Context, actor models.Actor, id string, patch models.RecipePatch) error {
	if !models.Allow(actor, models.OpRecipeUpdate, "") {
		return &errs.NotAuthorizedError{Op: string(models.OpRecipeUpdate)}
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return &errs.ValidationError{Field: "name", Constraint: "must not be empty"}
	}

	return s.repo.UpdateRecipe(ctx, id, patch, s.now())
}

// Delete removes a recipe remotely. Admin only.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id string) error {
	if !models.Allow(actor, models.OpRecipeDelete, "") {
		return &errs.NotAuthorizedError{Op: string(models.OpRecipeDelete)}
	}
	return s.repo.DeleteRecipe(ctx, id)
}
