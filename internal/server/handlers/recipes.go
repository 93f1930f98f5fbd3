package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/service/recipes"
)

// RecipesHandler exposes the recipes store over HTTP.
type RecipesHandler struct {
	svc    *recipes.Service
	logger *zap.Logger
}

// NewRecipesHandler constructs the recipes HTTP adapter.
func NewRecipesHandler(svc *recipes.Service, logger *zap.Logger) *RecipesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipesHandler{svc: svc, logger: logger}
}

// List returns all recipes ordered by name.
func (h *RecipesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List())
}

// Get returns one recipe.
func (h *RecipesHandler) Get(c *gin.Context) {
	recipe, ok := h.svc.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

type createRecipeRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Tips        []string `json:"tips"`
	ImageURL    string   `json:"image_url"`
}

// Create stores a new recipe. Admin only.
func (h *RecipesHandler) Create(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	recipe := models.Recipe{
		Name:        req.Name,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Tips:        req.Tips,
		ImageURL:    req.ImageURL,
	}

	if err := h.svc.Create(c.Request.Context(), actorFrom(c), recipe); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// Update applies a partial recipe update. Admin only.
func (h *RecipesHandler) Update(c *gin.Context) {
	var patch models.RecipePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.Update(c.Request.Context(), actorFrom(c), c.Param("id"), patch); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// Delete removes a recipe. Admin only.
func (h *RecipesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
