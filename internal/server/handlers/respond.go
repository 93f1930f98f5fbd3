package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
)

const actorKey = "actor"

// SetActor attaches the resolved actor to the request context. Called by the
// auth middleware.
func SetActor(c *gin.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

func actorFrom(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{}
}

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.IsNotAuthorized(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errs.IsInsufficientStock(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errs.IsSessionExpired(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "session_expired": true})
	case errors.Is(err, errs.ErrNotAuthenticated), errors.Is(err, errs.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "remote data service unavailable"})
	}
}
