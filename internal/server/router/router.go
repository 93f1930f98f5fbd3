package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/server/handlers"
	"github.com/dbautista/palomitas/internal/service/auth"
)

// Handlers bundles the HTTP adapters wired into the engine.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Inventory *handlers.InventoryHandler
	Sales     *handlers.SalesHandler
	Recipes   *handlers.RecipesHandler
	Profiles  *handlers.ProfilesHandler
	Settings  *handlers.SettingsHandler
	Reports   *handlers.ReportsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, sessions *auth.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("", sessionMiddleware(sessions))
	authed.POST("/auth/logout", h.Auth.Logout)
	authed.POST("/auth/refresh", h.Auth.Refresh)

	authed.GET("/inventory", h.Inventory.List)
	authed.POST("/inventory", h.Inventory.Create)
	authed.PATCH("/inventory/:id", h.Inventory.Update)
	authed.DELETE("/inventory/:id", h.Inventory.Delete)

	authed.GET("/sales", h.Sales.List)
	authed.POST("/sales", h.Sales.Create)

	authed.GET("/recipes", h.Recipes.List)
	authed.GET("/recipes/:id", h.Recipes.Get)
	authed.POST("/recipes", h.Recipes.Create)
	authed.PATCH("/recipes/:id", h.Recipes.Update)
	authed.DELETE("/recipes/:id", h.Recipes.Delete)

	authed.GET("/profiles", h.Profiles.List)
	authed.POST("/profiles", h.Profiles.Create)
	authed.PATCH("/profiles/:id", h.Profiles.Update)
	authed.DELETE("/profiles/:id", h.Profiles.Delete)
	authed.PUT("/profiles/:id/password", h.Profiles.ChangePassword)

	authed.GET("/settings", h.Settings.Get)
	authed.PATCH("/settings", h.Settings.Update)

	authed.GET("/reports", h.Reports.Get)
	authed.GET("/reports/document", h.Reports.Document)
	authed.POST("/reports/export", h.Reports.Export)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func sessionMiddleware(sessions *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := sessions.Resolve(handlers.BearerToken(c))
		if err != nil {
			c.Abort()
			// Distinguishes expiry from a missing token so the client can
			// force a sign-out with its own message.
			respondAuthError(c, err)
			return
		}
		handlers.SetActor(c, actor)
		c.Next()
	}
}

func respondAuthError(c *gin.Context, err error) {
	if errs.IsSessionExpired(err) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "session_expired": true})
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
