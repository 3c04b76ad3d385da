package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/mesobmatch/backend/internal/middleware"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"github.com/pageza/mesobmatch/backend/internal/types"
)

// DashboardHandler handles dashboard-related requests
type DashboardHandler struct {
	catalog     service.ICatalogService
	authService service.IAuthService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(catalog service.ICatalogService, authService service.IAuthService) *DashboardHandler {
	return &DashboardHandler{
		catalog:     catalog,
		authService: authService,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware(h.authService))
	{
		dashboard.GET("/stats", h.GetStats)
		dashboard.GET("/my_recipes", h.MyRecipes)
		dashboard.GET("/all_recipes", middleware.RequireRole(models.RoleAdmin), h.AllRecipes)
	}
}

// GetStats returns catalog statistics. Admins see everything, authors see
// their own recipes.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.catalog.Stats(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// MyRecipes lists the caller's own recipes, newest first.
func (h *DashboardHandler) MyRecipes(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	h.listRecipes(c, &userID)
}

// AllRecipes lists every recipe, newest first.
func (h *DashboardHandler) AllRecipes(c *gin.Context) {
	h.listRecipes(c, nil)
}

func (h *DashboardHandler) listRecipes(c *gin.Context, authorID *uuid.UUID) {
	recipes, err := h.catalog.NewestRecipes(c.Request.Context(), authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipes": types.NewRecipeResponses(recipes),
		"total":   len(recipes),
	})
}
