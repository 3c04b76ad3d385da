package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/mesobmatch/backend/internal/middleware"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"github.com/pageza/mesobmatch/backend/internal/types"
)

type IngredientHandler struct {
	catalog     service.ICatalogService
	authService middleware.TokenValidator
}

func NewIngredientHandler(catalog service.ICatalogService, authService middleware.TokenValidator) *IngredientHandler {
	return &IngredientHandler{
		catalog:     catalog,
		authService: authService,
	}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/categorized", h.CategorizedIngredients)
		ingredients.GET("/categories", h.Categories)
		ingredients.GET("/search", h.SearchIngredients)
		ingredients.GET("/by_category/:category", h.IngredientsByCategory)
		ingredients.GET("/:id", h.GetIngredient)
		ingredients.POST("",
			middleware.AuthMiddleware(h.authService),
			middleware.RequireRole(models.RoleAdmin, models.RoleAuthor),
			h.CreateIngredient)
		ingredients.PUT("/:id",
			middleware.AuthMiddleware(h.authService),
			middleware.RequireRole(models.RoleAdmin),
			h.UpdateIngredient)
		ingredients.PATCH("/:id",
			middleware.AuthMiddleware(h.authService),
			middleware.RequireRole(models.RoleAdmin),
			h.UpdateIngredient)
		ingredients.DELETE("/:id",
			middleware.AuthMiddleware(h.authService),
			middleware.RequireRole(models.RoleAdmin),
			h.DeleteIngredient)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalog.ListIngredients(c.Request.Context(), service.IngredientFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIngredientResponses(ingredients))
}

func (h *IngredientHandler) CategorizedIngredients(c *gin.Context) {
	grouped, err := h.catalog.CategorizedIngredients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make(map[string][]types.IngredientResponse, len(grouped))
	for category, list := range grouped {
		out[category] = types.NewIngredientResponses(list)
	}
	c.JSON(http.StatusOK, out)
}

func (h *IngredientHandler) Categories(c *gin.Context) {
	set := h.catalog.Categories()
	c.JSON(http.StatusOK, gin.H{
		"version":    set.Version(),
		"categories": set.List(),
	})
}

func (h *IngredientHandler) SearchIngredients(c *gin.Context) {
	ingredients, err := h.catalog.SearchIngredients(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIngredientResponses(ingredients))
}

func (h *IngredientHandler) IngredientsByCategory(c *gin.Context) {
	ingredients, err := h.catalog.IngredientsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIngredientResponses(ingredients))
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ingredient, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIngredientResponse(*ingredient))
}

// CreateIngredient returns the existing ingredient with 200 when the name
// is already known, otherwise creates it and returns 201.
func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req types.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ingredient, created, err := h.catalog.FindOrCreateIngredient(c.Request.Context(), req.Name, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, types.NewIngredientResponse(*ingredient))
}

func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	ingredient, err := h.catalog.UpdateIngredient(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewIngredientResponse(*ingredient))
}

func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteIngredient(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Ingredient deleted successfully",
		"id":      id,
	})
}
