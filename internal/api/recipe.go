package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/mesobmatch/backend/internal/middleware"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"github.com/pageza/mesobmatch/backend/internal/types"
)

const popularRecipesLimit = 10

type RecipeHandler struct {
	catalog     service.ICatalogService
	matches     service.IMatchService
	images      service.IImageService
	authService middleware.TokenValidator
	rateLimiter *middleware.RateLimiter
}

// NewRecipeHandler creates the recipe handler. images may be nil when no
// bucket is configured; rateLimiter may be nil to disable limiting.
func NewRecipeHandler(catalog service.ICatalogService, matches service.IMatchService, images service.IImageService, authService middleware.TokenValidator, rateLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		catalog:     catalog,
		matches:     matches,
		images:      images,
		authService: authService,
		rateLimiter: rateLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	limit := h.rateLimiter.RateLimitMiddleware()
	auth := middleware.AuthMiddleware(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/categories", h.Categories)
		recipes.GET("/popular", h.PopularRecipes)
		recipes.POST("/find_by_ingredients", limit, h.FindByIngredients)
		recipes.GET("/makeable", limit, h.Makeable)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/feasibility", limit, h.Feasibility)
		recipes.POST("", auth, middleware.RequireRole(models.RoleAdmin, models.RoleAuthor), h.CreateRecipe)
		recipes.PUT("/:id", auth, h.UpdateRecipe)
		recipes.PATCH("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/image", auth, h.UploadImage)
		recipes.DELETE("/:id/image", auth, h.DeleteImage)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.catalog.ListRecipes(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponses(recipes))
}

func (h *RecipeHandler) Categories(c *gin.Context) {
	categories, err := h.catalog.RecipeCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *RecipeHandler) PopularRecipes(c *gin.Context) {
	recipes, err := h.catalog.PopularRecipes(c.Request.Context(), popularRecipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponses(recipes))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.catalog.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponse(recipe))
}

// FindByIngredients answers POST /recipes/find_by_ingredients. Without
// include_score the recipes come back in catalog order; with it they are
// ranked and carry match_score, can_make and missing_ingredients.
func (h *RecipeHandler) FindByIngredients(c *gin.Context) {
	var req types.FindByIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	matches, err := h.matches.FindByIngredients(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !req.IncludeScore {
		out := make([]types.RecipeResponse, 0, len(matches))
		for i := range matches {
			out = append(out, types.NewRecipeResponse(&matches[i].Recipe))
		}
		c.JSON(http.StatusOK, out)
		return
	}

	out := make([]types.RecipeMatchResponse, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		out = append(out, types.RecipeMatchResponse{
			RecipeResponse:     types.NewRecipeResponse(&m.Recipe),
			MatchScore:         m.Score,
			CanMake:            m.CanMake,
			MissingIngredients: m.Missing,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecipeHandler) Makeable(c *gin.Context) {
	ids, err := parseIngredientIDs(c)
	if err != nil {
		respondError(c, err)
		return
	}
	recipes, err := h.matches.Makeable(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponses(recipes))
}

func (h *RecipeHandler) Feasibility(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ids, err := parseIngredientIDs(c)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.matches.Feasibility(c.Request.Context(), id, ids)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := types.FeasibilityResponse{
		RecipeID:                     res.RecipeID,
		CanMake:                      res.CanMake,
		MatchScore:                   res.Score,
		MissingIngredients:           make([]types.IngredientResponse, 0, len(res.Missing)),
		AvailableOptionalIngredients: make([]types.IngredientResponse, 0, len(res.AvailableOptional)),
	}
	for _, ing := range res.Missing {
		resp.MissingIngredients = append(resp.MissingIngredients, types.IngredientResponse{
			ID: int64(ing.ID), Name: ing.Name, Category: string(ing.Category),
		})
	}
	for _, ing := range res.AvailableOptional {
		resp.AvailableOptionalIngredients = append(resp.AvailableOptionalIngredients, types.IngredientResponse{
			ID: int64(ing.ID), Name: ing.Name, Category: string(ing.Category),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.catalog.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewRecipeResponse(recipe))
}

// UpdateRecipe is allowed only to the recipe's author; admins cannot edit
// other people's recipes.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	recipe, err := h.catalog.GetRecipe(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok || userID != recipe.AuthorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the recipe creator can update this recipe"})
		return
	}

	updated, err := h.catalog.UpdateRecipe(ctx, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponse(updated))
}

// DeleteRecipe is allowed to admins and to the recipe's author.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recipe, err := h.catalog.GetRecipe(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canModify(c, recipe.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}

	if err := h.catalog.DeleteRecipe(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	h.removeStoredImage(c, recipe.ImageKey)

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe deleted successfully",
		"id":      id,
	})
}
