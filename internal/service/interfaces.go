package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// ICatalogService defines the interface for recipe and ingredient catalog operations
type ICatalogService interface {
	Categories() *matching.CategorySet
	ListIngredients(ctx context.Context, filter IngredientFilter) ([]models.Ingredient, error)
	SearchIngredients(ctx context.Context, q string) ([]models.Ingredient, error)
	IngredientsByCategory(ctx context.Context, category string) ([]models.Ingredient, error)
	CategorizedIngredients(ctx context.Context) (map[string][]models.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error)
	FindOrCreateIngredient(ctx context.Context, name, category string) (*models.Ingredient, bool, error)
	UpdateIngredient(ctx context.Context, id int64, req *types.UpdateIngredientRequest) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, id int64) error

	ListRecipes(ctx context.Context, category string) ([]models.Recipe, error)
	NewestRecipes(ctx context.Context, authorID *uuid.UUID) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*models.Recipe, error)
	GetRecipesByIDs(ctx context.Context, ids []int64) ([]models.Recipe, error)
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id int64, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error
	RecipeCategories(ctx context.Context) ([]string, error)
	PopularRecipes(ctx context.Context, limit int) ([]models.Recipe, error)
	SetRecipeImage(ctx context.Context, id int64, url, key string) error
	Stats(ctx context.Context, user *models.User) (*types.DashboardStats, error)
}

// IMatchService defines the interface for ingredient-based recipe matching
type IMatchService interface {
	FindByIngredients(ctx context.Context, req *types.FindByIngredientsRequest) ([]RecipeMatch, error)
	Makeable(ctx context.Context, ingredientIDs []int64) ([]models.Recipe, error)
	Feasibility(ctx context.Context, recipeID int64, ingredientIDs []int64) (*RecipeFeasibility, error)
	IndexStats(ctx context.Context) (matching.BuildStats, string, error)
}

// IImageService defines the interface for recipe image storage
type IImageService interface {
	UploadRecipeImage(ctx context.Context, recipeID int64, body io.Reader, size int64, contentType string) (string, string, error)
	DeleteImage(ctx context.Context, key string) error
}

var (
	_ IAuthService    = (*AuthService)(nil)
	_ ICatalogService = (*CatalogService)(nil)
	_ IMatchService   = (*MatchService)(nil)
	_ IImageService   = (*ImageService)(nil)
	_ EngineProvider  = (*SnapshotService)(nil)
	_ SnapshotSource  = (*CatalogService)(nil)
)
