package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/mesobmatch/backend/internal/models"
)

// UserResponse is the public view of a user
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthorSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type IngredientResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// RecipeIngredientResponse is an ingredient as it appears inside a recipe
type RecipeIngredientResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Quantity   string `json:"quantity"`
	IsOptional bool   `json:"is_optional"`
}

type InstructionResponse struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// RecipeResponse represents a recipe with its ingredients and steps
type RecipeResponse struct {
	ID           int64                      `json:"id"`
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	Category     string                     `json:"category"`
	Cuisine      string                     `json:"cuisine"`
	Difficulty   string                     `json:"difficulty"`
	PrepTime     int                        `json:"prep_time"`
	CookTime     int                        `json:"cook_time"`
	Servings     int                        `json:"servings"`
	ImageURL     string                     `json:"image_url,omitempty"`
	Author       *AuthorSummary             `json:"author,omitempty"`
	Ingredients  []RecipeIngredientResponse `json:"ingredients"`
	Instructions []InstructionResponse      `json:"instructions"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// RecipeMatchResponse is a recipe returned by a scored ingredient search
type RecipeMatchResponse struct {
	RecipeResponse
	MatchScore         float64  `json:"match_score"`
	CanMake            bool     `json:"can_make"`
	MissingIngredients []string `json:"missing_ingredients"`
}

// FeasibilityResponse answers GET /recipes/:id/feasibility
type FeasibilityResponse struct {
	RecipeID                     int64                `json:"recipe_id"`
	CanMake                      bool                 `json:"can_make"`
	MatchScore                   float64              `json:"match_score"`
	MissingIngredients           []IngredientResponse `json:"missing_ingredients"`
	AvailableOptionalIngredients []IngredientResponse `json:"available_optional_ingredients"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

// DashboardStats represents dashboard statistics. Admins see catalog-wide
// totals, authors see only their own recipes.
type DashboardStats struct {
	Scope             string          `json:"scope"`
	TotalRecipes      int64           `json:"total_recipes"`
	TotalIngredients  int64           `json:"total_ingredients"`
	TotalUsers        int64           `json:"total_users,omitempty"`
	RecipesByCategory []CategoryCount `json:"recipes_by_category"`
	UsersByRole       []RoleCount     `json:"users_by_role,omitempty"`
	RecentRecipes     []RecipeSummary `json:"recent_recipes"`
}

type RecipeSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func NewIngredientResponse(i models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, Category: i.Category}
}

func NewIngredientResponses(list []models.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, 0, len(list))
	for _, i := range list {
		out = append(out, NewIngredientResponse(i))
	}
	return out
}

// NewRecipeResponse converts a recipe loaded with its associations.
// Ingredients keep the order they were loaded in.
func NewRecipeResponse(r *models.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		Cuisine:      r.Cuisine,
		Difficulty:   r.Difficulty,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		ImageURL:     r.ImageURL,
		Ingredients:  make([]RecipeIngredientResponse, 0, len(r.RecipeIngredients)),
		Instructions: make([]InstructionResponse, 0, len(r.Instructions)),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Author != nil {
		resp.Author = &AuthorSummary{ID: r.Author.ID, Name: r.Author.Name}
	}
	for _, ri := range r.RecipeIngredients {
		resp.Ingredients = append(resp.Ingredients, RecipeIngredientResponse{
			ID:         ri.IngredientID,
			Name:       ri.Ingredient.Name,
			Category:   ri.Ingredient.Category,
			Quantity:   ri.Quantity,
			IsOptional: ri.IsOptional,
		})
	}
	for _, step := range r.Instructions {
		resp.Instructions = append(resp.Instructions, InstructionResponse{
			StepNumber:  step.StepNumber,
			Description: step.Description,
		})
	}
	return resp
}

func NewRecipeResponses(list []models.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(list))
	for i := range list {
		out = append(out, NewRecipeResponse(&list[i]))
	}
	return out
}

func NewRecipeSummary(r *models.Recipe) RecipeSummary {
	return RecipeSummary{ID: r.ID, Title: r.Title, Category: r.Category, CreatedAt: r.CreatedAt}
}
