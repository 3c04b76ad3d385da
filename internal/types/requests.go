package types

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateIngredientRequest represents the request body for ingredient creation
type CreateIngredientRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Category string `json:"category" binding:"required"`
}

// UpdateIngredientRequest changes an ingredient's name or category. Absent
// fields are left alone.
type UpdateIngredientRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Category *string `json:"category"`
}

// RecipeIngredientInput links a new recipe to an existing ingredient
type RecipeIngredientInput struct {
	IngredientID int64  `json:"ingredient_id" binding:"required"`
	Quantity     string `json:"quantity" binding:"max=100"`
	IsOptional   bool   `json:"is_optional"`
}

// CreateRecipeRequest represents the request body for recipe creation
type CreateRecipeRequest struct {
	Title        string                  `json:"title" binding:"required,max=255"`
	Description  string                  `json:"description"`
	Category     string                  `json:"category" binding:"max=50"`
	Cuisine      string                  `json:"cuisine" binding:"max=50"`
	Difficulty   string                  `json:"difficulty" binding:"max=20"`
	PrepTime     int                     `json:"prep_time" binding:"gte=0"`
	CookTime     int                     `json:"cook_time" binding:"gte=0"`
	Servings     int                     `json:"servings" binding:"gte=0"`
	Ingredients  []RecipeIngredientInput `json:"ingredients" binding:"dive"`
	Instructions []string                `json:"instructions"`
}

// UpdateRecipeRequest is the body of PUT/PATCH /recipes/:id. Absent fields
// are left alone. A present ingredients or instructions list replaces the
// recipe's current one; an empty list clears it.
type UpdateRecipeRequest struct {
	Title        *string                  `json:"title" binding:"omitempty,max=255"`
	Description  *string                  `json:"description"`
	Category     *string                  `json:"category" binding:"omitempty,max=50"`
	Cuisine      *string                  `json:"cuisine" binding:"omitempty,max=50"`
	Difficulty   *string                  `json:"difficulty" binding:"omitempty,max=20"`
	PrepTime     *int                     `json:"prep_time" binding:"omitempty,gte=0"`
	CookTime     *int                     `json:"cook_time" binding:"omitempty,gte=0"`
	Servings     *int                     `json:"servings" binding:"omitempty,gte=0"`
	Ingredients  *[]RecipeIngredientInput `json:"ingredients"`
	Instructions *[]string                `json:"instructions"`
}

// FindByIngredientsRequest is the body of POST /recipes/find_by_ingredients.
// MatchType defaults to "any".
type FindByIngredientsRequest struct {
	IngredientIDs []int64 `json:"ingredient_ids"`
	MatchType     string  `json:"match_type"`
	IncludeScore  bool    `json:"include_score"`
}
