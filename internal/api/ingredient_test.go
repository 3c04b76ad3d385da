package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pageza/mesobmatch/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingredientNames(list []types.IngredientResponse) []string {
	out := make([]string, len(list))
	for i, ing := range list {
		out[i] = ing.Name
	}
	return out
}

func TestListIngredients(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		path   string
		status int
		want   []string
	}{
		{"all sorted by name", "/api/v1/ingredients", http.StatusOK,
			[]string{"Beef", "Garlic", "Onion", "Pepper", "Rice", "Salt", "Tomato"}},
		{"by category query", "/api/v1/ingredients?category=spices", http.StatusOK, []string{"Pepper", "Salt"}},
		{"name filter", "/api/v1/ingredients?q=ON", http.StatusOK, []string{"Onion"}},
		{"search", "/api/v1/ingredients/search?q=to", http.StatusOK, []string{"Tomato"}},
		{"by category path", "/api/v1/ingredients/by_category/Vegetables", http.StatusOK, []string{"Garlic", "Onion", "Tomato"}},
		{"unknown category", "/api/v1/ingredients/by_category/sweets", http.StatusBadRequest, nil},
		{"empty search", "/api/v1/ingredients/search?q=", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, nil, "")
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.want != nil {
				assert.Equal(t, tt.want, ingredientNames(decode[[]types.IngredientResponse](t, w)))
			}
		})
	}
}

func TestCategorizedIngredients(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/ingredients/categorized", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	grouped := decode[map[string][]types.IngredientResponse](t, w)
	assert.Equal(t, []string{"Beef"}, ingredientNames(grouped["meat"]))
	assert.Equal(t, []string{"Pepper", "Salt"}, ingredientNames(grouped["spices"]))
	require.Contains(t, grouped, "dairy")
	assert.Empty(t, grouped["dairy"])

	w = s.do(t, http.MethodGet, "/api/v1/ingredients/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Version    string   `json:"version"`
		Categories []string `json:"categories"`
	}](t, w)
	assert.NotEmpty(t, body.Version)
	assert.Contains(t, body.Categories, "vegetables")
}

func TestGetIngredient(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/ingredients/%d", s.catalog.IngredientID("Rice")), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "grains", decode[types.IngredientResponse](t, w).Category)

	w = s.do(t, http.MethodGet, "/api/v1/ingredients/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Ingredient not found"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/ingredients/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIngredient(t *testing.T) {
	s := newTestServer(t, nil)
	author := s.token(t, s.catalog.Author)

	w := s.do(t, http.MethodPost, "/api/v1/ingredients", map[string]string{"name": "Lentils", "category": "legumes"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/ingredients", map[string]string{"name": "Lentils", "category": "Legumes"}, author)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[types.IngredientResponse](t, w)
	assert.Equal(t, "legumes", created.Category)

	w = s.do(t, http.MethodPost, "/api/v1/ingredients", map[string]string{"name": "lentils", "category": "legumes"}, author)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[types.IngredientResponse](t, w).ID)

	w = s.do(t, http.MethodPost, "/api/v1/ingredients", map[string]string{"name": "Sugar", "category": "sweets"}, author)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/ingredients", map[string]string{"category": "spices"}, author)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDeleteIngredientIsAdminOnly(t *testing.T) {
	s := newTestServer(t, nil)
	path := fmt.Sprintf("/api/v1/ingredients/%d", s.catalog.IngredientID("Salt"))

	w := s.do(t, http.MethodDelete, path, nil, s.token(t, s.catalog.Author))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, path, nil, s.token(t, s.catalog.Admin))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, path, nil, s.token(t, s.catalog.Admin))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Beef tibs no longer needs salt.
	path = fmt.Sprintf("/api/v1/recipes/makeable?ingredient_ids=%d,%d,%d,%d",
		s.catalog.IngredientID("Beef"), s.catalog.IngredientID("Onion"),
		s.catalog.IngredientID("Garlic"), s.catalog.IngredientID("Tomato"))
	w = s.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, recipeTitles(decode[[]types.RecipeResponse](t, w)), "Beef tibs")
}

func TestUpdateIngredient(t *testing.T) {
	s := newTestServer(t, nil)
	path := fmt.Sprintf("/api/v1/ingredients/%d", s.catalog.IngredientID("Salt"))
	admin := s.token(t, s.catalog.Admin)

	w := s.do(t, http.MethodPut, path, map[string]any{"name": "Sea salt"}, s.token(t, s.catalog.Author))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, path, map[string]any{"name": "beef"}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "already been taken")

	w = s.do(t, http.MethodPatch, path, map[string]any{"category": "minerals"}, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/ingredients/9999", map[string]any{"name": "Ghost"}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, path, map[string]any{"name": "Sea salt", "category": " Spices "}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[types.IngredientResponse](t, w)
	assert.Equal(t, "Sea salt", got.Name)
	assert.Equal(t, "spices", got.Category)

	// Scored matches report the new name.
	w = s.do(t, http.MethodPost, "/api/v1/recipes/find_by_ingredients", map[string]any{
		"ingredient_ids": []int64{
			s.catalog.IngredientID("Beef"), s.catalog.IngredientID("Onion"),
			s.catalog.IngredientID("Garlic"), s.catalog.IngredientID("Tomato"),
		},
		"include_score": true,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tibs *types.RecipeMatchResponse
	matches := decode[[]types.RecipeMatchResponse](t, w)
	for i := range matches {
		if matches[i].Title == "Beef tibs" {
			tibs = &matches[i]
		}
	}
	require.NotNil(t, tibs)
	assert.Equal(t, []string{"Sea salt"}, tibs.MissingIngredients)
}
