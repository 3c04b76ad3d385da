package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"github.com/pageza/mesobmatch/backend/internal/types"
)

// Catalog is the part of the catalog service the importer writes through.
type Catalog interface {
	ListIngredients(ctx context.Context, filter service.IngredientFilter) ([]models.Ingredient, error)
	FindOrCreateIngredient(ctx context.Context, name, category string) (*models.Ingredient, bool, error)
	ListRecipes(ctx context.Context, category string) ([]models.Recipe, error)
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
}

type Result struct {
	IngredientsCreated  int
	IngredientsExisting int
	RecipesCreated      int
	RecipesSkipped      int
}

// Apply imports wb into the catalog on behalf of authorID. Ingredients are
// matched by name case-insensitively. Recipes whose title already exists
// are skipped, so applying the same workbook twice is harmless. References
// are checked before anything is written.
func Apply(ctx context.Context, catalog Catalog, authorID uuid.UUID, wb *Workbook, logger *zap.Logger) (Result, error) {
	var res Result

	known := make(map[string]int64)
	existing, err := catalog.ListIngredients(ctx, service.IngredientFilter{})
	if err != nil {
		return res, err
	}
	for _, ing := range existing {
		known[strings.ToLower(ing.Name)] = ing.ID
	}

	recipes, err := catalog.ListRecipes(ctx, "")
	if err != nil {
		return res, err
	}
	titles := make(map[string]bool, len(recipes))
	for _, r := range recipes {
		titles[strings.ToLower(r.Title)] = true
	}

	if err := validate(wb, known, titles); err != nil {
		return res, err
	}

	for _, row := range wb.Ingredients {
		ing, created, err := catalog.FindOrCreateIngredient(ctx, row.Name, row.Category)
		if err != nil {
			return res, fmt.Errorf("ingredient %q: %w", row.Name, err)
		}
		if created {
			res.IngredientsCreated++
		} else {
			res.IngredientsExisting++
		}
		known[strings.ToLower(ing.Name)] = ing.ID
	}

	links := make(map[string][]LinkRow)
	for _, l := range wb.Links {
		key := strings.ToLower(l.Recipe)
		links[key] = append(links[key], l)
	}

	for _, row := range wb.Recipes {
		key := strings.ToLower(row.Title)
		if titles[key] {
			res.RecipesSkipped++
			logger.Debug("recipe already exists", zap.String("title", row.Title))
			continue
		}

		req := &types.CreateRecipeRequest{
			Title:        row.Title,
			Description:  row.Description,
			Category:     row.Category,
			Cuisine:      row.Cuisine,
			Difficulty:   row.Difficulty,
			PrepTime:     row.PrepTime,
			CookTime:     row.CookTime,
			Servings:     row.Servings,
			Instructions: row.Instructions,
		}
		for _, l := range links[key] {
			req.Ingredients = append(req.Ingredients, types.RecipeIngredientInput{
				IngredientID: known[strings.ToLower(l.Ingredient)],
				Quantity:     l.Quantity,
				IsOptional:   l.Optional,
			})
		}

		recipe, err := catalog.CreateRecipe(ctx, authorID, req)
		if err != nil {
			return res, fmt.Errorf("recipe %q: %w", row.Title, err)
		}
		titles[key] = true
		res.RecipesCreated++
		logger.Info("recipe imported",
			zap.Int64("recipe_id", recipe.ID),
			zap.String("title", recipe.Title),
			zap.Int("ingredients", len(req.Ingredients)))
	}

	return res, nil
}

// validate checks that every link names a recipe and an ingredient that
// exist either in the workbook or in the catalog.
func validate(wb *Workbook, ingredients map[string]int64, titles map[string]bool) error {
	names := make(map[string]bool, len(ingredients)+len(wb.Ingredients))
	for name := range ingredients {
		names[name] = true
	}
	for _, row := range wb.Ingredients {
		names[strings.ToLower(strings.TrimSpace(row.Name))] = true
	}

	recipes := make(map[string]bool, len(wb.Recipes))
	for _, row := range wb.Recipes {
		key := strings.ToLower(row.Title)
		if recipes[key] {
			return fmt.Errorf("%s lists %q more than once", SheetRecipes, row.Title)
		}
		recipes[key] = true
	}

	for _, l := range wb.Links {
		key := strings.ToLower(l.Recipe)
		if !recipes[key] {
			if titles[key] {
				return fmt.Errorf("%s: recipe %q already exists and cannot be changed by import", SheetLinks, l.Recipe)
			}
			return fmt.Errorf("%s references unknown recipe %q", SheetLinks, l.Recipe)
		}
		if !names[strings.ToLower(l.Ingredient)] {
			return fmt.Errorf("recipe %q: unknown ingredient %q", l.Recipe, l.Ingredient)
		}
	}
	return nil
}

// FromCatalog lays the catalog out as a workbook. Recipes must have their
// ingredients and instructions loaded.
func FromCatalog(ingredients []models.Ingredient, recipes []models.Recipe) *Workbook {
	wb := &Workbook{}
	for _, ing := range ingredients {
		wb.Ingredients = append(wb.Ingredients, IngredientRow{Name: ing.Name, Category: ing.Category})
	}
	for _, r := range recipes {
		row := RecipeRow{
			Title:       r.Title,
			Description: r.Description,
			Category:    r.Category,
			Cuisine:     r.Cuisine,
			Difficulty:  r.Difficulty,
			PrepTime:    r.PrepTime,
			CookTime:    r.CookTime,
			Servings:    r.Servings,
		}
		for _, step := range r.Instructions {
			row.Instructions = append(row.Instructions, step.Description)
		}
		wb.Recipes = append(wb.Recipes, row)

		for _, ri := range r.RecipeIngredients {
			wb.Links = append(wb.Links, LinkRow{
				Recipe:     r.Title,
				Ingredient: ri.Ingredient.Name,
				Quantity:   ri.Quantity,
				Optional:   ri.IsOptional,
			})
		}
	}
	return wb
}
