package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pageza/mesobmatch/backend/internal/apperr"
	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxIngredientNameLength = 100
	recentRecipesLimit      = 5
)

var (
	ErrRecipeNotFound     = apperr.New(apperr.ErrNotFound, 0, "Recipe not found")
	ErrIngredientNotFound = apperr.New(apperr.ErrNotFound, 0, "Ingredient not found")
	ErrInvalidCategory    = apperr.New(apperr.ErrInvalidInput, 0, "Invalid category")
	ErrSearchQuery        = apperr.New(apperr.ErrInvalidInput, 0, "Search query is required")
)

// IngredientFilter narrows ListIngredients. Query is a case-insensitive
// substring of the ingredient name.
type IngredientFilter struct {
	Category string
	Query    string
}

// CatalogService owns the recipe and ingredient tables. Every write
// notifies the registered change hooks so the matching snapshot can be
// rebuilt.
type CatalogService struct {
	db         *gorm.DB
	categories *matching.CategorySet
	logger     *zap.Logger

	mu    sync.RWMutex
	hooks []func()
}

func NewCatalogService(db *gorm.DB, categories *matching.CategorySet, logger *zap.Logger) *CatalogService {
	if categories == nil {
		categories = matching.DefaultCategories()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		db:         db,
		categories: categories,
		logger:     logger,
	}
}

// OnChange registers fn to run after every committed catalog write.
func (s *CatalogService) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *CatalogService) notify() {
	s.mu.RLock()
	hooks := append([]func(){}, s.hooks...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

func (s *CatalogService) Categories() *matching.CategorySet { return s.categories }

func (s *CatalogService) ListIngredients(ctx context.Context, filter IngredientFilter) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if filter.Category != "" {
		cat, ok := s.categories.Normalize(filter.Category)
		if !ok {
			return nil, ErrInvalidCategory
		}
		query = query.Where("category = ?", string(cat))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *CatalogService) SearchIngredients(ctx context.Context, q string) ([]models.Ingredient, error) {
	if strings.TrimSpace(q) == "" {
		return nil, ErrSearchQuery
	}
	return s.ListIngredients(ctx, IngredientFilter{Query: q})
}

func (s *CatalogService) IngredientsByCategory(ctx context.Context, category string) ([]models.Ingredient, error) {
	if strings.TrimSpace(category) == "" {
		return nil, ErrInvalidCategory
	}
	return s.ListIngredients(ctx, IngredientFilter{Category: category})
}

// CategorizedIngredients groups ingredients under every configured
// category, including categories with no ingredients yet.
func (s *CatalogService) CategorizedIngredients(ctx context.Context) (map[string][]models.Ingredient, error) {
	all, err := s.ListIngredients(ctx, IngredientFilter{})
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]models.Ingredient)
	for _, cat := range s.categories.List() {
		grouped[string(cat)] = []models.Ingredient{}
	}
	for _, ing := range all {
		if _, ok := grouped[ing.Category]; !ok {
			continue
		}
		grouped[ing.Category] = append(grouped[ing.Category], ing)
	}
	return grouped, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	return &ingredient, nil
}

// FindOrCreateIngredient returns the ingredient whose name matches
// case-insensitively, creating it when none exists. created reports which
// of the two happened.
func (s *CatalogService) FindOrCreateIngredient(ctx context.Context, name, category string) (ingredient *models.Ingredient, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxIngredientNameLength {
		return nil, false, apperr.Newf(apperr.ErrUnprocessable, 0,
			"Name must be between 1 and %d characters", maxIngredientNameLength)
	}
	cat, ok := s.categories.Normalize(category)
	if !ok {
		return nil, false, apperr.Newf(apperr.ErrUnprocessable, 0,
			"Category must be one of: %s", strings.Join(s.categoryNames(), ", "))
	}

	if existing, err := s.findIngredientByName(ctx, name); err != nil || existing != nil {
		return existing, false, err
	}

	ing := models.Ingredient{Name: name, Category: string(cat)}
	if err := s.db.WithContext(ctx).Create(&ing).Error; err != nil {
		// A concurrent insert may have won the unique index.
		if existing, findErr := s.findIngredientByName(ctx, name); findErr == nil && existing != nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create ingredient: %w", err)
	}

	s.logger.Info("ingredient created",
		zap.Int64("ingredient_id", ing.ID),
		zap.String("name", ing.Name),
		zap.String("category", ing.Category))
	s.notify()
	return &ing, true, nil
}

func (s *CatalogService) findIngredientByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := s.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&ing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up ingredient: %w", err)
	}
	return &ing, nil
}

func (s *CatalogService) categoryNames() []string {
	list := s.categories.List()
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = string(c)
	}
	return names
}

// UpdateIngredient renames or recategorises an ingredient. Names stay
// unique regardless of case.
func (s *CatalogService) UpdateIngredient(ctx context.Context, id int64, req *types.UpdateIngredientRequest) (*models.Ingredient, error) {
	ing, err := s.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > maxIngredientNameLength {
			return nil, apperr.Newf(apperr.ErrUnprocessable, 0,
				"Name must be between 1 and %d characters", maxIngredientNameLength)
		}
		existing, err := s.findIngredientByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperr.New(apperr.ErrUnprocessable, 0, "Name has already been taken")
		}
		updates["name"] = name
	}
	if req.Category != nil {
		cat, ok := s.categories.Normalize(*req.Category)
		if !ok {
			return nil, apperr.Newf(apperr.ErrUnprocessable, 0,
				"Category must be one of: %s", strings.Join(s.categoryNames(), ", "))
		}
		updates["category"] = string(cat)
	}
	if len(updates) == 0 {
		return ing, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	s.logger.Info("ingredient updated",
		zap.Int64("ingredient_id", id),
		zap.Any("changes", updates))
	s.notify()
	return s.GetIngredient(ctx, id)
}

// DeleteIngredient removes the ingredient and every recipe link to it.
func (s *CatalogService) DeleteIngredient(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe links: %w", err)
		}
		res := tx.Delete(&models.Ingredient{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete ingredient: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrIngredientNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("ingredient deleted", zap.Int64("ingredient_id", id))
	s.notify()
	return nil
}

func (s *CatalogService) recipeQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Author").
		Preload("RecipeIngredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, ingredient_id ASC")
		}).
		Preload("RecipeIngredients.Ingredient").
		Preload("Instructions", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		})
}

func (s *CatalogService) ListRecipes(ctx context.Context, category string) ([]models.Recipe, error) {
	query := s.recipeQuery(ctx)
	if category = strings.TrimSpace(category); category != "" {
		query = query.Where("category = ?", category)
	}
	var recipes []models.Recipe
	if err := query.Order("id ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// NewestRecipes lists recipes newest first. A nil authorID lists every
// author's recipes.
func (s *CatalogService) NewestRecipes(ctx context.Context, authorID *uuid.UUID) ([]models.Recipe, error) {
	query := s.recipeQuery(ctx)
	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}
	var recipes []models.Recipe
	if err := query.Order("created_at DESC, id DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *CatalogService) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.recipeQuery(ctx).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// GetRecipesByIDs loads recipes and returns them in the order of ids.
// Ids that no longer exist are skipped.
func (s *CatalogService) GetRecipesByIDs(ctx context.Context, ids []int64) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}
	var found []models.Recipe
	if err := s.recipeQuery(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	byID := make(map[int64]models.Recipe, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	out := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// CreateRecipe stores the recipe, its ingredient links and its
// instructions in one transaction.
func (s *CatalogService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.New(apperr.ErrUnprocessable, 0, "Title is required")
	}
	ids, err := linkIDs(req.Ingredients)
	if err != nil {
		return nil, err
	}
	if err := checkInstructions(req.Instructions); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Title:       title,
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Cuisine:     req.Cuisine,
		Difficulty:  req.Difficulty,
		PrepTime:    req.PrepTime,
		CookTime:    req.CookTime,
		Servings:    req.Servings,
		AuthorID:    authorID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkIngredientsExist(tx, ids); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := writeLinks(tx, recipe.ID, req.Ingredients); err != nil {
			return err
		}
		return writeInstructions(tx, recipe.ID, req.Instructions)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipe created",
		zap.Int64("recipe_id", recipe.ID),
		zap.String("author_id", authorID.String()),
		zap.Int("ingredients", len(req.Ingredients)))
	s.notify()
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe applies the fields present in req. A present ingredient or
// instruction list replaces the stored one within the same transaction as
// the attribute changes.
func (s *CatalogService) UpdateRecipe(ctx context.Context, id int64, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	updates := make(map[string]interface{})
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperr.New(apperr.ErrUnprocessable, 0, "Title is required")
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Cuisine != nil {
		updates["cuisine"] = *req.Cuisine
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if req.PrepTime != nil {
		updates["prep_time"] = *req.PrepTime
	}
	if req.CookTime != nil {
		updates["cook_time"] = *req.CookTime
	}
	if req.Servings != nil {
		updates["servings"] = *req.Servings
	}

	var ids []int64
	if req.Ingredients != nil {
		var err error
		if ids, err = linkIDs(*req.Ingredients); err != nil {
			return nil, err
		}
	}
	if req.Instructions != nil {
		if err := checkInstructions(*req.Instructions); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to load recipe: %w", err)
		}
		if count == 0 {
			return ErrRecipeNotFound
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update recipe: %w", err)
			}
		}
		if req.Ingredients != nil {
			if err := checkIngredientsExist(tx, ids); err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("failed to clear recipe links: %w", err)
			}
			if err := writeLinks(tx, id, *req.Ingredients); err != nil {
				return err
			}
		}
		if req.Instructions != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.Instruction{}).Error; err != nil {
				return fmt.Errorf("failed to clear instructions: %w", err)
			}
			if err := writeInstructions(tx, id, *req.Instructions); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipe updated",
		zap.Int64("recipe_id", id),
		zap.Int("fields", len(updates)),
		zap.Bool("ingredients_replaced", req.Ingredients != nil),
		zap.Bool("instructions_replaced", req.Instructions != nil))
	s.notify()
	return s.GetRecipe(ctx, id)
}

// linkIDs returns the ingredient ids of a link list, rejecting repeats.
func linkIDs(links []types.RecipeIngredientInput) ([]int64, error) {
	seen := make(map[int64]bool, len(links))
	ids := make([]int64, 0, len(links))
	for _, in := range links {
		if in.IngredientID <= 0 {
			return nil, apperr.New(apperr.ErrUnprocessable, 0, "Unknown ingredient id")
		}
		if seen[in.IngredientID] {
			return nil, apperr.Newf(apperr.ErrUnprocessable, 0, "Ingredient %d is listed more than once", in.IngredientID)
		}
		seen[in.IngredientID] = true
		ids = append(ids, in.IngredientID)
	}
	return ids, nil
}

func checkInstructions(steps []string) error {
	for i, step := range steps {
		if strings.TrimSpace(step) == "" {
			return apperr.Newf(apperr.ErrUnprocessable, 0, "Instruction %d is empty", i+1)
		}
	}
	return nil
}

func checkIngredientsExist(tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check ingredients: %w", err)
	}
	if int(count) != len(ids) {
		return apperr.New(apperr.ErrUnprocessable, 0, "Unknown ingredient id")
	}
	return nil
}

func writeLinks(tx *gorm.DB, recipeID int64, links []types.RecipeIngredientInput) error {
	for pos, in := range links {
		link := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: in.IngredientID,
			Position:     pos,
			Quantity:     strings.TrimSpace(in.Quantity),
			IsOptional:   in.IsOptional,
		}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("failed to link ingredient %d: %w", in.IngredientID, err)
		}
	}
	return nil
}

func writeInstructions(tx *gorm.DB, recipeID int64, steps []string) error {
	for i, step := range steps {
		instruction := models.Instruction{
			RecipeID:    recipeID,
			StepNumber:  i + 1,
			Description: strings.TrimSpace(step),
		}
		if err := tx.Create(&instruction).Error; err != nil {
			return fmt.Errorf("failed to create instruction %d: %w", i+1, err)
		}
	}
	return nil
}

// DeleteRecipe removes the recipe with its links and instructions.
func (s *CatalogService) DeleteRecipe(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe links: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Instruction{}).Error; err != nil {
			return fmt.Errorf("failed to delete instructions: %w", err)
		}
		res := tx.Delete(&models.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("recipe deleted", zap.Int64("recipe_id", id))
	s.notify()
	return nil
}

// RecipeCategories returns the distinct non-empty recipe categories, sorted.
func (s *CatalogService) RecipeCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct().
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe categories: %w", err)
	}
	sort.Strings(categories)
	return categories, nil
}

// PopularRecipes returns the recipes with the most ingredients, ties
// broken by ascending id.
func (s *CatalogService) PopularRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Table("recipes").
		Joins("LEFT JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
		Group("recipes.id").
		Order("COUNT(recipe_ingredients.ingredient_id) DESC, recipes.id ASC").
		Limit(limit).
		Pluck("recipes.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank recipes: %w", err)
	}
	return s.GetRecipesByIDs(ctx, ids)
}

func (s *CatalogService) SetRecipeImage(ctx context.Context, id int64, url, key string) error {
	res := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).
		Updates(map[string]interface{}{"image_url": url, "image_key": key})
	if res.Error != nil {
		return fmt.Errorf("failed to update recipe image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// snapshotTxOptions pins the snapshot reads to one view of the data.
// SQLite transactions are already serializable and its driver takes no
// isolation level.
func (s *CatalogService) snapshotTxOptions() *sql.TxOptions {
	if s.db.Dialector.Name() != "postgres" {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

type snapshotRecipe struct {
	ID    int64
	Title string
}

type snapshotIngredient struct {
	ID       int64
	Name     string
	Category string
}

type snapshotLink struct {
	RecipeID     int64
	IngredientID int64
	Quantity     string
	IsOptional   bool
}

// LoadSnapshot reads the catalog for the matching index. Recipes are
// ordered by id, which fixes their catalog ordinal, and links follow the
// author's ingredient order. The three reads share one transaction so a
// write committed mid-load cannot leave links pointing at recipes the
// snapshot does not have.
func (s *CatalogService) LoadSnapshot(ctx context.Context) (matching.Snapshot, error) {
	var (
		recipes     []snapshotRecipe
		ingredients []snapshotIngredient
		links       []snapshotLink
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("recipes").Select("id, title").Order("id ASC").Scan(&recipes).Error; err != nil {
			return fmt.Errorf("failed to load recipes: %w", err)
		}
		if err := tx.Table("ingredients").Select("id, name, category").Order("id ASC").Scan(&ingredients).Error; err != nil {
			return fmt.Errorf("failed to load ingredients: %w", err)
		}
		if err := tx.Table("recipe_ingredients").
			Select("recipe_id, ingredient_id, quantity, is_optional").
			Order("recipe_id ASC, position ASC, ingredient_id ASC").
			Scan(&links).Error; err != nil {
			return fmt.Errorf("failed to load recipe ingredients: %w", err)
		}
		return nil
	}, s.snapshotTxOptions())
	if err != nil {
		return matching.Snapshot{}, err
	}

	snap := matching.Snapshot{
		Recipes:     make([]matching.RecipeRecord, len(recipes)),
		Ingredients: make([]matching.IngredientRecord, len(ingredients)),
		Links:       make([]matching.LinkRecord, len(links)),
	}
	for i, r := range recipes {
		snap.Recipes[i] = matching.RecipeRecord{ID: matching.RecipeID(r.ID), Title: r.Title}
	}
	for i, ing := range ingredients {
		snap.Ingredients[i] = matching.IngredientRecord{
			ID:       matching.IngredientID(ing.ID),
			Name:     ing.Name,
			Category: matching.Category(ing.Category),
		}
	}
	for i, l := range links {
		snap.Links[i] = matching.LinkRecord{
			RecipeID:     matching.RecipeID(l.RecipeID),
			IngredientID: matching.IngredientID(l.IngredientID),
			Quantity:     l.Quantity,
			IsOptional:   l.IsOptional,
		}
	}
	return snap, nil
}

// Stats summarises the catalog for the dashboard. Admins get global
// numbers; everyone else only sees their own recipes.
func (s *CatalogService) Stats(ctx context.Context, user *models.User) (*types.DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &types.DashboardStats{Scope: "author"}
	if user.IsAdmin() {
		stats.Scope = "global"
	}

	scoped := func() *gorm.DB {
		q := db.Model(&models.Recipe{})
		if !user.IsAdmin() {
			q = q.Where("author_id = ?", user.ID)
		}
		return q
	}

	if err := scoped().Count(&stats.TotalRecipes).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	if err := db.Model(&models.Ingredient{}).Count(&stats.TotalIngredients).Error; err != nil {
		return nil, fmt.Errorf("failed to count ingredients: %w", err)
	}

	stats.RecipesByCategory = []types.CategoryCount{}
	if err := scoped().
		Select("category, COUNT(*) AS count").
		Where("category IS NOT NULL AND category <> ''").
		Group("category").
		Order("category ASC").
		Scan(&stats.RecipesByCategory).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes by category: %w", err)
	}

	if user.IsAdmin() {
		if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		if err := db.Model(&models.User{}).
			Select("role, COUNT(*) AS count").
			Group("role").
			Order("role ASC").
			Scan(&stats.UsersByRole).Error; err != nil {
			return nil, fmt.Errorf("failed to count users by role: %w", err)
		}
	}

	var recent []models.Recipe
	if err := scoped().Order("created_at DESC, id DESC").Limit(recentRecipesLimit).Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent recipes: %w", err)
	}
	stats.RecentRecipes = make([]types.RecipeSummary, 0, len(recent))
	for i := range recent {
		stats.RecentRecipes = append(stats.RecentRecipes, types.NewRecipeSummary(&recent[i]))
	}
	return stats, nil
}
