package matching

import "sort"

// IngredientRef is one ingredient association of a recipe as seen by the
// index.
type IngredientRef struct {
	ID         IngredientID
	IsOptional bool
	Quantity   string
}

// BuildStats summarises what Build kept and what it had to skip.
type BuildStats struct {
	Recipes     int
	Ingredients int
	Links       int

	// DroppedLinks counts links naming a recipe or ingredient absent from
	// the snapshot.
	DroppedLinks             int
	// DuplicateLinks counts repeated (recipe, ingredient) pairs; the first
	// occurrence wins.
	DuplicateLinks           int
	DuplicateRecipes         int
	DuplicateIngredients     int
	UncategorizedIngredients int
}

type recipeEntry struct {
	record      RecipeRecord
	ordinal     int
	ingredients []IngredientRef
	optional    map[IngredientID]bool
}

// hits returns |recipe ∩ requested|.
func (e *recipeEntry) hits(requested IDSet) int {
	n := 0
	for _, ref := range e.ingredients {
		if requested.Has(ref.ID) {
			n++
		}
	}
	return n
}

// Index is the read-only view of a catalog snapshot used by evaluation,
// ranking and feasibility. It must not be modified after Build returns.
type Index struct {
	categories  *CategorySet
	recipes     map[RecipeID]*recipeEntry
	order       []RecipeID
	ingredients map[IngredientID]IngredientRecord
	containing  map[IngredientID][]RecipeID
	stats       BuildStats
	fingerprint string
}

// Build indexes snap in time linear in the number of links. Inconsistent
// records are skipped and counted in the returned index's Stats; Build
// itself never fails.
func Build(snap Snapshot, categories *CategorySet) *Index {
	if categories == nil {
		categories = DefaultCategories()
	}

	ix := &Index{
		categories:  categories,
		recipes:     make(map[RecipeID]*recipeEntry, len(snap.Recipes)),
		order:       make([]RecipeID, 0, len(snap.Recipes)),
		ingredients: make(map[IngredientID]IngredientRecord, len(snap.Ingredients)),
		containing:  make(map[IngredientID][]RecipeID),
		fingerprint: snap.Fingerprint(),
	}

	for _, r := range snap.Recipes {
		if _, dup := ix.recipes[r.ID]; dup {
			ix.stats.DuplicateRecipes++
			continue
		}
		ix.recipes[r.ID] = &recipeEntry{
			record:   r,
			ordinal:  len(ix.order),
			optional: make(map[IngredientID]bool),
		}
		ix.order = append(ix.order, r.ID)
	}

	for _, ing := range snap.Ingredients {
		if _, dup := ix.ingredients[ing.ID]; dup {
			ix.stats.DuplicateIngredients++
			continue
		}
		if !categories.Contains(ing.Category) {
			ing.Category = CategoryUnknown
			ix.stats.UncategorizedIngredients++
		}
		ix.ingredients[ing.ID] = ing
	}

	for _, link := range snap.Links {
		entry, ok := ix.recipes[link.RecipeID]
		if !ok {
			ix.stats.DroppedLinks++
			continue
		}
		if _, ok := ix.ingredients[link.IngredientID]; !ok {
			ix.stats.DroppedLinks++
			continue
		}
		if _, dup := entry.optional[link.IngredientID]; dup {
			ix.stats.DuplicateLinks++
			continue
		}
		entry.optional[link.IngredientID] = link.IsOptional
		entry.ingredients = append(entry.ingredients, IngredientRef{
			ID:         link.IngredientID,
			IsOptional: link.IsOptional,
			Quantity:   link.Quantity,
		})
		ix.containing[link.IngredientID] = append(ix.containing[link.IngredientID], link.RecipeID)
		ix.stats.Links++
	}

	// Links may arrive in any recipe order; posting lists are kept in
	// catalog order.
	for _, list := range ix.containing {
		sort.Slice(list, func(i, j int) bool {
			return ix.recipes[list[i]].ordinal < ix.recipes[list[j]].ordinal
		})
	}

	ix.stats.Recipes = len(ix.order)
	ix.stats.Ingredients = len(ix.ingredients)
	return ix
}

// IngredientsOf returns the recipe's ingredient associations in recipe
// order. ok is false for unknown recipes.
func (ix *Index) IngredientsOf(id RecipeID) (refs []IngredientRef, ok bool) {
	entry, ok := ix.recipes[id]
	if !ok {
		return nil, false
	}
	refs = make([]IngredientRef, len(entry.ingredients))
	copy(refs, entry.ingredients)
	return refs, true
}

// RecipesContaining returns the recipes that list the ingredient, in
// catalog order.
func (ix *Index) RecipesContaining(id IngredientID) []RecipeID {
	list := ix.containing[id]
	out := make([]RecipeID, len(list))
	copy(out, list)
	return out
}

func (ix *Index) CategoryOf(id IngredientID) Category {
	ing, ok := ix.ingredients[id]
	if !ok {
		return CategoryUnknown
	}
	return ing.Category
}

func (ix *Index) Recipe(id RecipeID) (RecipeRecord, bool) {
	entry, ok := ix.recipes[id]
	if !ok {
		return RecipeRecord{}, false
	}
	return entry.record, true
}

func (ix *Index) Ingredient(id IngredientID) (IngredientRecord, bool) {
	ing, ok := ix.ingredients[id]
	return ing, ok
}

// RecipeIDs returns every recipe in catalog order.
func (ix *Index) RecipeIDs() []RecipeID {
	out := make([]RecipeID, len(ix.order))
	copy(out, ix.order)
	return out
}

func (ix *Index) Len() int { return len(ix.order) }

func (ix *Index) Stats() BuildStats { return ix.stats }

func (ix *Index) Categories() *CategorySet { return ix.categories }

// Fingerprint identifies the snapshot the index was built from.
func (ix *Index) Fingerprint() string { return ix.fingerprint }

func (ix *Index) ordinal(id RecipeID) int {
	return ix.recipes[id].ordinal
}
