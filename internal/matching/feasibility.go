package matching

// Feasibility is the full answer to "can I cook this with what I have".
type Feasibility struct {
	RecipeID          RecipeID
	CanMake           bool
	Score             float64
	Missing           []IngredientID
	AvailableOptional []IngredientID
}

// CanMakeWith reports whether every required ingredient of the recipe is
// available. Optional ingredients never block a recipe, so a recipe with no
// required ingredients is always makeable.
func CanMakeWith(ix *Index, id RecipeID, available IDSet) (bool, error) {
	entry, ok := ix.recipes[id]
	if !ok {
		return false, unknownRecipe(id)
	}
	return entry.canMake(available), nil
}

// MissingIngredients lists the required ingredients that are not available,
// in recipe order.
func MissingIngredients(ix *Index, id RecipeID, available IDSet) ([]IngredientID, error) {
	entry, ok := ix.recipes[id]
	if !ok {
		return nil, unknownRecipe(id)
	}
	return entry.missing(available), nil
}

// AvailableOptionalIngredients lists the optional ingredients that are
// available, in recipe order.
func AvailableOptionalIngredients(ix *Index, id RecipeID, available IDSet) ([]IngredientID, error) {
	entry, ok := ix.recipes[id]
	if !ok {
		return nil, unknownRecipe(id)
	}
	out := []IngredientID{}
	for _, ref := range entry.ingredients {
		if ref.IsOptional && available.Has(ref.ID) {
			out = append(out, ref.ID)
		}
	}
	return out, nil
}

func Assess(ix *Index, id RecipeID, available IDSet) (Feasibility, error) {
	entry, ok := ix.recipes[id]
	if !ok {
		return Feasibility{}, unknownRecipe(id)
	}
	optional, _ := AvailableOptionalIngredients(ix, id, available)
	missing := entry.missing(available)
	return Feasibility{
		RecipeID:          id,
		CanMake:           len(missing) == 0,
		Score:             entry.score(available),
		Missing:           missing,
		AvailableOptional: optional,
	}, nil
}

// Makeable returns, in catalog order, every recipe whose required
// ingredients are all in available.
func Makeable(ix *Index, available []IngredientID) ([]RecipeID, error) {
	set := NewIDSet(available)
	if set.Len() == 0 {
		return nil, ErrNoIngredients
	}
	out := []RecipeID{}
	for _, id := range ix.order {
		if ix.recipes[id].canMake(set) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (e *recipeEntry) canMake(available IDSet) bool {
	for _, ref := range e.ingredients {
		if !ref.IsOptional && !available.Has(ref.ID) {
			return false
		}
	}
	return true
}

func (e *recipeEntry) missing(available IDSet) []IngredientID {
	out := []IngredientID{}
	for _, ref := range e.ingredients {
		if !ref.IsOptional && !available.Has(ref.ID) {
			out = append(out, ref.ID)
		}
	}
	return out
}
