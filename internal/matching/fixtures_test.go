package matching

const (
	beef IngredientID = iota + 1
	onion
	pepper
	garlic
	tomato
	rice
	salt
)

const (
	r1 RecipeID = iota + 1 // beef, onion, pepper(optional)
	r2                     // beef
	r3                     // no ingredients
	r4                     // beef, onion, garlic, tomato, rice
	r5                     // beef, onion, garlic, tomato, salt
	r6                     // salt(optional), pepper(optional)
)

func testSnapshot() Snapshot {
	return Snapshot{
		Recipes: []RecipeRecord{
			{ID: r1, Title: "Beef stew"},
			{ID: r2, Title: "Seared beef"},
			{ID: r3, Title: "Ice water"},
			{ID: r4, Title: "Beef pilaf"},
			{ID: r5, Title: "Beef tibs"},
			{ID: r6, Title: "Seasoning"},
		},
		Ingredients: []IngredientRecord{
			{ID: beef, Name: "Beef", Category: "meat"},
			{ID: onion, Name: "Onion", Category: "vegetables"},
			{ID: pepper, Name: "Pepper", Category: "spices"},
			{ID: garlic, Name: "Garlic", Category: "vegetables"},
			{ID: tomato, Name: "Tomato", Category: "vegetables"},
			{ID: rice, Name: "Rice", Category: "grains"},
			{ID: salt, Name: "Salt", Category: "spices"},
		},
		Links: []LinkRecord{
			{RecipeID: r1, IngredientID: beef, Quantity: "500g"},
			{RecipeID: r1, IngredientID: onion, Quantity: "2"},
			{RecipeID: r1, IngredientID: pepper, Quantity: "1 tsp", IsOptional: true},
			{RecipeID: r2, IngredientID: beef},
			{RecipeID: r4, IngredientID: beef},
			{RecipeID: r4, IngredientID: onion},
			{RecipeID: r4, IngredientID: garlic},
			{RecipeID: r4, IngredientID: tomato},
			{RecipeID: r4, IngredientID: rice},
			{RecipeID: r5, IngredientID: beef},
			{RecipeID: r5, IngredientID: onion},
			{RecipeID: r5, IngredientID: garlic},
			{RecipeID: r5, IngredientID: tomato},
			{RecipeID: r5, IngredientID: salt},
			{RecipeID: r6, IngredientID: salt, IsOptional: true},
			{RecipeID: r6, IngredientID: pepper, IsOptional: true},
		},
	}
}

func testIndex() *Index {
	return Build(testSnapshot(), DefaultCategories())
}

func ids(in ...IngredientID) []IngredientID { return in }
