package testhelpers

import (
	"testing"

	"github.com/pageza/mesobmatch/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// FixturePassword is the plain-text password of every fixture user.
const FixturePassword = "password123"

// Catalog holds the records created by SeedCatalog, keyed by name.
type Catalog struct {
	Admin       models.User
	Author      models.User
	OtherAuthor models.User
	Ingredients map[string]models.Ingredient
	Recipes     map[string]models.Recipe
}

func (c *Catalog) IngredientID(name string) int64 { return c.Ingredients[name].ID }
func (c *Catalog) RecipeID(title string) int64 { return c.Recipes[title].ID }

type fixtureLink struct {
	ingredient string
	optional   bool
}

type fixtureRecipe struct {
	title    string
	category string
	links    []fixtureLink
}

// SeedCatalog inserts three users, seven ingredients and six recipes:
//
//	Beef stew    beef, onion, pepper(optional)
//	Seared beef  beef
//	Ice water    (no ingredients)
//	Beef pilaf   beef, onion, garlic, tomato, rice
//	Beef tibs    beef, onion, garlic, tomato, salt
//	Seasoning    salt(optional), pepper(optional)
func SeedCatalog(t *testing.T, db *gorm.DB) *Catalog {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	c := &Catalog{
		Admin:       models.User{Name: "Admin", Email: "admin@example.com", PasswordHash: string(hash), Role: models.RoleAdmin},
		Author:      models.User{Name: "Author", Email: "author@example.com", PasswordHash: string(hash), Role: models.RoleAuthor},
		OtherAuthor: models.User{Name: "Other", Email: "other@example.com", PasswordHash: string(hash), Role: models.RoleAuthor},
		Ingredients: make(map[string]models.Ingredient),
		Recipes:     make(map[string]models.Recipe),
	}
	for _, u := range []*models.User{&c.Admin, &c.Author, &c.OtherAuthor} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to create user %s: %v", u.Email, err)
		}
	}

	ingredients := []models.Ingredient{
		{Name: "Beef", Category: "meat"},
		{Name: "Onion", Category: "vegetables"},
		{Name: "Pepper", Category: "spices"},
		{Name: "Garlic", Category: "vegetables"},
		{Name: "Tomato", Category: "vegetables"},
		{Name: "Rice", Category: "grains"},
		{Name: "Salt", Category: "spices"},
	}
	for i := range ingredients {
		if err := db.Create(&ingredients[i]).Error; err != nil {
			t.Fatalf("failed to create ingredient %s: %v", ingredients[i].Name, err)
		}
		c.Ingredients[ingredients[i].Name] = ingredients[i]
	}

	recipes := []fixtureRecipe{
		{"Beef stew", "main", []fixtureLink{{"Beef", false}, {"Onion", false}, {"Pepper", true}}},
		{"Seared beef", "main", []fixtureLink{{"Beef", false}}},
		{"Ice water", "drinks", nil},
		{"Beef pilaf", "main", []fixtureLink{{"Beef", false}, {"Onion", false}, {"Garlic", false}, {"Tomato", false}, {"Rice", false}}},
		{"Beef tibs", "main", []fixtureLink{{"Beef", false}, {"Onion", false}, {"Garlic", false}, {"Tomato", false}, {"Salt", false}}},
		{"Seasoning", "condiment", []fixtureLink{{"Salt", true}, {"Pepper", true}}},
	}
	for _, fr := range recipes {
		recipe := models.Recipe{
			Title:    fr.title,
			Category: fr.category,
			AuthorID: c.Author.ID,
			Servings: 2,
		}
		if err := db.Create(&recipe).Error; err != nil {
			t.Fatalf("failed to create recipe %s: %v", fr.title, err)
		}
		for pos, l := range fr.links {
			link := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: c.Ingredients[l.ingredient].ID,
				Position:     pos,
				Quantity:     "1",
				IsOptional:   l.optional,
			}
			if err := db.Create(&link).Error; err != nil {
				t.Fatalf("failed to link %s to %s: %v", l.ingredient, fr.title, err)
			}
		}
		c.Recipes[fr.title] = recipe
	}
	return c
}
