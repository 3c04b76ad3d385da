package models

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID                int64              `gorm:"primaryKey" json:"id"`
	Title             string             `gorm:"size:255;not null" json:"title"`
	Description       string             `gorm:"type:text" json:"description"`
	Category          string             `gorm:"size:50;index" json:"category"`
	Cuisine           string             `gorm:"size:50" json:"cuisine"`
	Difficulty        string             `gorm:"size:20" json:"difficulty"`
	PrepTime          int                `json:"prep_time"`
	CookTime          int                `json:"cook_time"`
	Servings          int                `json:"servings"`
	ImageURL          string             `gorm:"size:512" json:"image_url"`
	ImageKey          string             `gorm:"size:512" json:"-"`
	AuthorID          uuid.UUID          `gorm:"type:varchar(36);index" json:"author_id"`
	Author            *User              `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	RecipeIngredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients,omitempty"`
	Instructions      []Instruction      `gorm:"foreignKey:RecipeID" json:"instructions,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// RecipeIngredient links a recipe to an ingredient. Position keeps the
// order the author listed ingredients in.
type RecipeIngredient struct {
	RecipeID     int64      `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	IngredientID int64      `gorm:"primaryKey;autoIncrement:false;index" json:"ingredient_id"`
	Position     int        `gorm:"not null;default:0" json:"position"`
	Quantity     string     `gorm:"size:100" json:"quantity"`
	IsOptional   bool       `gorm:"not null;default:false" json:"is_optional"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Instruction struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	RecipeID    int64     `gorm:"not null;uniqueIndex:idx_instruction_step" json:"recipe_id"`
	StepNumber  int       `gorm:"not null;uniqueIndex:idx_instruction_step" json:"step_number"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
