package models

import "time"

// Ingredient names are unique regardless of case. Category must belong to
// the configured category enumeration; the service checks that on write.
type Ingredient struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category  string    `gorm:"size:50;not null;index" json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
