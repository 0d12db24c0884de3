package models

import "time"

// Ingredient is a catalog entry shared across recipes. Name is unique.
type Ingredient struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Unit      *string   `json:"unit" db:"unit"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RecipeIngredient is one row of a recipe's ingredient list: the catalog
// entry plus the per-recipe quantity annotations from the join table.
type RecipeIngredient struct {
	IngredientID int64   `json:"ingredient_id" db:"ingredient_id"`
	Name         string  `json:"name" db:"name"`
	Quantity     string  `json:"quantity" db:"quantity"`
	Unit         *string `json:"unit" db:"unit"`
	Notes        *string `json:"notes" db:"notes"`
	Position     int     `json:"position" db:"position"`
}
