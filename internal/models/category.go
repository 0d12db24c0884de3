package models

import "time"

// Category represents a named recipe grouping. Name and slug are unique.
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description" db:"description"`
	Image       *string   `json:"image" db:"image"`
	RecipeCount int64     `json:"recipe_count" db:"recipe_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryRef is the nested category shape exposed on recipes. Queries
// alias the joined columns to the dotted paths ("category.id") the sqlx
// mapper derives for named struct fields.
type CategoryRef struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}
