package models

import "time"

// Recipe represents a recipe owned by a user within a category.
type Recipe struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Slug         string    `json:"slug" db:"slug"`
	Description  *string   `json:"description" db:"description"`
	Instructions string    `json:"instructions" db:"instructions"`
	PrepTime     *int      `json:"prep_time" db:"prep_time"` // minutes
	CookTime     *int      `json:"cook_time" db:"cook_time"` // minutes
	Servings     *int      `json:"servings" db:"servings"`
	Difficulty   *string   `json:"difficulty" db:"difficulty"`
	Image        *string   `json:"image" db:"image"`
	IsPublished  bool      `json:"is_published" db:"is_published"`
	UserID       int64     `json:"user_id" db:"user_id"`
	CategoryID   int64     `json:"category_id" db:"category_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RecipeSummary is the list-view shape: the recipe plus denormalized
// author/category references and aggregate rating data.
type RecipeSummary struct {
	Recipe
	Author        AuthorRef   `json:"author"`
	Category      CategoryRef `json:"category"`
	TotalTime     int         `json:"total_time" db:"-"`
	AverageRating *float64    `json:"average_rating" db:"average_rating"`
	RatingCount   int64       `json:"rating_count" db:"rating_count"`
}

// RecipeDetail extends the summary with the full ingredient list.
type RecipeDetail struct {
	RecipeSummary
	Ingredients []RecipeIngredient `json:"ingredients"`
}

// ComputeTotalTime fills TotalTime from the optional prep and cook times.
func (r *RecipeSummary) ComputeTotalTime() {
	total := 0
	if r.PrepTime != nil {
		total += *r.PrepTime
	}
	if r.CookTime != nil {
		total += *r.CookTime
	}
	r.TotalTime = total
}
