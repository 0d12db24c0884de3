package models

import "time"

// Rating is a user's score for a recipe. At most one rating exists per
// (user, recipe) pair; resubmitting updates the existing row.
type Rating struct {
	ID        int64     `json:"id" db:"id"`
	Score     int       `json:"score" db:"score"`
	Comment   *string   `json:"comment" db:"comment"`
	UserID    int64     `json:"user_id" db:"user_id"`
	RecipeID  int64     `json:"recipe_id" db:"recipe_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RatingWithAuthor is the response shape for rating listings.
type RatingWithAuthor struct {
	Rating
	Author AuthorRef `json:"author"`
}

// RatingStats aggregates the ratings of a single recipe.
type RatingStats struct {
	RecipeID     int64         `json:"recipe_id"`
	TotalRatings int64         `json:"total_ratings"`
	Average      *float64      `json:"average_rating"`
	Distribution map[int]int64 `json:"distribution"` // score -> count, keys 1..5
}
