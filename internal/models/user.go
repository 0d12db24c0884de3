package models

import "time"

// User represents a registered account.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Not serialized
	FullName     *string   `json:"full_name" db:"full_name"`
	Bio          *string   `json:"bio" db:"bio"`
	ProfileImage *string   `json:"profile_image" db:"profile_image"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	RecipeCount  int64     `json:"recipe_count" db:"recipe_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AuthorRef is the nested author shape exposed on recipes and ratings.
// Queries alias the joined columns to the dotted paths ("author.id") the
// sqlx mapper derives for named struct fields.
type AuthorRef struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
}
