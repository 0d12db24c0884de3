package repository

import (
	"context"
	"fmt"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
)

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.full_name, u.bio,
	u.profile_image, u.is_admin, u.created_at, u.updated_at,
	(SELECT COUNT(*) FROM recipes r WHERE r.user_id = u.id) AS recipe_count`

// CreateUser creates a new user, filling in id and timestamps.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FullName).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if uniqueViolation(err, "users_username_key") {
		return conflict("user with this username already exists", err)
	}
	if uniqueViolation(err, "users_email_key") {
		return conflict("user with this email already exists", err)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by id.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT` + userColumns + ` FROM users u WHERE u.id = $1`
	err := r.db.GetContext(ctx, user, query, id)
	if isNoRows(err) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT` + userColumns + ` FROM users u WHERE u.email = $1`
	err := r.db.GetContext(ctx, user, query, email)
	if isNoRows(err) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT` + userColumns + ` FROM users u WHERE u.username = $1`
	err := r.db.GetContext(ctx, user, query, username)
	if isNoRows(err) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUser persists the mutable profile fields of the user.
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET full_name = $2, bio = $3, profile_image = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.FullName, user.Bio, user.ProfileImage).
		Scan(&user.UpdatedAt)
	if isNoRows(err) {
		return apperrors.NotFound("user")
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
