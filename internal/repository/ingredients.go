package repository

import (
	"context"
	"fmt"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
)

// CreateIngredient creates a catalog ingredient, filling in id and timestamp.
func (r *Repository) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	query := `
		INSERT INTO ingredients (name, unit, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query, ingredient.Name, ingredient.Unit).
		Scan(&ingredient.ID, &ingredient.CreatedAt)
	if uniqueViolation(err, "") {
		return conflict("ingredient with this name already exists", err)
	}
	if err != nil {
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

// GetIngredientByID retrieves a catalog ingredient by id.
func (r *Repository) GetIngredientByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	ingredient := &models.Ingredient{}
	query := `SELECT id, name, unit, created_at FROM ingredients WHERE id = $1`
	err := r.db.GetContext(ctx, ingredient, query, id)
	if isNoRows(err) {
		return nil, apperrors.NotFound("ingredient")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ingredient: %w", err)
	}
	return ingredient, nil
}

// ListIngredients returns one page of the ingredient catalog, optionally
// filtered by a case-insensitive name search.
func (r *Repository) ListIngredients(ctx context.Context, search string, page models.PageParams) ([]models.Ingredient, int64, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = ` WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ingredients`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count ingredients: %w", err)
	}

	listQuery := `SELECT id, name, unit, created_at FROM ingredients` + where +
		fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	ingredients := []models.Ingredient{}
	if err := r.db.SelectContext(ctx, &ingredients, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, total, nil
}

// UpdateIngredient persists the mutable fields of the catalog ingredient.
func (r *Repository) UpdateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	query := `UPDATE ingredients SET name = $2, unit = $3 WHERE id = $1 RETURNING id`
	var id int64
	err := r.db.QueryRowxContext(ctx, query, ingredient.ID, ingredient.Name, ingredient.Unit).Scan(&id)
	if uniqueViolation(err, "") {
		return conflict("ingredient with this name already exists", err)
	}
	if isNoRows(err) {
		return apperrors.NotFound("ingredient")
	}
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	return nil
}

// DeleteIngredient deletes a catalog ingredient. Deletion fails with
// Conflict while any recipe still lists it.
func (r *Repository) DeleteIngredient(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if foreignKeyViolation(err) {
		return conflict("ingredient is used by recipes and cannot be deleted", err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("ingredient")
	}
	return nil
}
