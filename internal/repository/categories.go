package repository

import (
	"context"
	"fmt"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
)

const categoryColumns = `
	c.id, c.name, c.slug, c.description, c.image, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM recipes r WHERE r.category_id = c.id) AS recipe_count`

// CreateCategory creates a new category, filling in id and timestamps.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, description, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		category.Name, category.Slug, category.Description, category.Image).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if uniqueViolation(err, "") {
		return conflict("category with this name already exists", err)
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetCategoryByID retrieves a category by id.
func (r *Repository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT` + categoryColumns + ` FROM categories c WHERE c.id = $1`
	err := r.db.GetContext(ctx, category, query, id)
	if isNoRows(err) {
		return nil, apperrors.NotFound("category")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

// ListCategories returns one page of categories, optionally filtered by a
// case-insensitive name search, together with the total match count.
func (r *Repository) ListCategories(ctx context.Context, search string, page models.PageParams) ([]models.Category, int64, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = ` WHERE c.name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM categories c` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	listQuery := `SELECT` + categoryColumns + ` FROM categories c` + where +
		fmt.Sprintf(` ORDER BY c.name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

// UpdateCategory persists the mutable fields of the category.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, image = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		category.ID, category.Name, category.Slug, category.Description, category.Image).
		Scan(&category.UpdatedAt)
	if uniqueViolation(err, "") {
		return conflict("category with this name already exists", err)
	}
	if isNoRows(err) {
		return apperrors.NotFound("category")
	}
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// DeleteCategory deletes a category. Deletion fails with Conflict while any
// recipe still references it (FK is ON DELETE RESTRICT).
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if foreignKeyViolation(err) {
		return conflict("category still has recipes; reassign or delete them first", err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("category")
	}
	return nil
}

// CountRecipesInCategory returns how many recipes reference the category.
func (r *Repository) CountRecipesInCategory(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM recipes WHERE category_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes in category: %w", err)
	}
	return count, nil
}
