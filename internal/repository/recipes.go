package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
)

// IngredientParam is one entry of a recipe's ingredient list to persist.
// Missing catalog entries are created by name inside the same transaction.
type IngredientParam struct {
	Name     string
	Quantity string
	Unit     *string
	Notes    *string
}

// RecipeFilter narrows recipe listings. Nil/empty fields are ignored.
type RecipeFilter struct {
	CategoryID *int64
	UserID     *int64
	Difficulty string
	Search     string
	Ingredient string
	Published  *bool
}

const recipeSummaryColumns = `
	r.id, r.title, r.slug, r.description, r.instructions, r.prep_time,
	r.cook_time, r.servings, r.difficulty, r.image, r.is_published,
	r.user_id, r.category_id, r.created_at, r.updated_at,
	u.id AS "author.id", u.username AS "author.username",
	c.id AS "category.id", c.name AS "category.name", c.slug AS "category.slug",
	(SELECT COUNT(*) FROM ratings rt WHERE rt.recipe_id = r.id) AS rating_count,
	(SELECT ROUND(AVG(rt.score)::numeric, 2) FROM ratings rt WHERE rt.recipe_id = r.id) AS average_rating`

const recipeSummaryFrom = `
	FROM recipes r
	JOIN users u ON u.id = r.user_id
	JOIN categories c ON c.id = r.category_id`

// CreateRecipe inserts the recipe and its ingredient list in one
// transaction, filling in id and timestamps.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *models.Recipe, ingredients []IngredientParam) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO recipes (title, slug, description, instructions, prep_time,
			cook_time, servings, difficulty, image, is_published, user_id,
			category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowxContext(ctx, query,
		recipe.Title, recipe.Slug, recipe.Description, recipe.Instructions,
		recipe.PrepTime, recipe.CookTime, recipe.Servings, recipe.Difficulty,
		recipe.Image, recipe.IsPublished, recipe.UserID, recipe.CategoryID).
		Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
	if uniqueViolation(err, "") {
		return conflict("recipe with this slug already exists", err)
	}
	if foreignKeyViolation(err) {
		return apperrors.Wrap(apperrors.KindNotFound, "category not found", err)
	}
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	if err := replaceIngredients(ctx, tx, recipe.ID, ingredients); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}
	return nil
}

// UpdateRecipe persists the mutable fields of the recipe and, when
// ingredients is non-nil, replaces the whole ingredient list. Both writes
// share one transaction.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe *models.Recipe, ingredients *[]IngredientParam) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE recipes
		SET title = $2, slug = $3, description = $4, instructions = $5,
			prep_time = $6, cook_time = $7, servings = $8, difficulty = $9,
			image = $10, is_published = $11, category_id = $12,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`
	err = tx.QueryRowxContext(ctx, query,
		recipe.ID, recipe.Title, recipe.Slug, recipe.Description,
		recipe.Instructions, recipe.PrepTime, recipe.CookTime, recipe.Servings,
		recipe.Difficulty, recipe.Image, recipe.IsPublished, recipe.CategoryID).
		Scan(&recipe.UpdatedAt)
	if uniqueViolation(err, "") {
		return conflict("recipe with this slug already exists", err)
	}
	if foreignKeyViolation(err) {
		return apperrors.Wrap(apperrors.KindNotFound, "category not found", err)
	}
	if isNoRows(err) {
		return apperrors.NotFound("recipe")
	}
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	if ingredients != nil {
		if err := replaceIngredients(ctx, tx, recipe.ID, *ingredients); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe update: %w", err)
	}
	return nil
}

// replaceIngredients rewrites the recipe's ingredient associations,
// creating missing catalog entries by name.
func replaceIngredients(ctx context.Context, tx *sqlx.Tx, recipeID int64, ingredients []IngredientParam) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}

	for i, item := range ingredients {
		var ingredientID int64
		// Upsert-by-name keeps RETURNING usable on the conflict path.
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO ingredients (name, unit, created_at)
			VALUES ($1, $2, CURRENT_TIMESTAMP)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, item.Name, item.Unit).Scan(&ingredientID)
		if err != nil {
			return fmt.Errorf("failed to resolve ingredient %q: %w", item.Name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity, unit, notes, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			recipeID, ingredientID, item.Quantity, item.Unit, item.Notes, i)
		if err != nil {
			return fmt.Errorf("failed to attach ingredient %q: %w", item.Name, err)
		}
	}
	return nil
}

// GetRecipeByID retrieves the bare recipe row (enough for ownership checks).
func (r *Repository) GetRecipeByID(ctx context.Context, id int64) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	query := `
		SELECT id, title, slug, description, instructions, prep_time, cook_time,
			servings, difficulty, image, is_published, user_id, category_id,
			created_at, updated_at
		FROM recipes WHERE id = $1`
	err := r.db.GetContext(ctx, recipe, query, id)
	if isNoRows(err) {
		return nil, apperrors.NotFound("recipe")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	return recipe, nil
}

// GetRecipeDetail retrieves the recipe with author/category references,
// rating summary, and the ordered ingredient list.
func (r *Repository) GetRecipeDetail(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	summary := models.RecipeSummary{}
	query := `SELECT` + recipeSummaryColumns + recipeSummaryFrom + ` WHERE r.id = $1`
	err := r.db.GetContext(ctx, &summary, query, id)
	if isNoRows(err) {
		return nil, apperrors.NotFound("recipe")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	summary.ComputeTotalTime()

	ingredients := []models.RecipeIngredient{}
	err = r.db.SelectContext(ctx, &ingredients, `
		SELECT ri.ingredient_id, i.name, ri.quantity, ri.unit, ri.notes, ri.position
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = $1
		ORDER BY ri.position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}

	return &models.RecipeDetail{RecipeSummary: summary, Ingredients: ingredients}, nil
}

// ListRecipes returns one page of recipe summaries matching the filter,
// newest first, together with the total match count.
func (r *Repository) ListRecipes(ctx context.Context, filter RecipeFilter, page models.PageParams) ([]models.RecipeSummary, int64, error) {
	clauses := []string{}
	args := []interface{}{}

	addClause := func(condition string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(condition, len(args)))
	}

	if filter.CategoryID != nil {
		addClause("r.category_id = $%d", *filter.CategoryID)
	}
	if filter.UserID != nil {
		addClause("r.user_id = $%d", *filter.UserID)
	}
	if filter.Difficulty != "" {
		addClause("r.difficulty = $%d", filter.Difficulty)
	}
	if filter.Search != "" {
		addClause("r.title ILIKE $%d", "%"+filter.Search+"%")
	}
	if filter.Ingredient != "" {
		addClause(`EXISTS (
			SELECT 1 FROM recipe_ingredients ri
			JOIN ingredients i ON i.id = ri.ingredient_id
			WHERE ri.recipe_id = r.id AND i.name ILIKE $%d)`, "%"+filter.Ingredient+"%")
	}
	if filter.Published != nil {
		addClause("r.is_published = $%d", *filter.Published)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM recipes r`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	listQuery := `SELECT` + recipeSummaryColumns + recipeSummaryFrom + where +
		fmt.Sprintf(` ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	recipes := []models.RecipeSummary{}
	if err := r.db.SelectContext(ctx, &recipes, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	for i := range recipes {
		recipes[i].ComputeTotalTime()
	}
	return recipes, total, nil
}

// RecipeSlugExists reports whether another recipe already uses the slug.
func (r *Repository) RecipeSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM recipes WHERE slug = $1 AND id <> $2)`, slug, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check recipe slug: %w", err)
	}
	return exists, nil
}

// DeleteRecipe deletes a recipe; its ingredient associations and ratings
// cascade with it.
func (r *Repository) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("recipe")
	}
	return nil
}
