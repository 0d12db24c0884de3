package repository

import (
	"context"
	"fmt"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
)

const ratingColumns = `
	rt.id, rt.score, rt.comment, rt.user_id, rt.recipe_id, rt.created_at, rt.updated_at,
	u.id AS "author.id", u.username AS "author.username"`

// UpsertRating inserts the rating or, when the caller already rated the
// recipe, updates the existing row in place. One row per (user, recipe).
func (r *Repository) UpsertRating(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO ratings (score, comment, user_id, recipe_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, recipe_id) DO UPDATE
		SET score = EXCLUDED.score, comment = EXCLUDED.comment, updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		rating.Score, rating.Comment, rating.UserID, rating.RecipeID).
		Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
	if foreignKeyViolation(err) {
		return apperrors.Wrap(apperrors.KindNotFound, "recipe not found", err)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// GetRatingByID retrieves a rating by id.
func (r *Repository) GetRatingByID(ctx context.Context, id int64) (*models.Rating, error) {
	rating := &models.Rating{}
	query := `
		SELECT id, score, comment, user_id, recipe_id, created_at, updated_at
		FROM ratings WHERE id = $1`
	err := r.db.GetContext(ctx, rating, query, id)
	if isNoRows(err) {
		return nil, apperrors.NotFound("rating")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find rating: %w", err)
	}
	return rating, nil
}

// UpdateRating persists the mutable fields of the rating.
func (r *Repository) UpdateRating(ctx context.Context, rating *models.Rating) error {
	query := `
		UPDATE ratings
		SET score = $2, comment = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query, rating.ID, rating.Score, rating.Comment).
		Scan(&rating.UpdatedAt)
	if isNoRows(err) {
		return apperrors.NotFound("rating")
	}
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	return nil
}

// DeleteRating deletes a rating.
func (r *Repository) DeleteRating(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("rating")
	}
	return nil
}

// ListRatingsByRecipe returns one page of a recipe's ratings, newest first.
func (r *Repository) ListRatingsByRecipe(ctx context.Context, recipeID int64, page models.PageParams) ([]models.RatingWithAuthor, int64, error) {
	return r.listRatings(ctx, "rt.recipe_id", recipeID, page)
}

// ListRatingsByUser returns one page of a user's ratings, newest first.
func (r *Repository) ListRatingsByUser(ctx context.Context, userID int64, page models.PageParams) ([]models.RatingWithAuthor, int64, error) {
	return r.listRatings(ctx, "rt.user_id", userID, page)
}

func (r *Repository) listRatings(ctx context.Context, column string, id int64, page models.PageParams) ([]models.RatingWithAuthor, int64, error) {
	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM ratings rt WHERE %s = $1`, column)
	if err := r.db.GetContext(ctx, &total, countQuery, id); err != nil {
		return nil, 0, fmt.Errorf("failed to count ratings: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM ratings rt
		JOIN users u ON u.id = rt.user_id
		WHERE %s = $1
		ORDER BY rt.created_at DESC
		LIMIT $2 OFFSET $3`, ratingColumns, column)

	ratings := []models.RatingWithAuthor{}
	if err := r.db.SelectContext(ctx, &ratings, listQuery, id, page.PerPage, page.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, total, nil
}

// RatingStats aggregates the recipe's ratings into count, average, and a
// per-score distribution with keys 1 through 5.
func (r *Repository) RatingStats(ctx context.Context, recipeID int64) (*models.RatingStats, error) {
	rows := []struct {
		Score int   `db:"score"`
		Count int64 `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT score, COUNT(*) AS count
		FROM ratings WHERE recipe_id = $1
		GROUP BY score`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating stats: %w", err)
	}

	stats := &models.RatingStats{
		RecipeID:     recipeID,
		Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	var sum int64
	for _, row := range rows {
		stats.Distribution[row.Score] = row.Count
		stats.TotalRatings += row.Count
		sum += int64(row.Score) * row.Count
	}
	if stats.TotalRatings > 0 {
		avg := float64(sum) / float64(stats.TotalRatings)
		stats.Average = &avg
	}
	return stats, nil
}
