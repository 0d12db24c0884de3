package service

import (
	"context"

	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/validation"
)

// ListRecipeRatings returns one page of a recipe's ratings.
func (s *Service) ListRecipeRatings(ctx context.Context, recipeID int64, page models.PageParams) ([]models.RatingWithAuthor, models.Pagination, error) {
	if _, err := s.store.GetRecipeByID(ctx, recipeID); err != nil {
		return nil, models.Pagination{}, err
	}
	ratings, total, err := s.store.ListRatingsByRecipe(ctx, recipeID, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return ratings, models.NewPagination(page, total), nil
}

// ListUserRatings returns one page of a user's ratings.
func (s *Service) ListUserRatings(ctx context.Context, userID int64, page models.PageParams) ([]models.RatingWithAuthor, models.Pagination, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, models.Pagination{}, err
	}
	ratings, total, err := s.store.ListRatingsByUser(ctx, userID, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return ratings, models.NewPagination(page, total), nil
}

// SubmitRating upserts the caller's rating for the recipe: a second
// submission replaces the first instead of adding a row.
func (s *Service) SubmitRating(ctx context.Context, callerID, recipeID int64, in *validation.RatingInput) (*models.Rating, error) {
	if _, err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetRecipeByID(ctx, recipeID); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		Score:    in.Score,
		Comment:  in.Comment,
		UserID:   callerID,
		RecipeID: recipeID,
	}
	if err := s.store.UpsertRating(ctx, rating); err != nil {
		return nil, err
	}
	s.log.Infof("Rating %d/5 by user %d for recipe %d", rating.Score, callerID, recipeID)
	return rating, nil
}

// GetRating returns one rating by id.
func (s *Service) GetRating(ctx context.Context, id int64) (*models.Rating, error) {
	return s.store.GetRatingByID(ctx, id)
}

// UpdateRating applies a partial update to a rating. Owner or admin only.
func (s *Service) UpdateRating(ctx context.Context, callerID, id int64, in *validation.RatingInput) (*models.Rating, error) {
	rating, err := s.store.GetRatingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, callerID, rating.UserID); err != nil {
		return nil, err
	}

	rating.Score = in.Score
	if in.Comment != nil {
		rating.Comment = in.Comment
	}
	if err := s.store.UpdateRating(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// DeleteRating deletes a rating. Owner or admin only.
func (s *Service) DeleteRating(ctx context.Context, callerID, id int64) error {
	rating, err := s.store.GetRatingByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwnerOrAdmin(ctx, callerID, rating.UserID); err != nil {
		return err
	}
	if err := s.store.DeleteRating(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Rating %d deleted (user %d)", id, callerID)
	return nil
}

// RecipeRatingStats aggregates a recipe's ratings.
func (s *Service) RecipeRatingStats(ctx context.Context, recipeID int64) (*models.RatingStats, error) {
	if _, err := s.store.GetRecipeByID(ctx, recipeID); err != nil {
		return nil, err
	}
	return s.store.RatingStats(ctx, recipeID)
}
