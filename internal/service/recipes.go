package service

import (
	"context"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/repository"
	"github.com/recipehub/recipe-service/internal/validation"
)

// AnonymousCaller marks an unauthenticated request on optional-auth routes.
const AnonymousCaller int64 = 0

// ListRecipes returns one page of recipe summaries. Without an explicit
// is_published filter only published recipes are shown; asking for
// unpublished ones is restricted to the caller's own drafts unless the
// caller is an admin.
func (s *Service) ListRecipes(ctx context.Context, callerID int64, filter repository.RecipeFilter, page models.PageParams) ([]models.RecipeSummary, models.Pagination, error) {
	if filter.Published == nil {
		published := true
		filter.Published = &published
	} else if !*filter.Published {
		if callerID == AnonymousCaller {
			return nil, models.Pagination{}, apperrors.New(apperrors.KindUnauthenticated,
				"authentication required to list unpublished recipes")
		}
		caller, err := s.requireUser(ctx, callerID)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		if !caller.IsAdmin {
			filter.UserID = &callerID
		}
	}

	recipes, total, err := s.store.ListRecipes(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return recipes, models.NewPagination(page, total), nil
}

// GetRecipe returns the full recipe detail. Unpublished recipes are visible
// only to their owner or an admin.
func (s *Service) GetRecipe(ctx context.Context, callerID, id int64) (*models.RecipeDetail, error) {
	detail, err := s.store.GetRecipeDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !detail.IsPublished {
		if callerID == AnonymousCaller {
			return nil, apperrors.New(apperrors.KindForbidden, "this recipe is not published")
		}
		if err := s.requireOwnerOrAdmin(ctx, callerID, detail.UserID); err != nil {
			if apperrors.KindOf(err) == apperrors.KindForbidden {
				return nil, apperrors.New(apperrors.KindForbidden, "this recipe is not published")
			}
			return nil, err
		}
	}
	return detail, nil
}

// CreateRecipe creates a recipe owned by the caller, together with its
// ingredient list, atomically.
func (s *Service) CreateRecipe(ctx context.Context, callerID int64, in *validation.RecipeCreateInput) (*models.RecipeDetail, error) {
	if _, err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetCategoryByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	slug, err := s.uniqueRecipeSlug(ctx, in.Title, 0)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Title:        in.Title,
		Slug:         slug,
		Description:  in.Description,
		Instructions: in.Instructions,
		PrepTime:     in.PrepTime,
		CookTime:     in.CookTime,
		Servings:     in.Servings,
		Difficulty:   in.Difficulty,
		Image:        in.Image,
		IsPublished:  in.IsPublished,
		UserID:       callerID,
		CategoryID:   in.CategoryID,
	}
	if err := s.store.CreateRecipe(ctx, recipe, ingredientParams(in.Ingredients)); err != nil {
		return nil, err
	}

	s.log.Infof("Recipe created: %s (user %d)", recipe.Slug, callerID)
	return s.store.GetRecipeDetail(ctx, recipe.ID)
}

// UpdateRecipe applies a partial update. Owner or admin only. A non-nil
// ingredient list replaces the recipe's associations in the same
// transaction as the row update.
func (s *Service) UpdateRecipe(ctx context.Context, callerID, id int64, in *validation.RecipeUpdateInput) (*models.RecipeDetail, error) {
	recipe, err := s.store.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, callerID, recipe.UserID); err != nil {
		return nil, err
	}

	if in.CategoryID != nil && *in.CategoryID != recipe.CategoryID {
		if _, err := s.store.GetCategoryByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		recipe.CategoryID = *in.CategoryID
	}
	if in.Title != nil && *in.Title != recipe.Title {
		slug, err := s.uniqueRecipeSlug(ctx, *in.Title, id)
		if err != nil {
			return nil, err
		}
		recipe.Title = *in.Title
		recipe.Slug = slug
	}
	if in.Description != nil {
		recipe.Description = in.Description
	}
	if in.Instructions != nil {
		recipe.Instructions = *in.Instructions
	}
	if in.PrepTime != nil {
		recipe.PrepTime = in.PrepTime
	}
	if in.CookTime != nil {
		recipe.CookTime = in.CookTime
	}
	if in.Servings != nil {
		recipe.Servings = in.Servings
	}
	if in.Difficulty != nil {
		recipe.Difficulty = in.Difficulty
	}
	if in.Image != nil {
		recipe.Image = in.Image
	}
	if in.IsPublished != nil {
		recipe.IsPublished = *in.IsPublished
	}

	var ingredients *[]repository.IngredientParam
	if in.Ingredients != nil {
		params := ingredientParams(*in.Ingredients)
		ingredients = &params
	}

	if err := s.store.UpdateRecipe(ctx, recipe, ingredients); err != nil {
		return nil, err
	}

	s.log.Infof("Recipe updated: %s (user %d)", recipe.Slug, callerID)
	return s.store.GetRecipeDetail(ctx, recipe.ID)
}

// DeleteRecipe deletes a recipe. Owner or admin only.
func (s *Service) DeleteRecipe(ctx context.Context, callerID, id int64) error {
	recipe, err := s.store.GetRecipeByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwnerOrAdmin(ctx, callerID, recipe.UserID); err != nil {
		return err
	}
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Recipe %d deleted (user %d)", id, callerID)
	return nil
}

func ingredientParams(inputs []validation.RecipeIngredientInput) []repository.IngredientParam {
	params := make([]repository.IngredientParam, 0, len(inputs))
	for _, in := range inputs {
		params = append(params, repository.IngredientParam{
			Name:     in.Name,
			Quantity: in.Quantity,
			Unit:     in.Unit,
			Notes:    in.Notes,
		})
	}
	return params
}
