package service

import (
	"context"

	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/validation"
)

// ListIngredients returns one page of the ingredient catalog.
func (s *Service) ListIngredients(ctx context.Context, search string, page models.PageParams) ([]models.Ingredient, models.Pagination, error) {
	ingredients, total, err := s.store.ListIngredients(ctx, search, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return ingredients, models.NewPagination(page, total), nil
}

// GetIngredient returns one catalog ingredient by id.
func (s *Service) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	return s.store.GetIngredientByID(ctx, id)
}

// CreateIngredient adds a catalog ingredient. Any authenticated user may
// extend the catalog; the caller only needs to exist.
func (s *Service) CreateIngredient(ctx context.Context, callerID int64, in *validation.IngredientCreateInput) (*models.Ingredient, error) {
	if _, err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}

	ingredient := &models.Ingredient{Name: in.Name, Unit: in.Unit}
	if err := s.store.CreateIngredient(ctx, ingredient); err != nil {
		return nil, err
	}
	s.log.Infof("Ingredient created: %s", ingredient.Name)
	return ingredient, nil
}

// UpdateIngredient applies a partial update to a catalog ingredient. Admin
// only, since catalog entries are shared and have no owner.
func (s *Service) UpdateIngredient(ctx context.Context, callerID, id int64, in *validation.IngredientUpdateInput) (*models.Ingredient, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	ingredient, err := s.store.GetIngredientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		ingredient.Name = *in.Name
	}
	if in.Unit != nil {
		ingredient.Unit = in.Unit
	}

	if err := s.store.UpdateIngredient(ctx, ingredient); err != nil {
		return nil, err
	}
	s.log.Infof("Ingredient updated: %s", ingredient.Name)
	return ingredient, nil
}

// DeleteIngredient removes a catalog ingredient. Admin only; fails with
// Conflict while recipes still list it.
func (s *Service) DeleteIngredient(ctx context.Context, callerID, id int64) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if err := s.store.DeleteIngredient(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Ingredient %d deleted", id)
	return nil
}
