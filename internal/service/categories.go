package service

import (
	"context"
	"fmt"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/validation"
)

// ListCategories returns one page of categories, optionally name-filtered.
func (s *Service) ListCategories(ctx context.Context, search string, page models.PageParams) ([]models.Category, models.Pagination, error) {
	categories, total, err := s.store.ListCategories(ctx, search, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return categories, models.NewPagination(page, total), nil
}

// GetCategory returns one category by id.
func (s *Service) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.store.GetCategoryByID(ctx, id)
}

// CreateCategory creates a category. Admin only.
func (s *Service) CreateCategory(ctx context.Context, callerID int64, in *validation.CategoryCreateInput) (*models.Category, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        in.Name,
		Slug:        slugify(in.Name),
		Description: in.Description,
		Image:       in.Image,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.log.Infof("Category created: %s", category.Name)
	return category, nil
}

// UpdateCategory applies a partial update to a category. Admin only.
func (s *Service) UpdateCategory(ctx context.Context, callerID, id int64, in *validation.CategoryUpdateInput) (*models.Category, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	category, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != category.Name {
		category.Name = *in.Name
		category.Slug = slugify(*in.Name)
	}
	if in.Description != nil {
		category.Description = in.Description
	}
	if in.Image != nil {
		category.Image = in.Image
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.log.Infof("Category updated: %s", category.Name)
	return category, nil
}

// DeleteCategory deletes a category. Admin only; fails with Conflict while
// recipes still reference it.
func (s *Service) DeleteCategory(ctx context.Context, callerID, id int64) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	count, err := s.store.CountRecipesInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.New(apperrors.KindConflict,
			fmt.Sprintf("cannot delete category with %d recipe(s); reassign or delete them first", count))
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Category %d deleted", id)
	return nil
}
