// Package service implements the business rules behind every endpoint:
// authorization policy, slug management, and orchestration of storage calls.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/repository"
	"github.com/recipehub/recipe-service/internal/token"
	"github.com/sirupsen/logrus"
)

// Store is the persistence surface the service depends on. Implemented by
// repository.Repository; tests substitute an in-memory fake.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context, search string, page models.PageParams) ([]models.Category, int64, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CountRecipesInCategory(ctx context.Context, id int64) (int64, error)

	CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error
	GetIngredientByID(ctx context.Context, id int64) (*models.Ingredient, error)
	ListIngredients(ctx context.Context, search string, page models.PageParams) ([]models.Ingredient, int64, error)
	UpdateIngredient(ctx context.Context, ingredient *models.Ingredient) error
	DeleteIngredient(ctx context.Context, id int64) error

	CreateRecipe(ctx context.Context, recipe *models.Recipe, ingredients []repository.IngredientParam) error
	GetRecipeByID(ctx context.Context, id int64) (*models.Recipe, error)
	GetRecipeDetail(ctx context.Context, id int64) (*models.RecipeDetail, error)
	ListRecipes(ctx context.Context, filter repository.RecipeFilter, page models.PageParams) ([]models.RecipeSummary, int64, error)
	RecipeSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	UpdateRecipe(ctx context.Context, recipe *models.Recipe, ingredients *[]repository.IngredientParam) error
	DeleteRecipe(ctx context.Context, id int64) error

	UpsertRating(ctx context.Context, rating *models.Rating) error
	GetRatingByID(ctx context.Context, id int64) (*models.Rating, error)
	UpdateRating(ctx context.Context, rating *models.Rating) error
	DeleteRating(ctx context.Context, id int64) error
	ListRatingsByRecipe(ctx context.Context, recipeID int64, page models.PageParams) ([]models.RatingWithAuthor, int64, error)
	ListRatingsByUser(ctx context.Context, userID int64, page models.PageParams) ([]models.RatingWithAuthor, int64, error)
	RatingStats(ctx context.Context, recipeID int64) (*models.RatingStats, error)
}

// Mailer sends account emails. A nil Mailer disables sending.
type Mailer interface {
	SendWelcome(to, username string) error
}

// Service handles business logic
type Service struct {
	store  Store
	tokens *token.Manager
	mailer Mailer
	log    *logrus.Logger
}

// NewService initializes a new service
func NewService(store Store, tokens *token.Manager, mailer Mailer, log *logrus.Logger) *Service {
	return &Service{store: store, tokens: tokens, mailer: mailer, log: log}
}

// requireUser loads the caller, mapping a missing account to Unauthenticated
// (the token outlived the user).
func (s *Service) requireUser(ctx context.Context, callerID int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, callerID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.New(apperrors.KindUnauthenticated, "account no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// requireOwnerOrAdmin enforces the mutation policy: the caller must own the
// resource or hold the admin role.
func (s *Service) requireOwnerOrAdmin(ctx context.Context, callerID, ownerID int64) error {
	if callerID == ownerID {
		return nil
	}
	caller, err := s.requireUser(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin {
		return apperrors.New(apperrors.KindForbidden, "you don't have permission to modify this resource")
	}
	return nil
}

// requireAdmin enforces admin-only operations.
func (s *Service) requireAdmin(ctx context.Context, callerID int64) error {
	caller, err := s.requireUser(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin {
		return apperrors.New(apperrors.KindForbidden, "admin privileges required")
	}
	return nil
}

var (
	slugInvalidRe  = regexp.MustCompile(`[^a-z0-9-]`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// slugify derives a URL-safe slug from a name or title.
func slugify(name string) string {
	slug := strings.ToLower(name)
	slug = strings.NewReplacer(" ", "-", "_", "-").Replace(slug)
	slug = slugInvalidRe.ReplaceAllString(slug, "")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

// uniqueRecipeSlug appends a numeric suffix until the slug is free.
func (s *Service) uniqueRecipeSlug(ctx context.Context, title string, excludeID int64) (string, error) {
	base := slugify(title)
	slug := base
	for counter := 1; ; counter++ {
		taken, err := s.store.RecipeSlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
