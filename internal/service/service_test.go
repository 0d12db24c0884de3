package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/repository"
	"github.com/recipehub/recipe-service/internal/token"
	"github.com/recipehub/recipe-service/internal/validation"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) SendWelcome(to, username string) error {
	m.sent = append(m.sent, to)
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore, *recordingMailer) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := newMemStore()
	mailer := &recordingMailer{}
	tokens := token.NewManager("test-secret", time.Hour, 24*time.Hour)
	return NewService(store, tokens, mailer, log), store, mailer
}

func registerUser(t *testing.T, svc *Service, username, email string) *models.User {
	t.Helper()
	user, pair, err := svc.Register(context.Background(), &validation.UserRegistrationInput{
		Username: username,
		Email:    email,
		Password: "Str0ngPass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return user
}

func makeAdmin(t *testing.T, store *memStore, id int64) {
	t.Helper()
	user, ok := store.users[id]
	require.True(t, ok)
	user.IsAdmin = true
}

func createCategory(t *testing.T, svc *Service, store *memStore, name string) *models.Category {
	t.Helper()
	admin := registerUser(t, svc, "admin-"+name, "admin-"+name+"@example.com")
	makeAdmin(t, store, admin.ID)
	category, err := svc.CreateCategory(context.Background(), admin.ID, &validation.CategoryCreateInput{Name: name})
	require.NoError(t, err)
	return category
}

func createRecipe(t *testing.T, svc *Service, userID, categoryID int64, title string, published bool) *models.RecipeDetail {
	t.Helper()
	detail, err := svc.CreateRecipe(context.Background(), userID, &validation.RecipeCreateInput{
		Title:        title,
		Instructions: "Stir everything together and cook.",
		CategoryID:   categoryID,
		IsPublished:  published,
		Ingredients: []validation.RecipeIngredientInput{
			{Name: "salt", Quantity: "1"},
		},
	})
	require.NoError(t, err)
	return detail
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tomato Soup", "tomato-soup"},
		{"Grandma's  Best_Pie!", "grandmas-best-pie"},
		{"  --Already--Slugged--  ", "already-slugged"},
		{"???", "untitled"},
		{"Crème Brûlée", "crme-brle"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, mailer := newTestService(t)
	ctx := context.Background()

	user := registerUser(t, svc, "alice", "alice@example.com")
	assert.Equal(t, []string{"alice@example.com"}, mailer.sent)

	loggedIn, pair, err := svc.Login(ctx, &validation.UserLoginInput{
		Email:    "alice@example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	registerUser(t, svc, "alice", "alice@example.com")

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &validation.UserLoginInput{
			Email:    "alice@example.com",
			Password: "WrongPass1",
		})
		assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &validation.UserLoginInput{
			Email:    "nobody@example.com",
			Password: "Str0ngPass",
		})
		// Same kind either way so the response does not leak which part was wrong.
		assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err))
	})

	t.Run("wrong password by username", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &validation.UserLoginInput{
			Username: "alice",
			Password: "WrongPass1",
		})
		assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err))
	})
}

func TestLoginByUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := registerUser(t, svc, "alice", "alice@example.com")

	loggedIn, pair, err := svc.Login(context.Background(), &validation.UserLoginInput{
		Username: "alice",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	registerUser(t, svc, "alice", "alice@example.com")

	_, _, err := svc.Register(ctx, &validation.UserRegistrationInput{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "Str0ngPass",
	})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRefresh(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, &validation.UserRegistrationInput{
		Username: "alice", Email: "alice@example.com", Password: "Str0ngPass",
	})
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	t.Run("access token is not accepted as refresh", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.AccessToken)
		assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
	})

	t.Run("deleted account cannot refresh", func(t *testing.T) {
		delete(store.users, user.ID)
		_, err := svc.Refresh(ctx, pair.RefreshToken)
		assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
	})
}

func TestCreateRecipeSlugs(t *testing.T) {
	svc, store, _ := newTestService(t)
	user := registerUser(t, svc, "alice", "alice@example.com")
	category := createCategory(t, svc, store, "Soups")

	first := createRecipe(t, svc, user.ID, category.ID, "Tomato Soup", true)
	second := createRecipe(t, svc, user.ID, category.ID, "Tomato Soup", true)
	third := createRecipe(t, svc, user.ID, category.ID, "Tomato Soup", true)

	assert.Equal(t, "tomato-soup", first.Slug)
	assert.Equal(t, "tomato-soup-1", second.Slug)
	assert.Equal(t, "tomato-soup-2", third.Slug)
}

func TestCreateRecipeUnknownCategory(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := registerUser(t, svc, "alice", "alice@example.com")

	_, err := svc.CreateRecipe(context.Background(), user.ID, &validation.RecipeCreateInput{
		Title:        "Ghost Recipe",
		Instructions: "Stir everything together and cook.",
		CategoryID:   999,
	})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestGetRecipeVisibility(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	owner := registerUser(t, svc, "owner", "owner@example.com")
	other := registerUser(t, svc, "other", "other@example.com")
	admin := registerUser(t, svc, "boss", "boss@example.com")
	makeAdmin(t, store, admin.ID)
	category := createCategory(t, svc, store, "Soups")

	draft := createRecipe(t, svc, owner.ID, category.ID, "Secret Soup", false)

	t.Run("anonymous is refused", func(t *testing.T) {
		_, err := svc.GetRecipe(ctx, AnonymousCaller, draft.ID)
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	})

	t.Run("other user is refused", func(t *testing.T) {
		_, err := svc.GetRecipe(ctx, other.ID, draft.ID)
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	})

	t.Run("owner sees the draft", func(t *testing.T) {
		got, err := svc.GetRecipe(ctx, owner.ID, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, got.ID)
	})

	t.Run("admin sees the draft", func(t *testing.T) {
		_, err := svc.GetRecipe(ctx, admin.ID, draft.ID)
		assert.NoError(t, err)
	})

	t.Run("everyone sees it once published", func(t *testing.T) {
		published := true
		_, err := svc.UpdateRecipe(ctx, owner.ID, draft.ID, &validation.RecipeUpdateInput{IsPublished: &published})
		require.NoError(t, err)
		_, err = svc.GetRecipe(ctx, AnonymousCaller, draft.ID)
		assert.NoError(t, err)
	})
}

func TestListRecipesVisibility(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	owner := registerUser(t, svc, "owner", "owner@example.com")
	other := registerUser(t, svc, "other", "other@example.com")
	category := createCategory(t, svc, store, "Soups")

	createRecipe(t, svc, owner.ID, category.ID, "Public Soup", true)
	createRecipe(t, svc, owner.ID, category.ID, "Draft Soup", false)

	page := models.PageParams{Page: 1, PerPage: 10}

	t.Run("default listing shows only published", func(t *testing.T) {
		recipes, pagination, err := svc.ListRecipes(ctx, AnonymousCaller, repository.RecipeFilter{}, page)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Public Soup", recipes[0].Title)
		assert.Equal(t, int64(1), pagination.TotalItems)
	})

	t.Run("anonymous cannot list drafts", func(t *testing.T) {
		unpublished := false
		_, _, err := svc.ListRecipes(ctx, AnonymousCaller, repository.RecipeFilter{Published: &unpublished}, page)
		assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
	})

	t.Run("non-admin draft listing is scoped to own recipes", func(t *testing.T) {
		unpublished := false
		recipes, _, err := svc.ListRecipes(ctx, other.ID, repository.RecipeFilter{Published: &unpublished}, page)
		require.NoError(t, err)
		assert.Empty(t, recipes)

		recipes, _, err = svc.ListRecipes(ctx, owner.ID, repository.RecipeFilter{Published: &unpublished}, page)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Draft Soup", recipes[0].Title)
	})
}

func TestUpdateRecipePolicy(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	owner := registerUser(t, svc, "owner", "owner@example.com")
	other := registerUser(t, svc, "other", "other@example.com")
	admin := registerUser(t, svc, "boss", "boss@example.com")
	makeAdmin(t, store, admin.ID)
	category := createCategory(t, svc, store, "Soups")

	recipe := createRecipe(t, svc, owner.ID, category.ID, "Tomato Soup", true)
	newTitle := "Better Tomato Soup"

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := svc.UpdateRecipe(ctx, other.ID, recipe.ID, &validation.RecipeUpdateInput{Title: &newTitle})
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	})

	t.Run("owner can update and the slug follows the title", func(t *testing.T) {
		updated, err := svc.UpdateRecipe(ctx, owner.ID, recipe.ID, &validation.RecipeUpdateInput{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, "Better Tomato Soup", updated.Title)
		assert.Equal(t, "better-tomato-soup", updated.Slug)
	})

	t.Run("admin can delete someone else's recipe", func(t *testing.T) {
		require.NoError(t, svc.DeleteRecipe(ctx, admin.ID, recipe.ID))
		_, err := svc.GetRecipe(ctx, owner.ID, recipe.ID)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestUpdateRecipeReplacesIngredients(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	owner := registerUser(t, svc, "owner", "owner@example.com")
	category := createCategory(t, svc, store, "Soups")
	recipe := createRecipe(t, svc, owner.ID, category.ID, "Tomato Soup", true)

	newList := []validation.RecipeIngredientInput{
		{Name: "tomato", Quantity: "6"},
		{Name: "basil", Quantity: "1", Notes: ptr("fresh")},
	}
	updated, err := svc.UpdateRecipe(ctx, owner.ID, recipe.ID, &validation.RecipeUpdateInput{Ingredients: &newList})
	require.NoError(t, err)
	require.Len(t, updated.Ingredients, 2)
	assert.Equal(t, "tomato", updated.Ingredients[0].Name)
	assert.Equal(t, "basil", updated.Ingredients[1].Name)

	// Update without an ingredient list keeps the existing one.
	desc := "now with basil"
	updated, err = svc.UpdateRecipe(ctx, owner.ID, recipe.ID, &validation.RecipeUpdateInput{Description: &desc})
	require.NoError(t, err)
	assert.Len(t, updated.Ingredients, 2)
}

func TestSubmitRatingUpserts(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	owner := registerUser(t, svc, "owner", "owner@example.com")
	rater := registerUser(t, svc, "rater", "rater@example.com")
	category := createCategory(t, svc, store, "Soups")
	recipe := createRecipe(t, svc, owner.ID, category.ID, "Tomato Soup", true)

	first, err := svc.SubmitRating(ctx, rater.ID, recipe.ID, &validation.RatingInput{Score: 3})
	require.NoError(t, err)

	second, err := svc.SubmitRating(ctx, rater.ID, recipe.ID, &validation.RatingInput{Score: 5, Comment: ptr("grew on me")})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "resubmission must update in place")
	assert.Equal(t, 5, second.Score)

	ratings, pagination, err := svc.ListRecipeRatings(ctx, recipe.ID, models.PageParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, int64(1), pagination.TotalItems)
	assert.Equal(t, "rater", ratings[0].Author.Username)
}

func TestRatingStats(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	owner := registerUser(t, svc, "owner", "owner@example.com")
	category := createCategory(t, svc, store, "Soups")
	recipe := createRecipe(t, svc, owner.ID, category.ID, "Tomato Soup", true)

	for i, score := range []int{5, 5, 3} {
		rater := registerUser(t, svc, "rater"+string(rune('a'+i)), "rater"+string(rune('a'+i))+"@example.com")
		_, err := svc.SubmitRating(ctx, rater.ID, recipe.ID, &validation.RatingInput{Score: score})
		require.NoError(t, err)
	}

	stats, err := svc.RecipeRatingStats(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRatings)
	require.NotNil(t, stats.Average)
	assert.InDelta(t, 13.0/3.0, *stats.Average, 0.001)
	assert.Equal(t, int64(2), stats.Distribution[5])
	assert.Equal(t, int64(1), stats.Distribution[3])
	assert.Equal(t, int64(0), stats.Distribution[1])
}

func TestRatingOwnership(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	owner := registerUser(t, svc, "owner", "owner@example.com")
	rater := registerUser(t, svc, "rater", "rater@example.com")
	stranger := registerUser(t, svc, "stranger", "stranger@example.com")
	category := createCategory(t, svc, store, "Soups")
	recipe := createRecipe(t, svc, owner.ID, category.ID, "Tomato Soup", true)

	rating, err := svc.SubmitRating(ctx, rater.ID, recipe.ID, &validation.RatingInput{Score: 4})
	require.NoError(t, err)

	_, err = svc.UpdateRating(ctx, stranger.ID, rating.ID, &validation.RatingInput{Score: 1})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	err = svc.DeleteRating(ctx, stranger.ID, rating.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	require.NoError(t, svc.DeleteRating(ctx, rater.ID, rating.ID))
}

func TestCategoryAdminPolicy(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	user := registerUser(t, svc, "plain", "plain@example.com")

	_, err := svc.CreateCategory(ctx, user.ID, &validation.CategoryCreateInput{Name: "Desserts"})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	category := createCategory(t, svc, store, "Desserts")
	assert.Equal(t, "desserts", category.Slug)
}

func TestDeleteCategoryWithRecipes(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	admin := registerUser(t, svc, "boss", "boss@example.com")
	makeAdmin(t, store, admin.ID)
	category, err := svc.CreateCategory(ctx, admin.ID, &validation.CategoryCreateInput{Name: "Soups"})
	require.NoError(t, err)

	recipe := createRecipe(t, svc, admin.ID, category.ID, "Tomato Soup", true)

	err = svc.DeleteCategory(ctx, admin.ID, category.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	require.NoError(t, svc.DeleteRecipe(ctx, admin.ID, recipe.ID))
	assert.NoError(t, svc.DeleteCategory(ctx, admin.ID, category.ID))
}

func TestIngredientCatalogPolicy(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	user := registerUser(t, svc, "plain", "plain@example.com")
	admin := registerUser(t, svc, "boss", "boss@example.com")
	makeAdmin(t, store, admin.ID)

	// Any authenticated user may add to the catalog.
	ingredient, err := svc.CreateIngredient(ctx, user.ID, &validation.IngredientCreateInput{Name: "saffron"})
	require.NoError(t, err)

	// Mutating shared entries is admin only.
	newName := "spanish saffron"
	_, err = svc.UpdateIngredient(ctx, user.ID, ingredient.ID, &validation.IngredientUpdateInput{Name: &newName})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	updated, err := svc.UpdateIngredient(ctx, admin.ID, ingredient.ID, &validation.IngredientUpdateInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "spanish saffron", updated.Name)

	err = svc.DeleteIngredient(ctx, user.ID, ingredient.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.NoError(t, svc.DeleteIngredient(ctx, admin.ID, ingredient.ID))
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	user := registerUser(t, svc, "alice", "alice@example.com")

	bio := "I cook things"
	updated, err := svc.UpdateProfile(ctx, user.ID, &validation.UserUpdateInput{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "I cook things", *updated.Bio)

	// Untouched fields survive a partial update.
	fullName := "Alice A"
	updated, err = svc.UpdateProfile(ctx, user.ID, &validation.UserUpdateInput{FullName: &fullName})
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "I cook things", *updated.Bio)
}

func ptr[T any](v T) *T {
	return &v
}
