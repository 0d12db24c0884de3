package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/repository"
)

// memStore is an in-memory Store used to exercise business rules without a
// database. It mirrors the repository's error contract: NotFound for missing
// rows, Conflict for uniqueness violations.
type memStore struct {
	users       map[int64]*models.User
	categories  map[int64]*models.Category
	ingredients map[int64]*models.Ingredient
	recipes     map[int64]*models.Recipe
	recipeItems map[int64][]repository.IngredientParam
	ratings     map[int64]*models.Rating
	nextID      int64
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]*models.User{},
		categories:  map[int64]*models.Category{},
		ingredients: map[int64]*models.Ingredient{},
		recipes:     map[int64]*models.Recipe{},
		recipeItems: map[int64][]repository.IngredientParam{},
		ratings:     map[int64]*models.Rating{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateUser(ctx context.Context, user *models.User) error {
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return apperrors.New(apperrors.KindConflict, "user with this username already exists")
		}
		if existing.Email == user.Email {
			return apperrors.New(apperrors.KindConflict, "user with this email already exists")
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	copied := *user
	return &copied, nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (m *memStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (m *memStore) UpdateUser(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperrors.NotFound("user")
	}
	user.UpdatedAt = time.Now()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memStore) CreateCategory(ctx context.Context, category *models.Category) error {
	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return apperrors.New(apperrors.KindConflict, "category with this name already exists")
		}
	}
	category.ID = m.id()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *memStore) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, apperrors.NotFound("category")
	}
	copied := *category
	return &copied, nil
}

func (m *memStore) ListCategories(ctx context.Context, search string, page models.PageParams) ([]models.Category, int64, error) {
	matched := []models.Category{}
	for _, category := range m.categories {
		if search == "" || strings.Contains(strings.ToLower(category.Name), strings.ToLower(search)) {
			matched = append(matched, *category)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return pageOf(matched, page), int64(len(matched)), nil
}

func (m *memStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return apperrors.NotFound("category")
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *memStore) DeleteCategory(ctx context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return apperrors.NotFound("category")
	}
	for _, recipe := range m.recipes {
		if recipe.CategoryID == id {
			return apperrors.New(apperrors.KindConflict, "category still has recipes; reassign or delete them first")
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) CountRecipesInCategory(ctx context.Context, id int64) (int64, error) {
	var count int64
	for _, recipe := range m.recipes {
		if recipe.CategoryID == id {
			count++
		}
	}
	return count, nil
}

func (m *memStore) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	for _, existing := range m.ingredients {
		if existing.Name == ingredient.Name {
			return apperrors.New(apperrors.KindConflict, "ingredient with this name already exists")
		}
	}
	ingredient.ID = m.id()
	ingredient.CreatedAt = time.Now()
	copied := *ingredient
	m.ingredients[ingredient.ID] = &copied
	return nil
}

func (m *memStore) GetIngredientByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	ingredient, ok := m.ingredients[id]
	if !ok {
		return nil, apperrors.NotFound("ingredient")
	}
	copied := *ingredient
	return &copied, nil
}

func (m *memStore) ListIngredients(ctx context.Context, search string, page models.PageParams) ([]models.Ingredient, int64, error) {
	matched := []models.Ingredient{}
	for _, ingredient := range m.ingredients {
		if search == "" || strings.Contains(strings.ToLower(ingredient.Name), strings.ToLower(search)) {
			matched = append(matched, *ingredient)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return pageOf(matched, page), int64(len(matched)), nil
}

func (m *memStore) UpdateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	if _, ok := m.ingredients[ingredient.ID]; !ok {
		return apperrors.NotFound("ingredient")
	}
	copied := *ingredient
	m.ingredients[ingredient.ID] = &copied
	return nil
}

func (m *memStore) DeleteIngredient(ctx context.Context, id int64) error {
	if _, ok := m.ingredients[id]; !ok {
		return apperrors.NotFound("ingredient")
	}
	delete(m.ingredients, id)
	return nil
}

func (m *memStore) CreateRecipe(ctx context.Context, recipe *models.Recipe, ingredients []repository.IngredientParam) error {
	if _, ok := m.categories[recipe.CategoryID]; !ok {
		return apperrors.NotFound("category")
	}
	recipe.ID = m.id()
	recipe.CreatedAt = time.Now()
	recipe.UpdatedAt = recipe.CreatedAt
	copied := *recipe
	m.recipes[recipe.ID] = &copied
	m.recipeItems[recipe.ID] = ingredients
	return nil
}

func (m *memStore) GetRecipeByID(ctx context.Context, id int64) (*models.Recipe, error) {
	recipe, ok := m.recipes[id]
	if !ok {
		return nil, apperrors.NotFound("recipe")
	}
	copied := *recipe
	return &copied, nil
}

func (m *memStore) GetRecipeDetail(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	recipe, ok := m.recipes[id]
	if !ok {
		return nil, apperrors.NotFound("recipe")
	}
	detail := &models.RecipeDetail{RecipeSummary: m.summarize(*recipe)}
	for i, item := range m.recipeItems[id] {
		detail.Ingredients = append(detail.Ingredients, models.RecipeIngredient{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Notes:    item.Notes,
			Position: i,
		})
	}
	return detail, nil
}

func (m *memStore) summarize(recipe models.Recipe) models.RecipeSummary {
	summary := models.RecipeSummary{Recipe: recipe}
	if author, ok := m.users[recipe.UserID]; ok {
		summary.Author = models.AuthorRef{ID: author.ID, Username: author.Username}
	}
	if category, ok := m.categories[recipe.CategoryID]; ok {
		summary.Category = models.CategoryRef{ID: category.ID, Name: category.Name, Slug: category.Slug}
	}
	var sum int64
	for _, rating := range m.ratings {
		if rating.RecipeID == recipe.ID {
			summary.RatingCount++
			sum += int64(rating.Score)
		}
	}
	if summary.RatingCount > 0 {
		avg := float64(sum) / float64(summary.RatingCount)
		summary.AverageRating = &avg
	}
	summary.ComputeTotalTime()
	return summary
}

func (m *memStore) ListRecipes(ctx context.Context, filter repository.RecipeFilter, page models.PageParams) ([]models.RecipeSummary, int64, error) {
	matched := []models.RecipeSummary{}
	for _, recipe := range m.recipes {
		if filter.Published != nil && recipe.IsPublished != *filter.Published {
			continue
		}
		if filter.UserID != nil && recipe.UserID != *filter.UserID {
			continue
		}
		if filter.CategoryID != nil && recipe.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Difficulty != "" && (recipe.Difficulty == nil || *recipe.Difficulty != filter.Difficulty) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(recipe.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Ingredient != "" && !m.recipeHasIngredient(recipe.ID, filter.Ingredient) {
			continue
		}
		matched = append(matched, m.summarize(*recipe))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return pageOf(matched, page), int64(len(matched)), nil
}

func (m *memStore) recipeHasIngredient(recipeID int64, name string) bool {
	for _, item := range m.recipeItems[recipeID] {
		if strings.Contains(strings.ToLower(item.Name), strings.ToLower(name)) {
			return true
		}
	}
	return false
}

func (m *memStore) RecipeSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	for _, recipe := range m.recipes {
		if recipe.Slug == slug && recipe.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpdateRecipe(ctx context.Context, recipe *models.Recipe, ingredients *[]repository.IngredientParam) error {
	if _, ok := m.recipes[recipe.ID]; !ok {
		return apperrors.NotFound("recipe")
	}
	recipe.UpdatedAt = time.Now()
	copied := *recipe
	m.recipes[recipe.ID] = &copied
	if ingredients != nil {
		m.recipeItems[recipe.ID] = *ingredients
	}
	return nil
}

func (m *memStore) DeleteRecipe(ctx context.Context, id int64) error {
	if _, ok := m.recipes[id]; !ok {
		return apperrors.NotFound("recipe")
	}
	delete(m.recipes, id)
	delete(m.recipeItems, id)
	for ratingID, rating := range m.ratings {
		if rating.RecipeID == id {
			delete(m.ratings, ratingID)
		}
	}
	return nil
}

func (m *memStore) UpsertRating(ctx context.Context, rating *models.Rating) error {
	if _, ok := m.recipes[rating.RecipeID]; !ok {
		return apperrors.NotFound("recipe")
	}
	for _, existing := range m.ratings {
		if existing.UserID == rating.UserID && existing.RecipeID == rating.RecipeID {
			existing.Score = rating.Score
			existing.Comment = rating.Comment
			existing.UpdatedAt = time.Now()
			*rating = *existing
			return nil
		}
	}
	rating.ID = m.id()
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = rating.CreatedAt
	copied := *rating
	m.ratings[rating.ID] = &copied
	return nil
}

func (m *memStore) GetRatingByID(ctx context.Context, id int64) (*models.Rating, error) {
	rating, ok := m.ratings[id]
	if !ok {
		return nil, apperrors.NotFound("rating")
	}
	copied := *rating
	return &copied, nil
}

func (m *memStore) UpdateRating(ctx context.Context, rating *models.Rating) error {
	if _, ok := m.ratings[rating.ID]; !ok {
		return apperrors.NotFound("rating")
	}
	rating.UpdatedAt = time.Now()
	copied := *rating
	m.ratings[rating.ID] = &copied
	return nil
}

func (m *memStore) DeleteRating(ctx context.Context, id int64) error {
	if _, ok := m.ratings[id]; !ok {
		return apperrors.NotFound("rating")
	}
	delete(m.ratings, id)
	return nil
}

func (m *memStore) ListRatingsByRecipe(ctx context.Context, recipeID int64, page models.PageParams) ([]models.RatingWithAuthor, int64, error) {
	return m.listRatings(func(r *models.Rating) bool { return r.RecipeID == recipeID }, page)
}

func (m *memStore) ListRatingsByUser(ctx context.Context, userID int64, page models.PageParams) ([]models.RatingWithAuthor, int64, error) {
	return m.listRatings(func(r *models.Rating) bool { return r.UserID == userID }, page)
}

func (m *memStore) listRatings(match func(*models.Rating) bool, page models.PageParams) ([]models.RatingWithAuthor, int64, error) {
	matched := []models.RatingWithAuthor{}
	for _, rating := range m.ratings {
		if !match(rating) {
			continue
		}
		entry := models.RatingWithAuthor{Rating: *rating}
		if author, ok := m.users[rating.UserID]; ok {
			entry.Author = models.AuthorRef{ID: author.ID, Username: author.Username}
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return pageOf(matched, page), int64(len(matched)), nil
}

func (m *memStore) RatingStats(ctx context.Context, recipeID int64) (*models.RatingStats, error) {
	stats := &models.RatingStats{
		RecipeID:     recipeID,
		Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	var sum int64
	for _, rating := range m.ratings {
		if rating.RecipeID == recipeID {
			stats.Distribution[rating.Score]++
			stats.TotalRatings++
			sum += int64(rating.Score)
		}
	}
	if stats.TotalRatings > 0 {
		avg := float64(sum) / float64(stats.TotalRatings)
		stats.Average = &avg
	}
	return stats, nil
}

func pageOf[T any](items []T, page models.PageParams) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
