package handler

import (
	"net/http"
	"strconv"

	"github.com/recipehub/recipe-service/internal/middleware"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/repository"
	"github.com/recipehub/recipe-service/internal/respond"
	"github.com/recipehub/recipe-service/internal/validation"
)

type recipeListResponse struct {
	Recipes    []models.RecipeSummary `json:"recipes"`
	Pagination models.Pagination      `json:"pagination"`
}

// ListRecipes handles GET /recipes with filtering and pagination.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	filter := recipeFilter(r)
	recipes, pagination, err := h.svc.ListRecipes(r.Context(), middleware.UserID(r.Context()), filter, pageParams(r))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, recipeListResponse{
		Recipes:    recipes,
		Pagination: pagination,
	})
}

// GetRecipe handles GET /recipes/{id}.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	detail, err := h.svc.GetRecipe(r.Context(), middleware.UserID(r.Context()), id)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, detail)
}

// CreateRecipe handles POST /recipes. The caller becomes the owner; a
// nested ingredient list is persisted in the same transaction.
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	input, verr := validation.RecipeCreate(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	detail, err := h.svc.CreateRecipe(r.Context(), middleware.UserID(r.Context()), input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusCreated, detail)
}

// UpdateRecipe handles PUT/PATCH /recipes/{id}. Owner or admin only.
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	input, verr := validation.RecipeUpdate(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	detail, err := h.svc.UpdateRecipe(r.Context(), middleware.UserID(r.Context()), id, input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, detail)
}

// DeleteRecipe handles DELETE /recipes/{id}. Owner or admin only.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	if err := h.svc.DeleteRecipe(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, nil)
}

func recipeFilter(r *http.Request) repository.RecipeFilter {
	query := r.URL.Query()
	filter := repository.RecipeFilter{
		Search:     query.Get("search"),
		Ingredient: query.Get("ingredient"),
	}

	if raw := query.Get("category_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			filter.CategoryID = &id
		}
	}
	if raw := query.Get("user_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			filter.UserID = &id
		}
	}
	if difficulty := query.Get("difficulty"); difficulty == "easy" || difficulty == "medium" || difficulty == "hard" {
		filter.Difficulty = difficulty
	}
	switch query.Get("is_published") {
	case "true", "1", "yes":
		published := true
		filter.Published = &published
	case "false", "0", "no":
		published := false
		filter.Published = &published
	}
	return filter
}
