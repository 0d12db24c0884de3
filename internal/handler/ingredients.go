package handler

import (
	"net/http"

	"github.com/recipehub/recipe-service/internal/middleware"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/respond"
	"github.com/recipehub/recipe-service/internal/validation"
)

type ingredientListResponse struct {
	Ingredients []models.Ingredient `json:"ingredients"`
	Pagination  models.Pagination   `json:"pagination"`
}

// ListIngredients handles GET /ingredients.
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	ingredients, pagination, err := h.svc.ListIngredients(r.Context(), search, pageParams(r))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, ingredientListResponse{
		Ingredients: ingredients,
		Pagination:  pagination,
	})
}

// GetIngredient handles GET /ingredients/{id}.
func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	ingredient, err := h.svc.GetIngredient(r.Context(), id)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, ingredient)
}

// CreateIngredient handles POST /ingredients.
func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	input, verr := validation.IngredientCreate(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	ingredient, err := h.svc.CreateIngredient(r.Context(), middleware.UserID(r.Context()), input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusCreated, ingredient)
}

// UpdateIngredient handles PUT/PATCH /ingredients/{id}. Admin only.
func (h *Handler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
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
	input, verr := validation.IngredientUpdate(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	ingredient, err := h.svc.UpdateIngredient(r.Context(), middleware.UserID(r.Context()), id, input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, ingredient)
}

// DeleteIngredient handles DELETE /ingredients/{id}. Admin only; fails with
// Conflict while recipes still list the ingredient.
func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	if err := h.svc.DeleteIngredient(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, nil)
}
