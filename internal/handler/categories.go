package handler

import (
	"net/http"

	"github.com/recipehub/recipe-service/internal/middleware"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/respond"
	"github.com/recipehub/recipe-service/internal/validation"
)

type categoryListResponse struct {
	Categories []models.Category `json:"categories"`
	Pagination models.Pagination `json:"pagination"`
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	categories, pagination, err := h.svc.ListCategories(r.Context(), search, pageParams(r))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, categoryListResponse{
		Categories: categories,
		Pagination: pagination,
	})
}

// GetCategory handles GET /categories/{id}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	category, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, category)
}

// CreateCategory handles POST /categories. Admin only.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	input, verr := validation.CategoryCreate(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), middleware.UserID(r.Context()), input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusCreated, category)
}

// UpdateCategory handles PUT/PATCH /categories/{id}. Admin only.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
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
	input, verr := validation.CategoryUpdate(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	category, err := h.svc.UpdateCategory(r.Context(), middleware.UserID(r.Context()), id, input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/{id}. Admin only; fails with
// Conflict while recipes reference the category.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, nil)
}
