package handler

import (
	"net/http"

	"github.com/recipehub/recipe-service/internal/middleware"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/respond"
	"github.com/recipehub/recipe-service/internal/validation"
)

type ratingListResponse struct {
	Ratings    []models.RatingWithAuthor `json:"ratings"`
	Pagination models.Pagination         `json:"pagination"`
}

// ListRecipeRatings handles GET /recipes/{id}/ratings.
func (h *Handler) ListRecipeRatings(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	ratings, pagination, err := h.svc.ListRecipeRatings(r.Context(), recipeID, pageParams(r))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, ratingListResponse{
		Ratings:    ratings,
		Pagination: pagination,
	})
}

// SubmitRating handles POST /recipes/{id}/ratings. A repeat submission by
// the same user replaces their earlier score instead of adding a row.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	input, verr := validation.RatingSubmit(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	rating, err := h.svc.SubmitRating(r.Context(), middleware.UserID(r.Context()), recipeID, input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, rating)
}

// RecipeRatingStats handles GET /recipes/{id}/ratings/stats.
func (h *Handler) RecipeRatingStats(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	stats, err := h.svc.RecipeRatingStats(r.Context(), recipeID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, stats)
}

// GetRating handles GET /ratings/{id}.
func (h *Handler) GetRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	rating, err := h.svc.GetRating(r.Context(), id)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, rating)
}

// UpdateRating handles PUT /ratings/{id}. Author or admin only.
func (h *Handler) UpdateRating(w http.ResponseWriter, r *http.Request) {
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
	input, verr := validation.RatingSubmit(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	rating, err := h.svc.UpdateRating(r.Context(), middleware.UserID(r.Context()), id, input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, rating)
}

// DeleteRating handles DELETE /ratings/{id}. Author or admin only.
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	if err := h.svc.DeleteRating(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, nil)
}

// ListUserRatings handles GET /users/{id}/ratings.
func (h *Handler) ListUserRatings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	ratings, pagination, err := h.svc.ListUserRatings(r.Context(), userID, pageParams(r))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, ratingListResponse{
		Ratings:    ratings,
		Pagination: pagination,
	})
}
