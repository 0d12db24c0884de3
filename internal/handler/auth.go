package handler

import (
	"net/http"

	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/middleware"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/respond"
	"github.com/recipehub/recipe-service/internal/service"
	"github.com/recipehub/recipe-service/internal/validation"
)

type authResponse struct {
	User   *models.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	input, verr := validation.UserRegistration(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	user, tokens, err := h.svc.Register(r.Context(), input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusCreated, authResponse{User: user, Tokens: tokens})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	input, verr := validation.UserLogin(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	user, tokens, err := h.svc.Login(r.Context(), input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, authResponse{User: user, Tokens: tokens})
}

// Refresh handles POST /auth/refresh. The refresh token travels in the
// Authorization header, like any other bearer credential.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	raw, ok := middleware.BearerToken(r)
	if !ok {
		respond.Error(w, h.log, apperrors.New(apperrors.KindUnauthenticated, "missing refresh token"))
		return
	}
	access, err := h.svc.Refresh(r.Context(), raw)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, map[string]string{"access_token": access})
}

// Logout handles POST /auth/logout. Tokens are stateless, so this is an
// acknowledgement; clients discard their copies.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	respond.Success(w, h.log, http.StatusOK, map[string]string{
		"message": "logged out; remove tokens on the client",
	})
}

// Profile handles GET /auth/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Profile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, user)
}

// UpdateProfile handles PUT /auth/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	input, verr := validation.UserUpdate(body)
	if verr != nil {
		respond.Error(w, h.log, verr)
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), middleware.UserID(r.Context()), input)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Success(w, h.log, http.StatusOK, user)
}
