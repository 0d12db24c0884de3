// Package handler wires HTTP requests into the service layer: path and
// query parsing, body reading, and envelope responses.
package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/models"
	"github.com/recipehub/recipe-service/internal/service"
	"github.com/sirupsen/logrus"
)

// Request bodies above this size are rejected outright.
const maxBodyBytes = 1 << 20

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok","service":"recipe-service"}`)
}

// pathID extracts a positive integer path variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.ValidationField(name, "must be a positive integer identifier")
	}
	return id, nil
}

// pageParams normalizes page/per_page query parameters; out-of-range values
// fall back to defaults rather than failing.
func pageParams(r *http.Request) models.PageParams {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(r, "per_page", 10)
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	return models.PageParams{Page: page, PerPage: perPage}
}

func queryInt(r *http.Request, name string, defaultVal int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return value
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidationFailed, "failed to read request body", err)
	}
	return body, nil
}
