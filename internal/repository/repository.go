// Package repository provides Postgres-backed storage for all entities.
// Constraint violations surface as typed apperrors so handlers can map them
// to Conflict/NotFound responses without inspecting driver errors.
package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/recipehub/recipe-service/internal/apperrors"
)

// Postgres error codes (class 23: integrity constraint violation).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Repository provides database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// uniqueViolation reports whether err is a unique-constraint violation,
// optionally restricted to one named constraint.
func uniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func foreignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation
}

// conflict wraps a constraint violation as a Conflict error.
func conflict(message string, cause error) *apperrors.Error {
	return apperrors.Wrap(apperrors.KindConflict, message, cause)
}
