// Package middleware provides the request-scoped chain every route passes
// through: request IDs, access logging, and bearer-token authentication.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recipehub/recipe-service/internal/apperrors"
	"github.com/recipehub/recipe-service/internal/respond"
	"github.com/recipehub/recipe-service/internal/token"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	contextKeyUserID    contextKey = "userID"
	contextKeyRequestID contextKey = "requestID"
)

const requestIDHeader = "X-Request-Id"

// UserID returns the authenticated caller's id, or 0 for anonymous requests.
func UserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(contextKeyUserID).(int64); ok {
		return id
	}
	return 0
}

// RequestID returns the request's correlation id, if one was assigned.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// RequestIDMiddleware assigns a UUID to each request (honoring a
// client-provided X-Request-Id) and echoes it on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs one line per request with method, path, status,
// duration, and the request id.
func LoggingMiddleware(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(start).String(),
				"request_id": RequestID(r.Context()),
			}).Info("request completed")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AuthMiddleware requires a valid bearer access token and injects the
// caller's user id into the request context.
func AuthMiddleware(tokens *token.Manager, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				respond.Error(w, log, apperrors.New(apperrors.KindUnauthenticated, "missing bearer token"))
				return
			}
			claims, err := tokens.Parse(raw, token.TypeAccess)
			if err != nil {
				respond.Error(w, log, err)
				return
			}
			ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware injects the caller's user id when a valid bearer
// token is present and leaves the request anonymous otherwise. Used on
// public routes that behave differently for owners.
func OptionalAuthMiddleware(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw, ok := BearerToken(r); ok {
				if claims, err := tokens.Parse(raw, token.TypeAccess); err == nil {
					ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the raw bearer credential from the Authorization
// header.
func BearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, prefix))
	return raw, raw != ""
}
