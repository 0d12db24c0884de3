package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/recipehub/recipe-service/internal/config"
	"github.com/recipehub/recipe-service/internal/email"
	"github.com/recipehub/recipe-service/internal/handler"
	"github.com/recipehub/recipe-service/internal/middleware"
	"github.com/recipehub/recipe-service/internal/repository"
	"github.com/recipehub/recipe-service/internal/service"
	"github.com/recipehub/recipe-service/internal/token"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sqlx.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	var mailer service.Mailer
	if sender := email.NewSender(cfg, logger); sender != nil {
		mailer = sender
	}
	svc := service.NewService(repo, tokens, mailer, logger)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware(logger))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", h.Health).Methods("GET")

	// Public routes; a bearer token is honored when present so owners see
	// their unpublished recipes.
	public := api.NewRoute().Subrouter()
	public.Use(middleware.OptionalAuthMiddleware(tokens))
	public.HandleFunc("/auth/register", h.Register).Methods("POST")
	public.HandleFunc("/auth/login", h.Login).Methods("POST")
	public.HandleFunc("/auth/refresh", h.Refresh).Methods("POST")
	public.HandleFunc("/recipes", h.ListRecipes).Methods("GET")
	public.HandleFunc("/recipes/{id}", h.GetRecipe).Methods("GET")
	public.HandleFunc("/recipes/{id}/ratings", h.ListRecipeRatings).Methods("GET")
	public.HandleFunc("/recipes/{id}/ratings/stats", h.RecipeRatingStats).Methods("GET")
	public.HandleFunc("/categories", h.ListCategories).Methods("GET")
	public.HandleFunc("/categories/{id}", h.GetCategory).Methods("GET")
	public.HandleFunc("/ingredients", h.ListIngredients).Methods("GET")
	public.HandleFunc("/ingredients/{id}", h.GetIngredient).Methods("GET")
	public.HandleFunc("/ratings/{id}", h.GetRating).Methods("GET")
	public.HandleFunc("/users/{id}/ratings", h.ListUserRatings).Methods("GET")

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(tokens, logger))
	protected.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	protected.HandleFunc("/auth/profile", h.Profile).Methods("GET")
	protected.HandleFunc("/auth/profile", h.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/recipes", h.CreateRecipe).Methods("POST")
	protected.HandleFunc("/recipes/{id}", h.UpdateRecipe).Methods("PUT", "PATCH")
	protected.HandleFunc("/recipes/{id}", h.DeleteRecipe).Methods("DELETE")
	protected.HandleFunc("/recipes/{id}/ratings", h.SubmitRating).Methods("POST")
	protected.HandleFunc("/categories", h.CreateCategory).Methods("POST")
	protected.HandleFunc("/categories/{id}", h.UpdateCategory).Methods("PUT", "PATCH")
	protected.HandleFunc("/categories/{id}", h.DeleteCategory).Methods("DELETE")
	protected.HandleFunc("/ingredients", h.CreateIngredient).Methods("POST")
	protected.HandleFunc("/ingredients/{id}", h.UpdateIngredient).Methods("PUT", "PATCH")
	protected.HandleFunc("/ingredients/{id}", h.DeleteIngredient).Methods("DELETE")
	protected.HandleFunc("/ratings/{id}", h.UpdateRating).Methods("PUT")
	protected.HandleFunc("/ratings/{id}", h.DeleteRating).Methods("DELETE")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
