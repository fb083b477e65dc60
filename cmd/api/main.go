package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/tilehub/tilehub-go/internal/config"
	"github.com/tilehub/tilehub-go/internal/handler"
	"github.com/tilehub/tilehub-go/internal/middleware"
	"github.com/tilehub/tilehub-go/internal/repository"
	"github.com/tilehub/tilehub-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewDB(startCtx, cfg.DatabaseDSN)
	cancelStart()
	if err != nil {
		slog.Error("database initialization failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	authHandler := handler.NewAuthHandler(authService)

	tilesService := service.NewTilesService()
	tilesHandler := handler.NewTilesHandler(tilesService)

	r := chi.NewRouter()
	r.Use(middleware.RequestLog)

	// The status page greets an authenticated caller but never requires a token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalJWTAuth(cfg.JWTSecret))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			status := map[string]string{
				"message":     "backend running",
				"environment": cfg.Env,
			}
			if ident, ok := middleware.IdentityFromContext(r.Context()); ok {
				status["user"] = ident.Email
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(status)
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/users/register", authHandler.HandleRegister)
		r.Post("/api/users/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Get("/api/users/profile", authHandler.HandleGetProfile)
		r.Put("/api/users/profile", authHandler.HandleUpdateProfile)
		r.Delete("/api/users/profile", authHandler.HandleDeleteAccount)
		r.Put("/api/users/password", authHandler.HandleChangePassword)

		r.Get("/api/tiles", tilesHandler.HandleListTiles)
		r.Get("/api/tiles/{tile}/tables", tilesHandler.HandleListTables)
		r.Get("/api/tiles/{tile}/tables/{table}/rows", tilesHandler.HandleListRows)
		r.Post("/api/tiles/{tile}/tables/{table}/rows", tilesHandler.HandleAddRow)
		r.Delete("/api/tiles/{tile}/tables/{table}/rows/{row_id}", tilesHandler.HandleDeleteRow)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Drain in-flight requests before the storage pool goes away.
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	if err := db.Close(); err != nil {
		slog.Error("closing database pool", "error", err)
	}

	slog.Info("server stopped")
}
