package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/alumni-hub/backend/internal/admin"
	"github.com/alumni-hub/backend/internal/auth"
	"github.com/alumni-hub/backend/internal/config"
	"github.com/alumni-hub/backend/internal/kv"
	"github.com/alumni-hub/backend/internal/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	ctx := context.Background()

	// ── KV store ─────────────────────────────────────────────
	store, err := kv.Open(ctx, kv.Options{
		Backend:       cfg.KVBackend,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		PostgresDSN:   cfg.PostgresDSN,
		MongoURI:      cfg.MongoURI,
		MongoDB:       cfg.MongoDB,
	})
	if err != nil {
		slog.Error("open kv store", "backend", cfg.KVBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// ── Demo accounts ────────────────────────────────────────
	if cfg.SeedDemo {
		if err := auth.SeedDemoUsers(ctx, store); err != nil {
			slog.Error("seed demo users", "error", err)
			os.Exit(1)
		}
	}

	// ── Services & handlers ──────────────────────────────────
	sessions := auth.NewSessionStore(store, cfg.SessionTTL())
	authHandler := auth.NewHandler(auth.NewService(store, sessions))
	adminHandler := admin.NewHandler(store)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/signup", authHandler.Signup)
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth(sessions)).Get("/verify", authHandler.Verify)
		r.With(middleware.RequireAuth(sessions)).Put("/profile", authHandler.Profile)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Use(middleware.RequireModerator)
		r.Get("/data", adminHandler.Data)
		r.Delete("/{category}/{id}", adminHandler.Delete)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("backend listening", "addr", cfg.Addr(), "kv_backend", cfg.KVBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Error("graceful shutdown", "error", err)
	}
}
