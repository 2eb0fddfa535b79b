// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// TrafficWatch ingests exported HTTP traffic captures into a document
// store and serves a session-gated dashboard over the aggregate.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"trafficwatch/internal/auth"
	"trafficwatch/internal/cache"
	"trafficwatch/internal/config"
	"trafficwatch/internal/handler"
	"trafficwatch/internal/logging"
	"trafficwatch/internal/middleware"
	"trafficwatch/internal/render"
	"trafficwatch/internal/session"
	"trafficwatch/internal/store"
	"trafficwatch/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Connect to MongoDB
	slog.Info("connecting to mongodb", "database", cfg.MongoDatabase)
	db, err := store.Connect(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("connecting to mongodb: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Disconnect(ctx, db); err != nil {
			slog.Error("error closing mongodb connection", "error", err)
		}
	}()

	if err := store.EnsureIndexes(context.Background(), db); err != nil {
		return fmt.Errorf("ensuring indexes: %w", err)
	}

	users := store.NewMongoUserStore(db)
	traffic := store.NewMongoTrafficStore(db)
	uploads := store.NewMongoUploadStore(db)
	events := store.NewMongoEventStore(db)

	// Upgrade logger so WARN and ERROR records also land in the events collection
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, events))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Optional Redis: shared by sessions and the dashboard cache
	var redisClient *redis.Client
	var cacher cache.Cacher
	if cfg.UseRedis() {
		redisClient, err = cache.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("error closing redis connection", "error", err)
			}
		}()
		cacher = cache.NewRedisCache(redisClient, cfg.CachePrefix)
		slog.Info("redis cache enabled", "prefix", cfg.CachePrefix)
	} else {
		cacher = cache.NewMemoryCache()
		slog.Info("in-memory cache enabled")
	}

	sessionManager := session.New(redisClient, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	serviceAccount := auth.NewServiceAccount(cfg.AdminEmail, cfg.AdminPassword)

	authHandler := handler.NewAuthHandler(users, renderer, sessionManager, serviceAccount)
	frontendHandler := handler.NewFrontendHandler(renderer)
	uploadHandler := handler.NewUploadHandler(traffic, uploads, renderer, cacher, cfg.UploadMaxBytes)
	dashboardHandler := handler.NewDashboardHandler(traffic, uploads, renderer, cacher,
		time.Duration(cfg.CacheTTL)*time.Second)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))

	// Public pages
	r.Get(handler.RouteRoot, frontendHandler.Landing)
	r.Get(handler.RouteLanding, frontendHandler.Landing)
	r.Get(handler.RouteFlash, frontendHandler.FlashDemo)
	r.Get(handler.RouteLogin, authHandler.LoginForm)
	r.Post(handler.RouteLogin, authHandler.Login)
	r.Get(handler.RouteRegister, authHandler.RegisterForm)
	r.Post(handler.RouteRegister, authHandler.Register)
	r.Get(handler.RouteLogout, authHandler.Logout)
	r.Get(handler.RouteDashboardData, dashboardHandler.DashboardData)

	// Session-gated pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, users))
		r.Get(handler.RouteHomepage, frontendHandler.Homepage)
		r.Get(handler.RouteUploadForm, uploadHandler.UploadForm)
		r.Post(handler.RouteUpload, uploadHandler.Upload)
	})

	// Admin pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessionManager))
		r.Use(middleware.RequireAdmin(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, users))
		r.Get(handler.RouteAdminHome, dashboardHandler.AdminHome)
	})

	// Embedded static assets
	r.Handle("/static/*", http.FileServer(http.FS(web.Static)))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
