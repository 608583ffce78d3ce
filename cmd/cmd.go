package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/config"
	"github.com/RobinJoby/food-surplus-platform/internal/handlers"
	"github.com/RobinJoby/food-surplus-platform/internal/middleware"
	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/repository"
	"github.com/RobinJoby/food-surplus-platform/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	foodRepo := repository.NewFoodRepository(db)
	pickupRepo := repository.NewPickupRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)

	// Initialize services
	wsHub := services.NewWSHub()
	pushService, err := services.NewPushService(cfg.APNs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push service")
	}
	if pushService.Enabled() {
		log.Info().Msg("APNs push enabled")
	}
	notificationService := services.NewNotificationService(notificationRepo, userRepo, wsHub, pushService)
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	foodService := services.NewFoodService(foodRepo, userRepo, pickupRepo, notificationService)
	pickupService := services.NewPickupService(pickupRepo, foodRepo, notificationService)
	verificationService := services.NewVerificationService(verificationRepo, userRepo)
	imageService, err := services.NewImageService(cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create image service")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, verificationService)
	foodHandler := handlers.NewFoodHandler(foodService, imageService)
	pickupHandler := handlers.NewPickupHandler(pickupService, userService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(userService, verificationService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Public routes
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Get("/health", healthCheck)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(userService))

		r.Get("/users/me", userHandler.GetProfile)
		r.Put("/users/me", userHandler.UpdateProfile)
		r.Post("/users/me/verification", userHandler.SubmitVerification)

		r.Get("/food", foodHandler.List)
		r.Get("/food/{id}", foodHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleDonor))
			r.Post("/food", foodHandler.Create)
			r.Post("/food/image-upload", foodHandler.PresignImageUpload)
			r.Put("/food/{id}", foodHandler.Update)
			r.Delete("/food/{id}", foodHandler.Delete)
		})

		r.Get("/pickup", pickupHandler.List)
		r.Put("/pickup/{id}", pickupHandler.Update)
		r.With(middleware.RequireRole(models.RoleBeneficiary)).Post("/pickup", pickupHandler.Create)

		r.Get("/notifications", notificationHandler.List)
		r.Put("/notifications/{id}/read", notificationHandler.MarkRead)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Get("/admin/users", adminHandler.ListUsers)
			r.Get("/admin/verification-requests", adminHandler.ListVerificationRequests)
			r.Put("/admin/verification-requests/{id}", adminHandler.UpdateVerificationRequest)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// healthCheck reports liveness
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":%q}`, time.Now().UTC().Format(time.RFC3339))
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
