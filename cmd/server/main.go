package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"untprep-backend/internal/config"
	"untprep-backend/internal/database"
	"untprep-backend/internal/handlers"
	"untprep-backend/internal/middleware"
	"untprep-backend/internal/repository"
	"untprep-backend/internal/router"
	"untprep-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting UNT Prep Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	progressRepo := repository.NewProgressRepo(pool)
	studySessionRepo := repository.NewStudySessionRepo(pool)
	lessonRepo := repository.NewLessonRepo(pool)
	flashcardRepo := repository.NewFlashcardRepo(pool)
	testRepo := repository.NewTestRepo(pool)
	tutorRepo := repository.NewTutorRepo(pool)

	// ──── Step 5: Initialize Gemini Tutor ────
	tutorService, err := services.NewTutorService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer tutorService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, progressRepo, redisClient, jwtAuth, emailService)
	progressService := services.NewProgressService(studySessionRepo, progressRepo, userRepo)
	testService := services.NewTestService(testRepo)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	lessonHandler := handlers.NewLessonHandler(lessonRepo)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardRepo)
	testHandler := handlers.NewTestHandler(testRepo, testService)
	studySessionHandler := handlers.NewStudySessionHandler(progressService)
	progressHandler := handlers.NewProgressHandler(progressService)
	tutorHandler := handlers.NewTutorHandler(tutorService, tutorRepo)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		lessonHandler,
		flashcardHandler,
		testHandler,
		studySessionHandler,
		progressHandler,
		tutorHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ UNT Prep Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
