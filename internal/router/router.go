package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"untprep-backend/internal/handlers"
	"untprep-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	lessonHandler *handlers.LessonHandler,
	flashcardHandler *handlers.FlashcardHandler,
	testHandler *handlers.TestHandler,
	studySessionHandler *handlers.StudySessionHandler,
	progressHandler *handlers.ProgressHandler,
	tutorHandler *handlers.TutorHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Lesson Routes ────
		r.Route("/lessons", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", lessonHandler.List)
			r.Get("/{id}", lessonHandler.Get)

			// Authoring is teacher-only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireTeacher)
				r.Post("/", lessonHandler.Create)
				r.Put("/{id}", lessonHandler.Update)
				r.Delete("/{id}", lessonHandler.Delete)
			})
		})

		// ──── Flashcard Routes ────
		r.Route("/flashcards", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", flashcardHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireTeacher)
				r.Post("/", flashcardHandler.Create)
			})
		})

		// ──── Test Routes ────
		r.Route("/tests", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", testHandler.List)
			r.Get("/{id}", testHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireTeacher)
				r.Post("/", testHandler.Create)
			})
		})

		r.Route("/test-attempts", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", testHandler.SubmitAttempt)
			r.Get("/", testHandler.ListAttempts)
		})

		// ──── Study Session Routes ────
		r.Route("/study-sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/start", studySessionHandler.Start)
			r.Post("/end", studySessionHandler.End)
		})

		// ──── Progress Routes ────
		r.Route("/progress", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", progressHandler.Get)
		})

		// ──── AI Tutor Routes ────
		r.Route("/ai-tutor", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", tutorHandler.Ask)
		})

		r.Route("/tutor-conversations", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", tutorHandler.CreateConversation)
			r.Get("/", tutorHandler.ListConversations)
			r.Get("/{id}", tutorHandler.GetConversation)
			r.Delete("/{id}", tutorHandler.DeleteConversation)
			r.Get("/{id}/messages", tutorHandler.ListMessages)
			r.Post("/{id}/messages", tutorHandler.PostMessage)
		})
	})

	return r
}
