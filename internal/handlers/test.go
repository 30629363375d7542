package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"untprep-backend/internal/middleware"
	"untprep-backend/internal/models"
	"untprep-backend/internal/repository"
	"untprep-backend/internal/services"
)

type TestHandler struct {
	testRepo    *repository.TestRepo
	testService *services.TestService
}

func NewTestHandler(testRepo *repository.TestRepo, testService *services.TestService) *TestHandler {
	return &TestHandler{testRepo: testRepo, testService: testService}
}

func (h *TestHandler) List(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject != "" && !models.ValidSubject(subject) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "subject must be PHYSICS or MATHEMATICS", r))
		return
	}

	tests, err := h.testRepo.List(r.Context(), subject)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch tests", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tests": tests})
}

func (h *TestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid test ID", r))
		return
	}

	test, err := h.testRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Test not found", r))
		return
	}

	writeJSON(w, http.StatusOK, test)
}

func (h *TestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SaveTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if !models.ValidSubject(req.Subject) {
		fields["subject"] = "Subject must be PHYSICS or MATHEMATICS"
	}
	if req.Year <= 0 {
		fields["year"] = "Year is required"
	}
	for _, q := range req.Questions {
		if q.ID == "" || len(q.Options) == 0 || q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			fields["questions"] = "Each question needs an id, options and a correct answer index within options"
			break
		}
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	questionsJSON, err := json.Marshal(req.Questions)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to encode questions", r))
		return
	}

	test := &models.Test{
		Subject:       req.Subject,
		Year:          req.Year,
		QuestionsJSON: questionsJSON,
	}

	if err := h.testRepo.Create(r.Context(), test); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create test", r))
		return
	}

	writeJSON(w, http.StatusCreated, test)
}

// SubmitAttempt grades the caller's answers and returns the persisted attempt.
func (h *TestHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	testID, err := uuid.Parse(req.TestID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid test ID", r))
		return
	}
	if req.TimeSpent < 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "time_spent cannot be negative", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	attempt, err := h.testService.SubmitAttempt(r.Context(), testID, userID, req.Answers, req.TimeSpent)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, attempt)
}

// ListAttempts returns the caller's own attempts, optionally scoped to one
// test via the test_id query parameter.
func (h *TestHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var testID *uuid.UUID
	if raw := r.URL.Query().Get("test_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid test ID", r))
			return
		}
		testID = &id
	}

	attempts, err := h.testService.ListAttempts(r.Context(), userID, testID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch attempts", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}
