package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"untprep-backend/internal/middleware"
	"untprep-backend/internal/models"
	"untprep-backend/internal/repository"
)

type LessonHandler struct {
	lessonRepo *repository.LessonRepo
}

func NewLessonHandler(lessonRepo *repository.LessonRepo) *LessonHandler {
	return &LessonHandler{lessonRepo: lessonRepo}
}

func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject != "" && !models.ValidSubject(subject) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "subject must be PHYSICS or MATHEMATICS", r))
		return
	}

	lessons, err := h.lessonRepo.List(r.Context(), subject)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch lessons", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"lessons": lessons})
}

func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid lesson ID", r))
		return
	}

	lesson, err := h.lessonRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Lesson not found", r))
		return
	}

	writeJSON(w, http.StatusOK, lesson)
}

// Create is teacher-only; the router guards the route.
func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SaveLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if fields := validateLesson(req); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	lesson := &models.Lesson{
		Title:     req.Title,
		Subject:   req.Subject,
		Content:   req.Content,
		Examples:  req.Examples,
		SortOrder: req.Order,
		CreatedBy: middleware.GetUserID(r.Context()),
	}

	if err := h.lessonRepo.Create(r.Context(), lesson); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create lesson", r))
		return
	}

	writeJSON(w, http.StatusCreated, lesson)
}

func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid lesson ID", r))
		return
	}

	lesson, err := h.lessonRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Lesson not found", r))
		return
	}

	var req models.SaveLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if fields := validateLesson(req); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	lesson.Title = req.Title
	lesson.Subject = req.Subject
	lesson.Content = req.Content
	lesson.Examples = req.Examples
	lesson.SortOrder = req.Order

	if err := h.lessonRepo.Update(r.Context(), lesson); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update lesson", r))
		return
	}

	writeJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid lesson ID", r))
		return
	}

	if _, err := h.lessonRepo.GetByID(r.Context(), id); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Lesson not found", r))
		return
	}

	if err := h.lessonRepo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete lesson", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Lesson deleted"})
}

func validateLesson(req models.SaveLessonRequest) map[string]string {
	fields := make(map[string]string)
	if req.Title == "" {
		fields["title"] = "Title is required"
	}
	if !models.ValidSubject(req.Subject) {
		fields["subject"] = "Subject must be PHYSICS or MATHEMATICS"
	}
	if req.Content == "" {
		fields["content"] = "Content is required"
	}
	return fields
}
