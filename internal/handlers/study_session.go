package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"untprep-backend/internal/middleware"
	"untprep-backend/internal/models"
	"untprep-backend/internal/services"
)

type StudySessionHandler struct {
	progressService *services.ProgressService
}

func NewStudySessionHandler(progressService *services.ProgressService) *StudySessionHandler {
	return &StudySessionHandler{progressService: progressService}
}

func (h *StudySessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	switch req.ActivityType {
	case models.ActivityLesson, models.ActivityFlashcard, models.ActivityTest, models.ActivityOther:
	default:
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "activity_type must be LESSON, FLASHCARD, TEST or OTHER", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	session, err := h.progressService.StartSession(r.Context(), userID, req.ActivityType)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *StudySessionHandler) End(w http.ResponseWriter, r *http.Request) {
	var req models.EndSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	duration, err := h.progressService.EndSession(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"duration": duration,
	})
}
