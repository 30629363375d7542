package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"untprep-backend/internal/middleware"
	"untprep-backend/internal/models"
	"untprep-backend/internal/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Get returns the caller's progress overview. Teachers may pass a user_id
// query parameter to read another student's progress.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	targetID := middleware.GetUserID(r.Context())

	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid user ID", r))
			return
		}
		if id != targetID && middleware.GetUserRole(r.Context()) != models.RoleTeacher {
			writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Cannot view another student's progress", r))
			return
		}
		targetID = id
	}

	overview, err := h.progressService.GetProgress(r.Context(), targetID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}
