package handlers

import (
	"encoding/json"
	"net/http"

	"untprep-backend/internal/models"
	"untprep-backend/internal/repository"
)

type FlashcardHandler struct {
	flashcardRepo *repository.FlashcardRepo
}

func NewFlashcardHandler(flashcardRepo *repository.FlashcardRepo) *FlashcardHandler {
	return &FlashcardHandler{flashcardRepo: flashcardRepo}
}

func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	category := r.URL.Query().Get("category")

	if subject != "" && !models.ValidSubject(subject) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "subject must be PHYSICS or MATHEMATICS", r))
		return
	}
	if category != "" && category != models.CategoryTheorem && category != models.CategoryFormula {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "category must be THEOREM or FORMULA", r))
		return
	}

	cards, err := h.flashcardRepo.List(r.Context(), subject, category)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch flashcards", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"flashcards": cards})
}

func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SaveFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if !models.ValidSubject(req.Subject) {
		fields["subject"] = "Subject must be PHYSICS or MATHEMATICS"
	}
	if req.Category != models.CategoryTheorem && req.Category != models.CategoryFormula {
		fields["category"] = "Category must be THEOREM or FORMULA"
	}
	if req.Front == "" {
		fields["front"] = "Front text is required"
	}
	if req.Back == "" {
		fields["back"] = "Back text is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	card := &models.Flashcard{
		Subject:   req.Subject,
		Category:  req.Category,
		Front:     req.Front,
		Back:      req.Back,
		SortOrder: req.Order,
	}

	if err := h.flashcardRepo.Create(r.Context(), card); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create flashcard", r))
		return
	}

	writeJSON(w, http.StatusCreated, card)
}
