package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"untprep-backend/internal/middleware"
	"untprep-backend/internal/models"
	"untprep-backend/internal/repository"
	"untprep-backend/internal/services"
)

type TutorHandler struct {
	tutorService *services.TutorService
	tutorRepo    *repository.TutorRepo
}

func NewTutorHandler(tutorService *services.TutorService, tutorRepo *repository.TutorRepo) *TutorHandler {
	return &TutorHandler{tutorService: tutorService, tutorRepo: tutorRepo}
}

// Ask is the stateless endpoint: one question in, one reply out, nothing
// stored.
func (h *TutorHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.TutorAskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	reply, err := h.tutorService.Ask(r.Context(), req.Message, req.Context, nil)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("AI_ERROR", "The tutor is unavailable right now. Please try again.", r))
		return
	}

	writeJSON(w, http.StatusOK, models.TutorAskResponse{Response: reply})
}

func (h *TutorHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New chat"
	}
	title = truncateRunes(title, 200)

	conversation := &models.TutorConversation{
		UserID: middleware.GetUserID(r.Context()),
		Title:  title,
	}
	if err := h.tutorRepo.CreateConversation(r.Context(), conversation); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create conversation", r))
		return
	}

	writeJSON(w, http.StatusCreated, conversation)
}

func (h *TutorHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	conversations, err := h.tutorRepo.ListConversations(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch conversations", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}

func (h *TutorHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversation, ok := h.ownConversation(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, conversation)
}

func (h *TutorHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversation, ok := h.ownConversation(w, r)
	if !ok {
		return
	}

	if err := h.tutorRepo.DeleteConversation(r.Context(), conversation.ID, conversation.UserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete conversation", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted"})
}

func (h *TutorHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	conversation, ok := h.ownConversation(w, r)
	if !ok {
		return
	}

	messages, err := h.tutorRepo.ListMessages(r.Context(), conversation.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch messages", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// PostMessage stores the student's message, asks Gemini with the prior turns
// as context and stores the reply.
func (h *TutorHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	conversation, ok := h.ownConversation(w, r)
	if !ok {
		return
	}

	var req models.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Content is required", r))
		return
	}

	history, err := h.tutorRepo.ListMessages(r.Context(), conversation.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch messages", r))
		return
	}

	userMsg := &models.TutorMessage{
		ConversationID: conversation.ID,
		Role:           "user",
		Content:        content,
	}
	if err := h.tutorRepo.CreateMessage(r.Context(), userMsg); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save message", r))
		return
	}

	reply, err := h.tutorService.Ask(r.Context(), content, req.Context, history)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("AI_ERROR", "The tutor is unavailable right now. Please try again.", r))
		return
	}

	assistantMsg := &models.TutorMessage{
		ConversationID: conversation.ID,
		Role:           "assistant",
		Content:        reply,
	}
	if err := h.tutorRepo.CreateMessage(r.Context(), assistantMsg); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save message", r))
		return
	}

	// First real message names a fresh conversation after its opening line.
	// The message exchange already succeeded, so a failed retitle/touch is
	// only logged.
	if conversation.Title == "New chat" {
		if err := h.tutorRepo.UpdateConversationTitle(r.Context(), conversation.ID, snippetTitle(content)); err != nil {
			log.Printf("failed to retitle conversation %s: %v", conversation.ID, err)
		}
	} else {
		if err := h.tutorRepo.TouchConversation(r.Context(), conversation.ID); err != nil {
			log.Printf("failed to touch conversation %s: %v", conversation.ID, err)
		}
	}

	writeJSON(w, http.StatusOK, models.PostMessageResponse{
		Reply:     reply,
		MessageID: assistantMsg.ID,
	})
}

// ownConversation resolves the path id to a conversation owned by the caller,
// writing the error response itself when that fails.
func (h *TutorHandler) ownConversation(w http.ResponseWriter, r *http.Request) (*models.TutorConversation, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid conversation ID", r))
		return nil, false
	}

	userID := middleware.GetUserID(r.Context())
	conversation, err := h.tutorRepo.GetConversation(r.Context(), id, userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Conversation not found", r))
		return nil, false
	}
	return conversation, true
}

// snippetTitle cuts the opening message down to a list-friendly title. The
// cut is on rune boundaries so Kazakh/Russian text stays valid UTF-8.
func snippetTitle(content string) string {
	return truncateRunes(strings.TrimSpace(content), 50)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}
