package models

import (
	"time"

	"github.com/google/uuid"
)

type TutorConversation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TutorMessage is a single stored message in a conversation.
type TutorMessage struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Role           string    `json:"role"` // "user" or "assistant"
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChatContext tells the tutor what the student is currently looking at.
type ChatContext struct {
	Subject     string `json:"subject,omitempty"`
	LessonTitle string `json:"lesson_title,omitempty"`
	CurrentPage string `json:"current_page,omitempty"`
}

// TutorAskRequest is the payload of the stateless ask endpoint.
type TutorAskRequest struct {
	Message string       `json:"message"`
	Context *ChatContext `json:"context,omitempty"`
}

type TutorAskResponse struct {
	Response string `json:"response"`
}

type PostMessageRequest struct {
	Content string       `json:"content"`
	Context *ChatContext `json:"context,omitempty"`
}

type PostMessageResponse struct {
	Reply     string    `json:"reply"`
	MessageID uuid.UUID `json:"message_id"`
}

type CreateConversationRequest struct {
	Title string `json:"title"`
}
