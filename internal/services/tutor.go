package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"untprep-backend/internal/models"
)

// TutorService proxies student questions to Gemini. It keeps no state of its
// own beyond the client; conversation bookkeeping lives in the tutor repo.
type TutorService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
}

func NewTutorService(apiKey string, concurrentReqs int) (*TutorService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(1024)

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &TutorService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *TutorService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *TutorService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *TutorService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Ask sends one student question, with optional page context and prior
// conversation turns, and returns the tutor's reply.
func (s *TutorService) Ask(ctx context.Context, message string, chatCtx *models.ChatContext, history []*models.TutorMessage) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	prompt := buildTutorPrompt(message, chatCtx, history)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	reply := strings.TrimSpace(extractText(resp))
	if reply == "" {
		reply = "I apologize, but I could not generate a response. Please try again."
	}
	return reply, nil
}

func buildTutorPrompt(message string, chatCtx *models.ChatContext, history []*models.TutorMessage) string {
	var b strings.Builder

	// Layer 1 — Role
	b.WriteString("You are an AI Tutor helping students prepare for the Unified National Test (UNT) in Physics and Mathematics.\n\n")
	b.WriteString(`Your role is to:
- Answer questions clearly and helpfully
- Provide hints when students are stuck
- Explain concepts in a way that's easy to understand
- Encourage and motivate students
- Help with problem-solving strategies

Be friendly, patient, and educational. If the student asks about something outside Physics or Mathematics, politely redirect them to these subjects.
`)

	// Layer 2 — Page context
	if chatCtx != nil {
		if chatCtx.Subject != "" {
			b.WriteString(fmt.Sprintf("Current subject: %s\n", chatCtx.Subject))
		}
		if chatCtx.LessonTitle != "" {
			b.WriteString(fmt.Sprintf("Current lesson: %s\n", chatCtx.LessonTitle))
		}
		if chatCtx.CurrentPage != "" {
			b.WriteString(fmt.Sprintf("Current page: %s\n", chatCtx.CurrentPage))
		}
	}

	// Layer 3 — Conversation so far
	if len(history) > 0 {
		b.WriteString("\n---CONVERSATION SO FAR---\n")
		for _, m := range history {
			if m.Role == "assistant" {
				b.WriteString("Tutor: ")
			} else {
				b.WriteString("Student: ")
			}
			b.WriteString(m.Content)
			b.WriteString("\n")
		}
		b.WriteString("---END---\n")
	}

	// Layer 4 — The question
	b.WriteString("\nStudent: ")
	b.WriteString(message)
	b.WriteString("\nTutor:")

	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
