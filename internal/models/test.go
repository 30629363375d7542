package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Test struct {
	ID            uuid.UUID       `json:"id"`
	Subject       string          `json:"subject"`
	Year          int             `json:"year"`
	QuestionsJSON json.RawMessage `json:"questions"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Question is one entry of a test's ordered question list. Options are
// indexed from zero; CorrectAnswer points into Options. The localized
// variants and image are optional.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"question"`
	TextKk        *string  `json:"question_kk,omitempty"`
	TextRu        *string  `json:"question_ru,omitempty"`
	Options       []string `json:"options"`
	OptionsKk     []string `json:"options_kk,omitempty"`
	OptionsRu     []string `json:"options_ru,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	CorrectAnswer int      `json:"correctAnswer"`
}

func (t *Test) Questions() ([]Question, error) {
	var qs []Question
	if len(t.QuestionsJSON) == 0 {
		return qs, nil
	}
	err := json.Unmarshal(t.QuestionsJSON, &qs)
	return qs, err
}

// TestAttempt is one graded submission. Rows are never mutated after
// creation; retakes append new rows.
type TestAttempt struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	TestID      uuid.UUID       `json:"test_id"`
	AnswersJSON json.RawMessage `json:"answers"` // question id -> chosen option index
	Score       int             `json:"score"`   // integer percent, 0-100
	TimeSpent   int             `json:"time_spent"`
	CompletedAt time.Time       `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

type SaveTestRequest struct {
	Subject   string     `json:"subject"`
	Year      int        `json:"year"`
	Questions []Question `json:"questions"`
}

type SubmitAttemptRequest struct {
	TestID    string         `json:"test_id"`
	Answers   map[string]int `json:"answers"`
	TimeSpent int            `json:"time_spent"`
}
