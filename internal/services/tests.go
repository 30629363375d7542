package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"untprep-backend/internal/models"
)

type testStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Test, error)
	CreateAttempt(ctx context.Context, a *models.TestAttempt) error
	ListAttempts(ctx context.Context, userID uuid.UUID, testID *uuid.UUID) ([]*models.TestAttempt, error)
}

// TestService grades submitted attempts against a test's answer key.
type TestService struct {
	tests testStore
}

func NewTestService(tests testStore) *TestService {
	return &TestService{tests: tests}
}

// SubmitAttempt grades one answer set and persists it as a new immutable
// attempt row. Retakes append rows; nothing is ever recomputed.
func (s *TestService) SubmitAttempt(ctx context.Context, testID, userID uuid.UUID, answers map[string]int, timeSpent int) (*models.TestAttempt, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Test not found"}
		}
		return nil, err
	}

	questions, err := test.Questions()
	if err != nil {
		return nil, fmt.Errorf("failed to decode test questions: %w", err)
	}

	score := gradeAttempt(questions, answers)

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	attempt := &models.TestAttempt{
		UserID:      userID,
		TestID:      testID,
		AnswersJSON: answersJSON,
		Score:       score,
		TimeSpent:   timeSpent,
	}
	if err := s.tests.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *TestService) ListAttempts(ctx context.Context, userID uuid.UUID, testID *uuid.UUID) ([]*models.TestAttempt, error) {
	return s.tests.ListAttempts(ctx, userID, testID)
}

// gradeAttempt counts answers matching the key and returns the rounded
// integer percentage. Missing answers are wrong; a test with no questions
// scores 0 rather than dividing by zero.
func gradeAttempt(questions []models.Question, answers map[string]int) int {
	total := len(questions)
	if total == 0 {
		return 0
	}

	correct := 0
	for _, q := range questions {
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectAnswer {
			correct++
		}
	}

	return int(math.Round(float64(correct) / float64(total) * 100))
}
