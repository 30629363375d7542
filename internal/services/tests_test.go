package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"untprep-backend/internal/models"
)

func q(id string, correct int) models.Question {
	return models.Question{ID: id, Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: correct}
}

func TestGradeAttempt(t *testing.T) {
	questions := []models.Question{q("q1", 0), q("q2", 1), q("q3", 2), q("q4", 3)}

	tests := []struct {
		name     string
		answers  map[string]int
		expected int
	}{
		{"three of four correct", map[string]int{"q1": 0, "q2": 1, "q3": 2, "q4": 0}, 75},
		{"all correct", map[string]int{"q1": 0, "q2": 1, "q3": 2, "q4": 3}, 100},
		{"all wrong", map[string]int{"q1": 3, "q2": 3, "q3": 3, "q4": 0}, 0},
		{"missing answers count as wrong", map[string]int{"q1": 0}, 25},
		{"empty answer set", map[string]int{}, 0},
		{"unknown question ids ignored", map[string]int{"q1": 0, "nope": 1}, 25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := gradeAttempt(questions, tc.answers); got != tc.expected {
				t.Errorf("expected score %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestGradeAttemptRounding(t *testing.T) {
	// 1 of 3 correct is 33.33..., rounded to 33; 2 of 3 is 66.66..., rounded
	// to 67.
	questions := []models.Question{q("q1", 0), q("q2", 0), q("q3", 0)}

	if got := gradeAttempt(questions, map[string]int{"q1": 0}); got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}
	if got := gradeAttempt(questions, map[string]int{"q1": 0, "q2": 0}); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
}

func TestGradeAttemptNoQuestions(t *testing.T) {
	if got := gradeAttempt(nil, map[string]int{"q1": 0}); got != 0 {
		t.Fatalf("expected empty test to score 0, got %d", got)
	}
}

type fakeTestStore struct {
	tests    map[uuid.UUID]*models.Test
	attempts []*models.TestAttempt
}

func (f *fakeTestStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	test, ok := f.tests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return test, nil
}

func (f *fakeTestStore) CreateAttempt(ctx context.Context, a *models.TestAttempt) error {
	a.ID = uuid.New()
	f.attempts = append(f.attempts, a)
	return nil
}

func (f *fakeTestStore) ListAttempts(ctx context.Context, userID uuid.UUID, testID *uuid.UUID) ([]*models.TestAttempt, error) {
	out := make([]*models.TestAttempt, 0)
	for _, a := range f.attempts {
		if a.UserID != userID {
			continue
		}
		if testID != nil && a.TestID != *testID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func TestSubmitAttempt(t *testing.T) {
	questions, _ := json.Marshal([]models.Question{q("q1", 0), q("q2", 1)})
	testID := uuid.New()
	store := &fakeTestStore{tests: map[uuid.UUID]*models.Test{
		testID: {ID: testID, Subject: models.SubjectPhysics, Year: 2025, QuestionsJSON: questions},
	}}
	svc := NewTestService(store)
	userID := uuid.New()

	attempt, err := svc.SubmitAttempt(context.Background(), testID, userID, map[string]int{"q1": 0, "q2": 0}, 300)
	if err != nil {
		t.Fatalf("submit attempt: %v", err)
	}
	if attempt.Score != 50 {
		t.Fatalf("expected score 50, got %d", attempt.Score)
	}
	if attempt.TimeSpent != 300 {
		t.Fatalf("expected time spent 300, got %d", attempt.TimeSpent)
	}

	// A retake appends a second row instead of touching the first.
	if _, err := svc.SubmitAttempt(context.Background(), testID, userID, map[string]int{"q1": 0, "q2": 1}, 200); err != nil {
		t.Fatalf("retake: %v", err)
	}
	if len(store.attempts) != 2 {
		t.Fatalf("expected 2 attempt rows, got %d", len(store.attempts))
	}
	if store.attempts[0].Score != 50 || store.attempts[1].Score != 100 {
		t.Fatalf("expected scores 50 and 100, got %d and %d", store.attempts[0].Score, store.attempts[1].Score)
	}
}

func TestSubmitAttemptUnknownTest(t *testing.T) {
	svc := NewTestService(&fakeTestStore{tests: map[uuid.UUID]*models.Test{}})

	_, err := svc.SubmitAttempt(context.Background(), uuid.New(), uuid.New(), nil, 0)
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
