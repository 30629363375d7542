package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"untprep-backend/internal/models"
)

type TestRepo struct {
	pool *pgxpool.Pool
}

func NewTestRepo(pool *pgxpool.Pool) *TestRepo {
	return &TestRepo{pool: pool}
}

func (r *TestRepo) Create(ctx context.Context, t *models.Test) error {
	t.ID = uuid.New()
	if len(t.QuestionsJSON) == 0 {
		t.QuestionsJSON = json.RawMessage("[]")
	}

	query := `
		INSERT INTO tests (id, subject, year, questions)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query, t.ID, t.Subject, t.Year, t.QuestionsJSON).Scan(&t.CreatedAt)
}

func (r *TestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	t := &models.Test{}
	query := `SELECT id, subject, year, questions, created_at FROM tests WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Subject, &t.Year, &t.QuestionsJSON, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns tests newest year first, optionally filtered by subject.
func (r *TestRepo) List(ctx context.Context, subject string) ([]*models.Test, error) {
	query := `SELECT id, subject, year, questions, created_at FROM tests`
	args := []interface{}{}
	if subject != "" {
		query += " WHERE subject = $1"
		args = append(args, subject)
	}
	query += " ORDER BY year DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tests := make([]*models.Test, 0)
	for rows.Next() {
		t := &models.Test{}
		if err := rows.Scan(&t.ID, &t.Subject, &t.Year, &t.QuestionsJSON, &t.CreatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// Attempts

func (r *TestRepo) CreateAttempt(ctx context.Context, a *models.TestAttempt) error {
	a.ID = uuid.New()
	a.CompletedAt = time.Now()
	if len(a.AnswersJSON) == 0 {
		a.AnswersJSON = json.RawMessage("{}")
	}

	query := `
		INSERT INTO test_attempts (id, user_id, test_id, answers, score, time_spent, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		a.ID, a.UserID, a.TestID, a.AnswersJSON, a.Score, a.TimeSpent, a.CompletedAt,
	).Scan(&a.CreatedAt)
}

// ListAttempts returns a user's attempts, newest first; testID narrows the
// list to one test when non-nil.
func (r *TestRepo) ListAttempts(ctx context.Context, userID uuid.UUID, testID *uuid.UUID) ([]*models.TestAttempt, error) {
	query := `SELECT id, user_id, test_id, answers, score, time_spent, completed_at, created_at
		FROM test_attempts WHERE user_id = $1`
	args := []interface{}{userID}
	if testID != nil {
		query += " AND test_id = $2"
		args = append(args, *testID)
	}
	query += " ORDER BY completed_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]*models.TestAttempt, 0)
	for rows.Next() {
		a := &models.TestAttempt{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.TestID, &a.AnswersJSON, &a.Score, &a.TimeSpent, &a.CompletedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
