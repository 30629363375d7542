package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"untprep-backend/internal/models"
)

type LessonRepo struct {
	pool *pgxpool.Pool
}

func NewLessonRepo(pool *pgxpool.Pool) *LessonRepo {
	return &LessonRepo{pool: pool}
}

func (r *LessonRepo) Create(ctx context.Context, l *models.Lesson) error {
	l.ID = uuid.New()
	examples, err := marshalExamples(l.Examples)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO lessons (id, title, subject, content, examples, sort_order, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		l.ID, l.Title, l.Subject, l.Content, examples, l.SortOrder, l.CreatedBy,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (r *LessonRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	l := &models.Lesson{}
	var examples []byte
	query := `
		SELECT l.id, l.title, l.subject, l.content, l.examples, l.sort_order,
			l.created_by, u.name, l.created_at, l.updated_at
		FROM lessons l
		JOIN users u ON u.id = l.created_by
		WHERE l.id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Title, &l.Subject, &l.Content, &examples, &l.SortOrder,
		&l.CreatedBy, &l.CreatedByName, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(examples, &l.Examples); err != nil {
		return nil, err
	}
	return l, nil
}

// List returns lessons in curriculum order, optionally filtered by subject.
func (r *LessonRepo) List(ctx context.Context, subject string) ([]*models.Lesson, error) {
	query := `
		SELECT l.id, l.title, l.subject, l.content, l.examples, l.sort_order,
			l.created_by, u.name, l.created_at, l.updated_at
		FROM lessons l
		JOIN users u ON u.id = l.created_by`
	args := []interface{}{}
	if subject != "" {
		query += " WHERE l.subject = $1"
		args = append(args, subject)
	}
	query += " ORDER BY l.sort_order ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := make([]*models.Lesson, 0)
	for rows.Next() {
		l := &models.Lesson{}
		var examples []byte
		if err := rows.Scan(
			&l.ID, &l.Title, &l.Subject, &l.Content, &examples, &l.SortOrder,
			&l.CreatedBy, &l.CreatedByName, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(examples, &l.Examples); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *LessonRepo) Update(ctx context.Context, l *models.Lesson) error {
	examples, err := marshalExamples(l.Examples)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE lessons
		SET title = $2, subject = $3, content = $4, examples = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $1
	`, l.ID, l.Title, l.Subject, l.Content, examples, l.SortOrder)
	return err
}

func (r *LessonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM lessons WHERE id = $1", id)
	return err
}

func marshalExamples(examples []models.LessonExample) ([]byte, error) {
	if examples == nil {
		examples = []models.LessonExample{}
	}
	return json.Marshal(examples)
}
