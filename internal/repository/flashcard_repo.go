package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"untprep-backend/internal/models"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

func (r *FlashcardRepo) Create(ctx context.Context, f *models.Flashcard) error {
	f.ID = uuid.New()
	query := `
		INSERT INTO flashcards (id, subject, category, front, back, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		f.ID, f.Subject, f.Category, f.Front, f.Back, f.SortOrder,
	).Scan(&f.CreatedAt)
}

// List filters by subject and category when given; both are optional.
func (r *FlashcardRepo) List(ctx context.Context, subject, category string) ([]*models.Flashcard, error) {
	query := `SELECT id, subject, category, front, back, sort_order, created_at FROM flashcards`
	args := []interface{}{}

	where := ""
	if subject != "" {
		args = append(args, subject)
		where = " WHERE subject = $1"
	}
	if category != "" {
		args = append(args, category)
		if where == "" {
			where = " WHERE category = $1"
		} else {
			where += " AND category = $2"
		}
	}
	query += where + " ORDER BY sort_order ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]*models.Flashcard, 0)
	for rows.Next() {
		f := &models.Flashcard{}
		if err := rows.Scan(&f.ID, &f.Subject, &f.Category, &f.Front, &f.Back, &f.SortOrder, &f.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, f)
	}
	return cards, rows.Err()
}
