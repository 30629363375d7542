package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"untprep-backend/internal/models"
)

type ProgressRepo struct {
	pool *pgxpool.Pool
}

func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

func (r *ProgressRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Progress, error) {
	p := &models.Progress{}
	query := `SELECT id, user_id, total_study_time, current_streak, longest_streak, last_study_date, updated_at
		FROM progress WHERE user_id = $1`

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.TotalStudyTime, &p.CurrentStreak, &p.LongestStreak,
		&p.LastStudyDate, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts an empty progress row for a new student. Registration calls
// this; a conflict means the row already exists and is fine to keep.
func (r *ProgressRepo) Create(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO progress (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, uuid.New(), userID)
	return err
}

// ApplyStudy upserts the streak fields and adds studyMinutes on top of the
// stored total. The addition happens SQL-side so a racing writer can delay a
// streak value but never lose study minutes.
func (r *ProgressRepo) ApplyStudy(ctx context.Context, userID uuid.UUID, studyMinutes, currentStreak, longestStreak int, lastStudyDate time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO progress (id, user_id, total_study_time, current_streak, longest_streak, last_study_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET total_study_time = progress.total_study_time + $3,
			current_streak = $4,
			longest_streak = GREATEST(progress.longest_streak, $5),
			last_study_date = $6,
			updated_at = NOW()
	`, uuid.New(), userID, studyMinutes, currentStreak, longestStreak, lastStudyDate)
	return err
}
