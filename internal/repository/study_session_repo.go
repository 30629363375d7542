package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"untprep-backend/internal/models"
)

type StudySessionRepo struct {
	pool *pgxpool.Pool
}

func NewStudySessionRepo(pool *pgxpool.Pool) *StudySessionRepo {
	return &StudySessionRepo{pool: pool}
}

func (r *StudySessionRepo) Create(ctx context.Context, s *models.StudySession) error {
	s.ID = uuid.New()
	query := `
		INSERT INTO study_sessions (id, user_id, activity_type, start_time)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query, s.ID, s.UserID, s.ActivityType, s.StartTime).Scan(&s.CreatedAt)
}

func (r *StudySessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	s := &models.StudySession{}
	query := `SELECT id, user_id, activity_type, start_time, end_time, duration_minutes, created_at
		FROM study_sessions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.ActivityType, &s.StartTime, &s.EndTime, &s.DurationMinutes, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close sets end_time and duration on an open session. Returns false when the
// session was already closed (or gone), which keeps ending idempotent even if
// two end calls race past the service's own check.
func (r *StudySessionRepo) Close(ctx context.Context, id uuid.UUID, endTime time.Time, durationMinutes int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE study_sessions
		SET end_time = $2, duration_minutes = $3
		WHERE id = $1 AND end_time IS NULL
	`, id, endTime, durationMinutes)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
