package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"untprep-backend/internal/models"
)

type TutorRepo struct {
	pool *pgxpool.Pool
}

func NewTutorRepo(pool *pgxpool.Pool) *TutorRepo {
	return &TutorRepo{pool: pool}
}

func (r *TutorRepo) CreateConversation(ctx context.Context, c *models.TutorConversation) error {
	c.ID = uuid.New()
	query := `
		INSERT INTO tutor_conversations (id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query, c.ID, c.UserID, c.Title).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetConversation scopes by owner, so a stranger's conversation id behaves
// like a missing one.
func (r *TutorRepo) GetConversation(ctx context.Context, id, userID uuid.UUID) (*models.TutorConversation, error) {
	c := &models.TutorConversation{}
	query := `SELECT id, user_id, title, created_at, updated_at
		FROM tutor_conversations WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *TutorRepo) ListConversations(ctx context.Context, userID uuid.UUID) ([]*models.TutorConversation, error) {
	query := `SELECT id, user_id, title, created_at, updated_at
		FROM tutor_conversations WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]*models.TutorConversation, 0)
	for rows.Next() {
		c := &models.TutorConversation{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (r *TutorRepo) DeleteConversation(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM tutor_conversations WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

func (r *TutorRepo) UpdateConversationTitle(ctx context.Context, id uuid.UUID, title string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE tutor_conversations SET title = $2, updated_at = NOW() WHERE id = $1", id, title)
	return err
}

func (r *TutorRepo) TouchConversation(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE tutor_conversations SET updated_at = NOW() WHERE id = $1", id)
	return err
}

func (r *TutorRepo) CreateMessage(ctx context.Context, m *models.TutorMessage) error {
	m.ID = uuid.New()
	query := `
		INSERT INTO tutor_messages (id, conversation_id, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query, m.ID, m.ConversationID, m.Role, m.Content).Scan(&m.CreatedAt)
}

func (r *TutorRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.TutorMessage, error) {
	query := `SELECT id, conversation_id, role, content, created_at
		FROM tutor_messages WHERE conversation_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*models.TutorMessage, 0)
	for rows.Next() {
		m := &models.TutorMessage{}
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
