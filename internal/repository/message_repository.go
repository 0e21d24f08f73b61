package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/supportdesk/inquiry-service/internal/domain"
)

// MessageRepository manages inquiry thread messages.
type MessageRepository interface {
	WithTx(tx pgx.Tx) MessageRepository
	Create(ctx context.Context, msg *domain.Message) error
	ListByInquiry(ctx context.Context, inquiryID int64) ([]domain.Message, error)
}

type messageRepository struct {
	db Querier
}

// NewMessageRepository builds the repository.
func NewMessageRepository(db Querier) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) WithTx(tx pgx.Tx) MessageRepository {
	return &messageRepository{db: tx}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (inquiry_id, content, sender_type)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		msg.InquiryID,
		msg.Content,
		msg.SenderType,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) ListByInquiry(ctx context.Context, inquiryID int64) ([]domain.Message, error) {
	const query = `
        SELECT id, inquiry_id, content, sender_type, created_at
        FROM messages WHERE inquiry_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, inquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.InquiryID,
			&msg.Content,
			&msg.SenderType,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
