package postgres

import (
	"context"
	"time"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, message.SenderID, message.ReceiverID, message.Content).
		Scan(&message.ID, &message.Read, &message.CreatedAt, &message.UpdatedAt)
}

func (r *messageRepository) GetConversation(ctx context.Context, userID, otherUserID int, limit int) ([]*domain.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at, updated_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`
	messages := []*domain.Message{}
	err := r.db.SelectContext(ctx, &messages, query, userID, otherUserID, limit)
	return messages, err
}

func (r *messageRepository) MarkRead(ctx context.Context, senderID, receiverID int) (int64, error) {
	query := `
		UPDATE messages
		SET is_read = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE sender_id = $1 AND receiver_id = $2 AND is_read = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, senderID, receiverID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type conversationRow struct {
	UserID      int         `db:"user_id"`
	UserName    string      `db:"user_name"`
	UserRole    domain.Role `db:"user_role"`
	UnreadCount int         `db:"unread_count"`
	MessageID   int         `db:"message_id"`
	SenderID    int         `db:"sender_id"`
	ReceiverID  int         `db:"receiver_id"`
	Content     string      `db:"content"`
	Read        bool        `db:"is_read"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

// ListConversations returns one entry per counterpart with the latest
// message, most recent conversation first.
func (r *messageRepository) ListConversations(ctx context.Context, userID int) ([]*domain.Conversation, error) {
	query := `
		WITH exchanged AS (
			SELECT m.*,
			       CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS other_id
			FROM messages m
			WHERE m.sender_id = $1 OR m.receiver_id = $1
		), latest AS (
			SELECT DISTINCT ON (other_id) *
			FROM exchanged
			ORDER BY other_id, created_at DESC, id DESC
		)
		SELECT l.other_id AS user_id, u.name AS user_name, u.role AS user_role,
		       l.id AS message_id, l.sender_id, l.receiver_id, l.content, l.is_read,
		       l.created_at, l.updated_at,
		       (SELECT COUNT(*) FROM messages c
		        WHERE c.sender_id = l.other_id AND c.receiver_id = $1 AND c.is_read = FALSE) AS unread_count
		FROM latest l
		JOIN users u ON u.id = l.other_id
		ORDER BY l.created_at DESC
	`
	var rows []conversationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	conversations := make([]*domain.Conversation, 0, len(rows))
	for _, row := range rows {
		conversations = append(conversations, &domain.Conversation{
			UserID:      row.UserID,
			UserName:    row.UserName,
			UserRole:    row.UserRole,
			UnreadCount: row.UnreadCount,
			LastMessage: &domain.Message{
				ID:         row.MessageID,
				SenderID:   row.SenderID,
				ReceiverID: row.ReceiverID,
				Content:    row.Content,
				Read:       row.Read,
				CreatedAt:  row.CreatedAt,
				UpdatedAt:  row.UpdatedAt,
			},
		})
	}
	return conversations, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, userID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = FALSE`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}
