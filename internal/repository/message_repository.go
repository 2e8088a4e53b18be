package repository

import (
	"context"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// GetConversation returns the latest messages exchanged between two
	// users, newest first.
	GetConversation(ctx context.Context, userID, otherUserID int, limit int) ([]*domain.Message, error)
	// MarkRead marks every unread message from sender to receiver as read.
	MarkRead(ctx context.Context, senderID, receiverID int) (int64, error)
	ListConversations(ctx context.Context, userID int) ([]*domain.Conversation, error)
	CountUnread(ctx context.Context, userID int) (int, error)
}
