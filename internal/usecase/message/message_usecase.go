package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"go.uber.org/zap"
)

const (
	ConversationPageSize = 50
	MaxContentLength     = 2000
)

type MessageUseCase struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

func NewMessageUseCase(messageRepo repository.MessageRepository, userRepo repository.UserRepository, logger *zap.Logger) *MessageUseCase {
	return &MessageUseCase{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

type SendMessageRequest struct {
	ReceiverID int    `json:"receiver_id" binding:"required,min=1"`
	Content    string `json:"content" binding:"required,max=2000"`
}

func (uc *MessageUseCase) Send(ctx context.Context, senderID int, req *SendMessageRequest) (*domain.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" || utf8.RuneCountInString(content) > MaxContentLength {
		return nil, fmt.Errorf("%w: content must be 1 to %d characters", domain.ErrInvalidInput, MaxContentLength)
	}
	if req.ReceiverID == senderID {
		return nil, domain.ErrCannotMessageSelf
	}

	if _, err := uc.userRepo.GetByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrReceiverNotFound
		}
		return nil, fmt.Errorf("failed to get receiver: %w", err)
	}

	message := &domain.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    content,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	uc.logger.Debug("Message sent", zap.Int("message_id", message.ID), zap.Int("sender_id", senderID), zap.Int("receiver_id", req.ReceiverID))
	return message, nil
}

// Conversation returns the latest page of messages with otherUserID,
// newest first, and marks the ones addressed to userID as read. The
// returned messages reflect the state before marking.
func (uc *MessageUseCase) Conversation(ctx context.Context, userID, otherUserID int) ([]*domain.Message, error) {
	messages, err := uc.messageRepo.GetConversation(ctx, userID, otherUserID, ConversationPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	marked, err := uc.messageRepo.MarkRead(ctx, otherUserID, userID)
	if err != nil {
		uc.logger.Warn("Failed to mark messages read",
			zap.Int("user_id", userID),
			zap.Int("other_user_id", otherUserID),
			zap.Error(err),
		)
	} else if marked > 0 {
		uc.logger.Debug("Messages marked read", zap.Int("user_id", userID), zap.Int64("count", marked))
	}

	return messages, nil
}

func (uc *MessageUseCase) Conversations(ctx context.Context, userID int) ([]*domain.Conversation, error) {
	conversations, err := uc.messageRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

func (uc *MessageUseCase) UnreadCount(ctx context.Context, userID int) (int, error) {
	count, err := uc.messageRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
