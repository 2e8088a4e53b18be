package domain

import "time"

type Message struct {
	ID         int       `json:"id" db:"id"`
	SenderID   int       `json:"sender_id" db:"sender_id"`
	ReceiverID int       `json:"receiver_id" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	Read       bool      `json:"read" db:"is_read"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Conversation summarises the exchange with one counterpart.
type Conversation struct {
	UserID      int      `json:"user_id" db:"user_id"`
	UserName    string   `json:"user_name" db:"user_name"`
	UserRole    Role     `json:"user_role" db:"user_role"`
	LastMessage *Message `json:"last_message"`
	UnreadCount int      `json:"unread_count" db:"unread_count"`
}
