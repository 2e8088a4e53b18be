package handler

import (
	"net/http"

	"github.com/gdugdh24/therapymatch-backend/internal/usecase/message"
	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageUseCase *message.MessageUseCase
}

func NewMessageHandler(messageUseCase *message.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

// Send handles POST /messages
// @Summary Send a message
// @Tags messages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body message.SendMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req message.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sent, err := h.messageUseCase.Send(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, sent)
}

// Conversation handles GET /messages/:user_id
func (h *MessageHandler) Conversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	otherID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	messages, err := h.messageUseCase.Conversation(c.Request.Context(), userID, otherID)
	if err != nil {
		writeError(c, err, "failed to load conversation")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Conversations handles GET /messages/conversations
func (h *MessageHandler) Conversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	conversations, err := h.messageUseCase.Conversations(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to list conversations")
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// UnreadCount handles GET /messages/unread-count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	count, err := h.messageUseCase.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed to count unread messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
