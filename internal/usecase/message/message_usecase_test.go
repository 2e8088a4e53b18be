package message

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = 100
	}
	return args.Error(0)
}

func (m *mockMessageRepo) GetConversation(ctx context.Context, userID, otherUserID int, limit int) ([]*domain.Message, error) {
	args := m.Called(ctx, userID, otherUserID, limit)
	list, _ := args.Get(0).([]*domain.Message)
	return list, args.Error(1)
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, senderID, receiverID int) (int64, error) {
	args := m.Called(ctx, senderID, receiverID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) ListConversations(ctx context.Context, userID int) ([]*domain.Conversation, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]*domain.Conversation)
	return list, args.Error(1)
}

func (m *mockMessageRepo) CountUnread(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type stubUserRepo struct {
	repository.UserRepository
	ids map[int]bool
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int) (*domain.User, error) {
	if s.ids[id] {
		return &domain.User{ID: id}, nil
	}
	return nil, domain.ErrUserNotFound
}

func newTestUseCase(t *testing.T, repo *mockMessageRepo) *MessageUseCase {
	return NewMessageUseCase(repo, &stubUserRepo{ids: map[int]bool{1: true, 2: true}}, zaptest.NewLogger(t))
}

func TestMessageUseCase_Send(t *testing.T) {
	tests := []struct {
		name        string
		req         *SendMessageRequest
		expectStore bool
		expectedErr error
	}{
		{name: "ok", req: &SendMessageRequest{ReceiverID: 2, Content: "  hello  "}, expectStore: true},
		{name: "blank content", req: &SendMessageRequest{ReceiverID: 2, Content: "   "}, expectedErr: domain.ErrInvalidInput},
		{name: "too long", req: &SendMessageRequest{ReceiverID: 2, Content: strings.Repeat("a", MaxContentLength+1)}, expectedErr: domain.ErrInvalidInput},
		{name: "to self", req: &SendMessageRequest{ReceiverID: 1, Content: "hi"}, expectedErr: domain.ErrCannotMessageSelf},
		{name: "unknown receiver", req: &SendMessageRequest{ReceiverID: 9, Content: "hi"}, expectedErr: domain.ErrReceiverNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockMessageRepo{}
			if tt.expectStore {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
					return m.SenderID == 1 && m.ReceiverID == 2 && m.Content == "hello"
				})).Return(nil)
			}

			msg, err := newTestUseCase(t, repo).Send(context.Background(), 1, tt.req)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 100, msg.ID)
			repo.AssertExpectations(t)
		})
	}
}

func TestMessageUseCase_Conversation_MarksIncomingRead(t *testing.T) {
	repo := &mockMessageRepo{}
	page := []*domain.Message{{ID: 2, SenderID: 2, ReceiverID: 1}, {ID: 1, SenderID: 1, ReceiverID: 2}}
	repo.On("GetConversation", mock.Anything, 1, 2, ConversationPageSize).Return(page, nil)
	repo.On("MarkRead", mock.Anything, 2, 1).Return(int64(1), nil)

	got, err := newTestUseCase(t, repo).Conversation(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, page, got)
	repo.AssertExpectations(t)
}

func TestMessageUseCase_Conversation_MarkReadFailureIsNotFatal(t *testing.T) {
	repo := &mockMessageRepo{}
	repo.On("GetConversation", mock.Anything, 1, 2, ConversationPageSize).Return([]*domain.Message{}, nil)
	repo.On("MarkRead", mock.Anything, 2, 1).Return(int64(0), errors.New("deadlock"))

	got, err := newTestUseCase(t, repo).Conversation(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMessageUseCase_Conversation_LoadFailure(t *testing.T) {
	repo := &mockMessageRepo{}
	repo.On("GetConversation", mock.Anything, 1, 2, ConversationPageSize).Return(nil, errors.New("timeout"))

	_, err := newTestUseCase(t, repo).Conversation(context.Background(), 1, 2)
	assert.EqualError(t, err, "failed to load conversation: timeout")
	repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMessageUseCase_ConversationsAndUnread(t *testing.T) {
	repo := &mockMessageRepo{}
	repo.On("ListConversations", mock.Anything, 1).Return([]*domain.Conversation{{UserID: 2, UnreadCount: 3}}, nil)
	repo.On("CountUnread", mock.Anything, 1).Return(3, nil)
	uc := newTestUseCase(t, repo)

	conversations, err := uc.Conversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, 3, conversations[0].UnreadCount)

	count, err := uc.UnreadCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
