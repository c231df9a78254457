package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"messenger-backend/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, email, passwordHash, name string) (models.User, error) {
	args := m.Called(ctx, email, passwordHash, name)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) FindByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) MarkOnline(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetLastSeen(ctx context.Context, userID int) (time.Time, error) {
	args := m.Called(ctx, userID)
	var lastSeen time.Time
	if val := args.Get(0); val != nil {
		lastSeen = val.(time.Time)
	}
	return lastSeen, args.Error(1)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) CreateDirectChat(ctx context.Context, userID int, otherUserID int) (int, error) {
	args := m.Called(ctx, userID, otherUserID)
	return args.Int(0), args.Error(1)
}

func (m *ChatRepositoryMock) ListChatsForUser(ctx context.Context, userID int) ([]models.Chat, error) {
	args := m.Called(ctx, userID)
	var chats []models.Chat
	if val := args.Get(0); val != nil {
		chats = val.([]models.Chat)
	}
	return chats, args.Error(1)
}

func (m *ChatRepositoryMock) IsMember(ctx context.Context, chatID int, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, chatID int, authorID int, text string) (models.Message, error) {
	args := m.Called(ctx, chatID, authorID, text)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) History(ctx context.Context, chatID int) ([]models.HistoryMessage, error) {
	args := m.Called(ctx, chatID)
	var msgs []models.HistoryMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.HistoryMessage)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) LastMessages(ctx context.Context, chatIDs []int) (map[int]models.LastMessage, error) {
	args := m.Called(ctx, chatIDs)
	var last map[int]models.LastMessage
	if val := args.Get(0); val != nil {
		last = val.(map[int]models.LastMessage)
	}
	return last, args.Error(1)
}

func (m *MessageRepositoryMock) UnreadCounts(ctx context.Context, chatIDs []int, viewerID int, lastSeen time.Time) (map[int]int, error) {
	args := m.Called(ctx, chatIDs, viewerID, lastSeen)
	var counts map[int]int
	if val := args.Get(0); val != nil {
		counts = val.(map[int]int)
	}
	return counts, args.Error(1)
}
