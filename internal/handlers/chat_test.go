package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-backend/internal/mocks"
	"messenger-backend/internal/models"
	"messenger-backend/internal/repositories"
	"messenger-backend/internal/services"
)

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/chats", handler.ListChats)
	r.POST("/chats", handler.CreateChat)
	r.GET("/chats/:chat_id/messages", handler.GetChatMessages)
	r.POST("/chats/:chat_id/messages", handler.PostChatMessage)
	return r
}

func newChatHandler(chatRepo *mocks.ChatRepositoryMock, messageRepo *mocks.MessageRepositoryMock, userRepo *mocks.UserRepositoryMock) *ChatHandler {
	summaries := services.NewSummaryBuilder(chatRepo, messageRepo, userRepo)
	return NewChatHandler(chatRepo, messageRepo, summaries, nil)
}

func TestListChatsSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	router := setupChatRouter(newChatHandler(chatRepo, messageRepo, userRepo))

	lastSeen := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	chatRepo.On("ListChatsForUser", mock.Anything, 1).Return([]models.Chat{{ID: 3}}, nil).Once()
	messageRepo.On("LastMessages", mock.Anything, []int{3}).Return(map[int]models.LastMessage{
		3: {ChatID: 3, Text: "hello", CreatedAt: lastSeen.Add(time.Minute)},
	}, nil).Once()
	userRepo.On("GetLastSeen", mock.Anything, 1).Return(lastSeen, nil).Once()
	messageRepo.On("UnreadCounts", mock.Anything, []int{3}, 1, lastSeen).Return(map[int]int{3: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Chats []models.ConversationSummary `json:"chats"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Chats, 1)
	assert.Equal(t, 3, resp.Chats[0].ChatID)
	assert.Equal(t, 1, resp.Chats[0].UnreadCount)
	require.NotNil(t, resp.Chats[0].LastMessage)
	assert.Equal(t, "hello", *resp.Chats[0].LastMessage)

	chatRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestListChatsRepoError(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(newChatHandler(chatRepo, new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock)))

	chatRepo.On("ListChatsForUser", mock.Anything, 1).Return(([]models.Chat)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	chatRepo.AssertExpectations(t)
}

func TestCreateChatSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	router := setupChatRouter(newChatHandler(chatRepo, new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock)))

	chatRepo.On("CreateDirectChat", mock.Anything, 1, 2).Return(10, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats", bytes.NewBufferString(`{"other_user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 10, resp["chat_id"])
	chatRepo.AssertExpectations(t)
}

func TestCreateChatWithSelf(t *testing.T) {
	router := setupChatRouter(newChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock)))

	req := httptest.NewRequest(http.MethodPost, "/chats", bytes.NewBufferString(`{"other_user_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateChatMissingBody(t *testing.T) {
	router := setupChatRouter(newChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock)))

	req := httptest.NewRequest(http.MethodPost, "/chats", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetChatMessagesSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	router := setupChatRouter(newChatHandler(chatRepo, messageRepo, new(mocks.UserRepositoryMock)))

	chatRepo.On("IsMember", mock.Anything, 5, 1).Return(true, nil).Once()
	messageRepo.On("History", mock.Anything, 5).Return([]models.HistoryMessage{
		{Message: models.Message{ID: 1, ChatID: 5, UserID: 1, Text: "hi"}, UserName: "Alice"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/5/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	chatRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestGetChatMessagesNotMember(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	router := setupChatRouter(newChatHandler(chatRepo, messageRepo, new(mocks.UserRepositoryMock)))

	chatRepo.On("IsMember", mock.Anything, 5, 1).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/5/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	chatRepo.AssertExpectations(t)
	messageRepo.AssertNotCalled(t, "History", mock.Anything, mock.Anything)
}

func TestGetChatMessagesInvalidID(t *testing.T) {
	router := setupChatRouter(newChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock)))

	req := httptest.NewRequest(http.MethodGet, "/chats/abc/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostChatMessageSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	router := setupChatRouter(newChatHandler(chatRepo, messageRepo, new(mocks.UserRepositoryMock)))

	chatRepo.On("IsMember", mock.Anything, 5, 1).Return(true, nil).Once()
	messageRepo.On("CreateMessage", mock.Anything, 5, 1, "hi").
		Return(models.Message{ID: 7, ChatID: 5, UserID: 1, Text: "hi"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/5/messages", bytes.NewBufferString(`{"text":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	chatRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestPostChatMessageNotMember(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	router := setupChatRouter(newChatHandler(chatRepo, messageRepo, new(mocks.UserRepositoryMock)))

	chatRepo.On("IsMember", mock.Anything, 5, 1).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/5/messages", bytes.NewBufferString(`{"text":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	messageRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostChatMessageWhitespaceText(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	router := setupChatRouter(newChatHandler(chatRepo, messageRepo, new(mocks.UserRepositoryMock)))

	chatRepo.On("IsMember", mock.Anything, 5, 1).Return(true, nil).Once()
	messageRepo.On("CreateMessage", mock.Anything, 5, 1, "   ").
		Return(models.Message{}, repositories.ErrEmptyMessage).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/5/messages", bytes.NewBufferString(`{"text":"   "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestPostChatMessageInvalidID(t *testing.T) {
	router := setupChatRouter(newChatHandler(new(mocks.ChatRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock)))

	req := httptest.NewRequest(http.MethodPost, "/chats/bad/messages", bytes.NewBufferString(`{"text":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
