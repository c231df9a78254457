package services

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"

	"messenger-backend/internal/models"
	"messenger-backend/internal/repositories"
)

// SummaryBuilder derives the chat-list view for a user by composing the chat
// repository, the message log and the user directory. Nothing here is
// persisted; every call recomputes from the store.
type SummaryBuilder struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
}

// NewSummaryBuilder constructs a SummaryBuilder.
func NewSummaryBuilder(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, userRepo repositories.UserRepository) *SummaryBuilder {
	return &SummaryBuilder{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// Summarize returns one ConversationSummary per chat the user belongs to,
// ordered by last-message time descending. Chats without messages sort after
// all chats with messages, keeping their relative order.
func (b *SummaryBuilder) Summarize(ctx context.Context, userID int) ([]models.ConversationSummary, error) {
	ctx, span := otel.Tracer("messenger-backend/services").Start(ctx, "summary.build")
	defer span.End()

	chats, err := b.chatRepo.ListChatsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	chatIDs := make([]int, 0, len(chats))
	for _, chat := range chats {
		chatIDs = append(chatIDs, chat.ID)
	}

	lastMessages, err := b.messageRepo.LastMessages(ctx, chatIDs)
	if err != nil {
		return nil, err
	}

	lastSeen, err := b.userRepo.GetLastSeen(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread, err := b.messageRepo.UnreadCounts(ctx, chatIDs, userID, lastSeen)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(chats))
	for _, chat := range chats {
		summary := models.ConversationSummary{
			ChatID:      chat.ID,
			IsGroup:     chat.IsGroup,
			UnreadCount: unread[chat.ID],
		}
		if chat.Name.Valid {
			name := chat.Name.String
			summary.Name = &name
		}
		if chat.AvatarURL.Valid {
			avatar := chat.AvatarURL.String
			summary.AvatarURL = &avatar
		}
		if last, ok := lastMessages[chat.ID]; ok {
			text := last.Text
			at := last.CreatedAt
			summary.LastMessage = &text
			summary.LastMessageTime = &at
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		left, right := summaries[i].LastMessageTime, summaries[j].LastMessageTime
		if left == nil {
			return false
		}
		if right == nil {
			return true
		}
		return left.After(*right)
	})

	return summaries, nil
}
