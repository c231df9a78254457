package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"messenger-backend/internal/models"
)

// ChatRepository abstracts chat and membership persistence.
type ChatRepository interface {
	CreateDirectChat(ctx context.Context, userID int, otherUserID int) (int, error)
	ListChatsForUser(ctx context.Context, userID int) ([]models.Chat, error)
	IsMember(ctx context.Context, chatID int, userID int) (bool, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateDirectChat inserts a direct chat and both membership rows in one
// transaction. Existing chats between the pair are not deduplicated.
func (r *ChatRepo) CreateDirectChat(ctx context.Context, userID int, otherUserID int) (int, error) {
	if userID == otherUserID {
		return 0, errors.New("cannot create chat with self")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var chatID int
	if err := tx.QueryRowxContext(ctx,
		`INSERT INTO chats (is_group) VALUES (FALSE) RETURNING id`).Scan(&chatID); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2), ($1, $3)`,
		chatID, userID, otherUserID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return chatID, nil
}

// ListChatsForUser returns every chat the user is a member of, in stable id
// order. Activity ordering is applied by the summary builder.
func (r *ChatRepo) ListChatsForUser(ctx context.Context, userID int) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.SelectContext(ctx, &chats,
		`SELECT c.id, c.name, c.is_group, c.avatar_url FROM chats c
         JOIN chat_members cm ON cm.chat_id = c.id
         WHERE cm.user_id=$1
         ORDER BY c.id`, userID)
	return chats, err
}

// IsMember checks whether the user has a membership row for the chat.
func (r *ChatRepo) IsMember(ctx context.Context, chatID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id=$1 AND user_id=$2)`,
		chatID, userID)
	return exists, err
}
