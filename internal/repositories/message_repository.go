package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"messenger-backend/internal/models"
)

var ErrEmptyMessage = errors.New("message text is empty")

// MessageRepository is the append-only per-chat message log.
type MessageRepository interface {
	CreateMessage(ctx context.Context, chatID int, authorID int, text string) (models.Message, error)
	History(ctx context.Context, chatID int) ([]models.HistoryMessage, error)
	LastMessages(ctx context.Context, chatIDs []int) (map[int]models.LastMessage, error)
	UnreadCounts(ctx context.Context, chatIDs []int, viewerID int, lastSeen time.Time) (map[int]int, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage appends a message to a chat. The id and timestamp are
// assigned by the store, so concurrent appends order themselves.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatID int, authorID int, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, ErrEmptyMessage
	}

	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (chat_id, user_id, text) VALUES ($1, $2, $3)
         RETURNING id, chat_id, user_id, text, created_at`,
		chatID, authorID, text).StructScan(&msg)
	return msg, err
}

// History returns the full message sequence of a chat ascending by creation
// time (ties by id), each row joined with the author's current name and
// avatar.
func (r *MessageRepo) History(ctx context.Context, chatID int) ([]models.HistoryMessage, error) {
	var msgs []models.HistoryMessage
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT m.id, m.chat_id, m.user_id, m.text, m.created_at,
                u.name AS user_name, u.avatar_url AS user_avatar
         FROM messages m
         JOIN users u ON u.id = m.user_id
         WHERE m.chat_id=$1
         ORDER BY m.created_at ASC, m.id ASC`, chatID)
	return msgs, err
}

// LastMessages returns the newest message per chat for the given set.
func (r *MessageRepo) LastMessages(ctx context.Context, chatIDs []int) (map[int]models.LastMessage, error) {
	result := make(map[int]models.LastMessage, len(chatIDs))
	if len(chatIDs) == 0 {
		return result, nil
	}

	var rows []models.LastMessage
	err := r.db.SelectContext(ctx, &rows,
		`SELECT DISTINCT ON (chat_id) chat_id, text, created_at
         FROM messages
         WHERE chat_id = ANY($1)
         ORDER BY chat_id, created_at DESC, id DESC`, pq.Array(chatIDs))
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ChatID] = row
	}
	return result, nil
}

// UnreadCounts counts, per chat, messages authored by someone other than the
// viewer and created strictly after the viewer's last-seen time.
func (r *MessageRepo) UnreadCounts(ctx context.Context, chatIDs []int, viewerID int, lastSeen time.Time) (map[int]int, error) {
	result := make(map[int]int, len(chatIDs))
	if len(chatIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryxContext(ctx,
		`SELECT chat_id, COUNT(*) FROM messages
         WHERE chat_id = ANY($1) AND user_id <> $2 AND created_at > $3
         GROUP BY chat_id`, pq.Array(chatIDs), viewerID, lastSeen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var chatID, count int
		if err := rows.Scan(&chatID, &count); err != nil {
			return nil, err
		}
		result[chatID] = count
	}
	return result, rows.Err()
}
