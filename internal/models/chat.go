package models

import (
	"database/sql"
	"time"
)

// Chat is a conversation, either direct (two members) or group.
type Chat struct {
	ID        int            `db:"id" json:"id"`
	Name      sql.NullString `db:"name" json:"-"`
	IsGroup   bool           `db:"is_group" json:"is_group"`
	AvatarURL sql.NullString `db:"avatar_url" json:"-"`
}

// ChatMember grants a user read/write access to a chat.
type ChatMember struct {
	ChatID int `db:"chat_id" json:"chat_id"`
	UserID int `db:"user_id" json:"user_id"`
}

// ConversationSummary is the derived chat-list view for one viewing user.
// It is recomputed on every list request, never persisted.
type ConversationSummary struct {
	ChatID          int        `json:"chat_id"`
	Name            *string    `json:"name"`
	IsGroup         bool       `json:"is_group"`
	AvatarURL       *string    `json:"avatar_url"`
	LastMessage     *string    `json:"last_message"`
	LastMessageTime *time.Time `json:"last_message_time"`
	UnreadCount     int        `json:"unread_count"`
}
