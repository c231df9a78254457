package models

import "time"

// Message is an immutable text entry within a chat. Ordering is total:
// created_at ascending with ties broken by id.
type Message struct {
	ID        int       `db:"id" json:"id"`
	ChatID    int       `db:"chat_id" json:"chat_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HistoryMessage is a Message joined with the author's current name and
// avatar at read time.
type HistoryMessage struct {
	Message
	UserName   string  `db:"user_name" json:"user_name"`
	UserAvatar *string `db:"user_avatar" json:"user_avatar"`
}

// LastMessage is the newest message text/time of a chat, used by the
// conversation summary builder.
type LastMessage struct {
	ChatID    int       `db:"chat_id" json:"chat_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
