package models

import (
	"database/sql"
	"time"
)

// User is an account row. PasswordHash holds the credential in hash:salt form
// and is never serialized.
type User struct {
	ID           int            `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Name         string         `db:"name" json:"name"`
	AvatarURL    sql.NullString `db:"avatar_url" json:"-"`
	IsOnline     bool           `db:"is_online" json:"is_online"`
	LastSeen     sql.NullTime   `db:"last_seen" json:"-"`
}

// View is the API-safe projection of a User.
type UserView struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// View strips credential and presence internals for API responses.
func (u User) View() UserView {
	view := UserView{ID: u.ID, Email: u.Email, Name: u.Name}
	if u.AvatarURL.Valid {
		view.AvatarURL = &u.AvatarURL.String
	}
	return view
}

// LastSeenOrEpoch returns the last-seen time, falling back to the Unix epoch
// for users that have never logged in.
func (u User) LastSeenOrEpoch() time.Time {
	if u.LastSeen.Valid {
		return u.LastSeen.Time
	}
	return time.Unix(0, 0).UTC()
}
