package models

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUserViewOmitsCredential(t *testing.T) {
	user := User{
		ID:           1,
		Email:        "alice@example.com",
		PasswordHash: "hash:salt",
		Name:         "Alice",
	}

	body, err := json.Marshal(user.View())
	require.NoError(t, err)
	require.NotContains(t, string(body), "hash:salt")
	require.Contains(t, string(body), "alice@example.com")
}

func TestLastSeenOrEpoch(t *testing.T) {
	var user User
	require.Equal(t, time.Unix(0, 0).UTC(), user.LastSeenOrEpoch())

	seen := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	user.LastSeen = sql.NullTime{Time: seen, Valid: true}
	require.Equal(t, seen, user.LastSeenOrEpoch())
}
