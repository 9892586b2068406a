package domain

import (
	"fmt"
	"time"
)

// Session represents an authenticated shop session produced by the OAuth handshake
type Session struct {
	ID          string    `json:"id" bson:"_id"`
	Shop        string    `json:"shop" bson:"shop"`
	State       string    `json:"state" bson:"state"`
	Scope       string    `json:"scope" bson:"scope"`
	AccessToken string    `json:"access_token" bson:"access_token"`
	IsOnline    bool      `json:"is_online" bson:"is_online"`
	UserID      int64     `json:"user_id,omitempty" bson:"user_id,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// OnlineSessionID returns the session id used for a shop user's online session
func OnlineSessionID(shop string, userID int64) string {
	return fmt.Sprintf("%s_%d", shop, userID)
}

// OfflineSessionID returns the session id used for a shop's offline session
func OfflineSessionID(shop string) string {
	return "offline_" + shop
}

// IsActive reports whether the session carries a usable access token at the given time
func (s *Session) IsActive(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	if !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt) {
		return false
	}
	return true
}
