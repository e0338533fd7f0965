package domain

import "time"

// Session binds one login event to an access/refresh token pair. The row
// is the authoritative source of token validity: an access token is only
// accepted while its session exists, is unexpired, and still stores the
// presented token string. Deleting the row revokes both tokens.
type Session struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	UserAgent    *string   `json:"user_agent" db:"user_agent"`
	IPAddress    *string   `json:"ip_address" db:"ip_address"`
	DeviceType   *string   `json:"device_type" db:"device_type"`
	Location     *string   `json:"location" db:"location"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SessionMetadata carries per-device request context captured at login.
type SessionMetadata struct {
	UserAgent  string
	IPAddress  string
	DeviceType string
	Location   string
}

// IsExpired reports whether the session lifetime has passed.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.After(time.Now())
}
