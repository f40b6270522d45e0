package domain

import "time"

// TokenPair is what login and refresh return: a short-lived access JWT and
// an opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"` // "Bearer"
	ExpiresIn    int64  `json:"expires_in"`           // seconds until access expiry
}

// Session is the server-side record behind both tokens. The access JWT
// carries the session id; the row must still be live for the token to
// authenticate, which is what makes logout take effect immediately.
type Session struct {
	ID     string
	UserID string

	// RefreshFingerprint is the fingerprint of the current refresh token.
	// The previous fingerprint is kept one rotation back: presenting it
	// again means the token leaked, and the session is revoked.
	RefreshFingerprint     string
	PrevRefreshFingerprint *string

	AMR        []string // how the user authenticated, carried into claims
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// Live reports whether the session can still authenticate.
func (s *Session) Live(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
