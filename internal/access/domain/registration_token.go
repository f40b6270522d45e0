package domain

import "time"

// TokenSource says how a registration token came to exist.
type TokenSource string

const (
	TokenSourceInvite   TokenSource = "invite"
	TokenSourcePurchase TokenSource = "purchase"
)

// RegistrationToken is a single-use account-creation credential. Only the
// fingerprint of the raw token is stored. State machine: issued → consumed
// (terminal) or issued → expired (terminal, time-based). No transition out
// of a terminal state.
type RegistrationToken struct {
	ID            string
	TokenHash     string // deterministic fingerprint (base64url SHA-256)
	SourceKind    TokenSource
	OrgID         string
	Role          Role   // role granted to the account created from this token
	IntendedEmail string // binds the token to one email when non-empty
	CreatedBy     string // minting user; empty for purchase tokens
	ExpiresAt     time.Time
	ConsumedAt    *time.Time
	ConsumedBy    string
	CreatedAt     time.Time
}

// Consumed reports whether the token reached its consumed terminal state.
func (t *RegistrationToken) Consumed() bool { return t.ConsumedAt != nil }

// Expired reports whether the token aged out.
func (t *RegistrationToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }

// Usable reports whether the token is still in its issued state.
func (t *RegistrationToken) Usable(now time.Time) bool {
	return !t.Consumed() && !t.Expired(now)
}
