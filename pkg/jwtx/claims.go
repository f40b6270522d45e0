package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Overridable per service via config.
const (
	// DefaultAccessTokenTTL keeps access tokens short-lived; revocation is
	// checked server-side anyway, this just bounds replay windows.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the session lifetime between logins.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Authentication Methods Reference values carried in the "amr" claim.
const (
	// AMRPassword: password-based authentication.
	AMRPassword = "pwd"
	// AMROTP: one-time password (TOTP or backup code).
	AMROTP = "otp"
	// AMRMFA: multi-factor authentication was completed.
	AMRMFA = "mfa"
	// AMRRefresh: token minted via refresh rotation.
	AMRRefresh = "refresh"
)

// Claims are the access-token claims. They carry identity only: role,
// organization, and account flags are deliberately absent because those are
// re-read from the store on every authenticate, never trusted from a token
// minted before they last changed.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the server-side session id; the session row must still be live
	// for the token to authenticate.
	SID string `json:"sid,omitempty"`

	// Email of the authenticated user at issuance time.
	Email string `json:"email,omitempty"`

	// Name is the display name at issuance time.
	Name string `json:"name,omitempty"`

	// AMR lists how the user authenticated, e.g. ["pwd","mfa"].
	AMR []string `json:"amr,omitempty"`
}

// NewAccessClaims builds minimally-correct access-token claims.
func NewAccessClaims(
	subject, sid string,
	amr []string,
	ttl time.Duration,
	issuer string,
	audience []string,
	email, name string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:   sid,
		Email: email,
		Name:  name,
		AMR:   amr,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer when one is expected.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks that at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiry ensures the token is inside its exp/nbf window.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway allows a grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
