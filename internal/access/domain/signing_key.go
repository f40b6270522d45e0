package domain

import "time"

// SigningKey is a JWT signing key at rest. The private half is encrypted;
// a retired key keeps verifying until ExpiresAt so outstanding tokens age
// out before the key disappears.
type SigningKey struct {
	ID                  string
	Kid                 string // key identifier published in JWKS
	Algorithm           string // always "EdDSA"
	PrivateKeyEncrypted []byte // AES-256-GCM encrypted private key PEM
	CreatedAt           time.Time
	RetiredAt           *time.Time // nil while actively signing
	ExpiresAt           time.Time  // hard deletion after this
}

// IsActive reports whether the key signs new tokens.
func (k *SigningKey) IsActive(now time.Time) bool {
	return k.RetiredAt == nil && now.Before(k.ExpiresAt)
}

// IsExpired reports whether the key passed hard expiry.
func (k *SigningKey) IsExpired(now time.Time) bool {
	return now.After(k.ExpiresAt)
}
