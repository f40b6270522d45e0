package jwtx

import (
	"errors"
)

// Verifier validates a JWT string and returns its claims when legitimate.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// NewVerifier returns an EdDSA Verifier over a KeySet.
func NewVerifier(keys *KeySet, issuer string, audience []string) Verifier {
	return NewVerifierEdDSA(keys, issuer, audience)
}
