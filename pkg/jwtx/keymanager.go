package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/truenorthhq/truenorth/pkg/cryptox"
)

// KeyManager owns the signing keys for an instance: the active signers, the
// verifier, and the KeySet the JWKS endpoint publishes. Signing load is
// spread randomly across the active keys.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []Signer
}

// KeyManagerOptions configures a KeyManager.
type KeyManagerOptions struct {
	// Issuer is the iss claim validated on every token. Required.
	Issuer string

	// Audience values validated on every token. Empty disables the check.
	Audience []string

	// NumKeys is how many signing keys to hold active. Defaults to 3,
	// capped at 10.
	NumKeys int
}

func (o *KeyManagerOptions) normalize() error {
	if o.Issuer == "" {
		return fmt.Errorf("jwtx: Issuer is required")
	}
	if o.NumKeys <= 0 {
		o.NumKeys = 3
	}
	if o.NumKeys > 10 {
		o.NumKeys = 10
	}
	return nil
}

// NewEphemeralKeyManager generates in-memory Ed25519 keys that are never
// persisted. Every token becomes invalid on restart, which is what tests and
// dev mode want.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	keyset := NewKeySet()
	signers := make([]Signer, 0, opts.NumKeys)

	for i := 0; i < opts.NumKeys; i++ {
		kid, err := NewKeyID()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
		}

		pemData, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key %d: %w", i+1, err)
		}

		signer, err := NewSigner(kid, pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to create signer %d: %w", i+1, err)
		}

		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add signer %d to keyset: %w", i+1, err)
		}
		signers = append(signers, signer)
	}

	return &KeyManager{
		Verifier: NewVerifier(keyset, opts.Issuer, opts.Audience),
		KeySet:   keyset,
		signers:  signers,
	}, nil
}

// Algorithm returns the signing algorithm in use.
func (km *KeyManager) Algorithm() string { return AlgorithmEdDSA }

// IsReady reports whether the manager holds at least one verification key.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// GetSigner picks a random active signer. Returns nil when none remain,
// which callers treat as a hard fault.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// AddSigner activates a new signing key and publishes its public half.
// Safe for runtime rotation.
func (km *KeyManager) AddSigner(signer Signer) error {
	if signer == nil {
		return fmt.Errorf("jwtx: signer cannot be nil")
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.KeySet.AddSigner(signer); err != nil {
		return fmt.Errorf("jwtx: failed to add signer to keyset: %w", err)
	}
	km.signers = append(km.signers, signer)
	return nil
}

// RetireSignerByKid stops signing with a key. The public half stays in the
// KeySet so outstanding tokens keep verifying through their grace period.
// The last active key cannot be retired.
func (km *KeyManager) RetireSignerByKid(kid string) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	if len(km.signers) <= 1 {
		return fmt.Errorf("jwtx: cannot retire the last signing key")
	}

	remaining := make([]Signer, 0, len(km.signers)-1)
	found := false
	for _, signer := range km.signers {
		if signer.KID() == kid {
			found = true
			continue
		}
		remaining = append(remaining, signer)
	}

	if !found {
		return fmt.Errorf("jwtx: signer with kid %q not found", kid)
	}

	km.signers = remaining
	return nil
}

// GetSigners returns a copy of the active signing keys.
func (km *KeyManager) GetSigners() []Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	signers := make([]Signer, len(km.signers))
	copy(signers, km.signers)
	return signers
}

// NewKeyID mints a random key identifier of the form "tn-{token}".
func NewKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("jwtx: failed to generate key ID: %w", err)
	}
	return fmt.Sprintf("tn-%s", token), nil
}
