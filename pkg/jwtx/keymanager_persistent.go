package jwtx

import (
	"context"
	"fmt"
	"time"

	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/idx"
)

// SigningKeyRecord is a stored signing key. Defined here rather than in the
// domain package so jwtx stays import-cycle free.
type SigningKeyRecord struct {
	ID                  string
	Kid                 string
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time
	RetiredAt           *time.Time
	ExpiresAt           time.Time
}

// KeyStore is the minimal persistence surface persistent key management
// needs.
type KeyStore interface {
	// ListAllSigningKeys returns every key, retired ones included, so old
	// tokens keep verifying through their grace period.
	ListAllSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)

	// ListActiveSigningKeys returns only keys eligible for signing.
	ListActiveSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)

	// CreateSigningKey stores a new key with encrypted private material.
	CreateSigningKey(ctx context.Context, key SigningKeyRecord) error
}

// PersistentKeyManagerOptions configures a store-backed KeyManager.
type PersistentKeyManagerOptions struct {
	Store    KeyStore
	Issuer   string
	Audience []string

	// NumKeys is the target number of active signing keys; missing ones are
	// generated and persisted on startup. Defaults to 3.
	NumKeys int

	// GracePeriod is how long retired keys keep verifying. Defaults to 30
	// days.
	GracePeriod time.Duration
}

// NewPersistentKeyManager loads signing keys from the store, generating and
// persisting new ones until the target count is met. Unlike ephemeral keys
// these survive restarts, so sessions do too.
func NewPersistentKeyManager(ctx context.Context, opts PersistentKeyManagerOptions) (*KeyManager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("jwtx: Store is required for persistent key manager")
	}
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}
	if opts.NumKeys <= 0 {
		opts.NumKeys = 3
	}
	if opts.NumKeys > 10 {
		opts.NumKeys = 10
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = 30 * 24 * time.Hour
	}

	allKeys, err := opts.Store.ListAllSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load keys from store: %w", err)
	}
	activeKeys, err := opts.Store.ListActiveSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load active keys: %w", err)
	}

	// Every stored key verifies; only active ones sign.
	keyset := NewKeySet()
	for _, record := range allKeys {
		signer, err := signerFromRecord(record)
		if err != nil {
			return nil, err
		}
		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add key %s to keyset: %w", record.Kid, err)
		}
	}

	activeSigners := make([]Signer, 0, len(activeKeys))
	for _, record := range activeKeys {
		signer, err := signerFromRecord(record)
		if err != nil {
			return nil, err
		}
		activeSigners = append(activeSigners, signer)
	}

	now := time.Now().UTC()
	for len(activeSigners) < opts.NumKeys {
		kid, err := NewKeyID()
		if err != nil {
			return nil, err
		}

		pemData, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate new key: %w", err)
		}

		signer, err := NewSigner(kid, pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to create signer: %w", err)
		}

		encrypted, err := cryptox.EncryptPrivateKey(pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to encrypt new key: %w", err)
		}

		record := SigningKeyRecord{
			ID:                  idx.New().String(),
			Kid:                 kid,
			Algorithm:           AlgorithmEdDSA,
			PrivateKeyEncrypted: encrypted,
			CreatedAt:           now,
			ExpiresAt:           now.Add(opts.GracePeriod), // earliest purge time once retired
		}
		if err := opts.Store.CreateSigningKey(ctx, record); err != nil {
			return nil, fmt.Errorf("jwtx: failed to store new key: %w", err)
		}

		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add new key to keyset: %w", err)
		}
		activeSigners = append(activeSigners, signer)
	}

	return &KeyManager{
		Verifier: NewVerifier(keyset, opts.Issuer, opts.Audience),
		KeySet:   keyset,
		signers:  activeSigners,
	}, nil
}

func signerFromRecord(record SigningKeyRecord) (Signer, error) {
	if record.Algorithm != AlgorithmEdDSA {
		return nil, fmt.Errorf("jwtx: stored key %s has unsupported algorithm %q", record.Kid, record.Algorithm)
	}

	pemData, err := cryptox.DecryptPrivateKey(record.PrivateKeyEncrypted)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to decrypt key %s: %w", record.Kid, err)
	}

	signer, err := NewSigner(record.Kid, pemData)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load key %s: %w", record.Kid, err)
	}
	return signer, nil
}
