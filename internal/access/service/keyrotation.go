package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/idx"
	"github.com/truenorthhq/truenorth/pkg/jwtx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

// DefaultKeyGracePeriod is how long a retired key keeps verifying tokens
// before housekeeping may purge it.
const DefaultKeyGracePeriod = 30 * 24 * time.Hour

var (
	ErrKeyNotFound       = errors.New("signing key not found")
	ErrKeyAlreadyRetired = errors.New("signing key already retired")
	ErrLastSigningKey    = errors.New("cannot retire the last signing key")
)

// KeyRotationService rotates the Ed25519 keys that sign access tokens.
// With a Store the new key is encrypted and persisted so sessions survive
// restarts; without one rotation happens purely in memory.
type KeyRotationService struct {
	Store       store.Store      // nil in ephemeral mode
	KeyManager  *jwtx.KeyManager // required
	GracePeriod time.Duration    // verification window for retired keys, default 30 days
}

// RotateKeyRequest controls a single rotation.
type RotateKeyRequest struct {
	// RetireExisting retires every currently active key once the new one
	// is in place. Retired keys keep verifying until purged.
	RetireExisting bool `json:"retire_existing"`
}

// RotateKeyResponse reports the outcome of a rotation.
type RotateKeyResponse struct {
	NewKey      SigningKeyInfo   `json:"new_key"`
	RetiredKeys []SigningKeyInfo `json:"retired_keys,omitempty"`
	ActiveKeys  int              `json:"active_keys"`
}

// SigningKeyInfo is the public view of a signing key. Private material
// never leaves the service.
type SigningKeyInfo struct {
	Kid       string     `json:"kid"`
	Algorithm string     `json:"algorithm"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
	RetiredAt *time.Time `json:"retired_at,omitempty"`
	ExpiresAt time.Time  `json:"expires_at,omitzero"`
}

// RotateKey generates a new Ed25519 signing key and activates it. The new
// signer is added before any old one is retired, so the manager never drops
// to zero signing keys mid-rotation.
func (s *KeyRotationService) RotateKey(ctx context.Context, req RotateKeyRequest) (*RotateKeyResponse, error) {
	l := slogx.FromContext(ctx)

	if s.KeyManager == nil {
		return nil, errors.New("key manager is required")
	}

	// 1. Generate the replacement key pair.
	kid, err := jwtx.NewKeyID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key id: %w", err)
	}

	pemData, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	signer, err := jwtx.NewSigner(kid, pemData)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	now := time.Now().UTC()
	grace := s.GracePeriod
	if grace <= 0 {
		grace = DefaultKeyGracePeriod
	}

	resp := &RotateKeyResponse{}

	if s.Store != nil {
		// 2. Persist the encrypted key before it signs anything, retiring
		// old rows in the same transaction.
		encrypted, err := cryptox.EncryptPrivateKey(pemData)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt private key: %w", err)
		}

		newKey := domain.SigningKey{
			ID:                  idx.New().String(),
			Kid:                 kid,
			Algorithm:           jwtx.AlgorithmEdDSA,
			PrivateKeyEncrypted: encrypted,
			CreatedAt:           now,
			ExpiresAt:           now.Add(grace),
		}

		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.SigningKeys().CreateSigningKey(ctx, newKey); err != nil {
				return fmt.Errorf("failed to store new key: %w", err)
			}

			if !req.RetireExisting {
				return nil
			}

			active, err := tx.SigningKeys().ListActiveSigningKeys(ctx)
			if err != nil {
				return fmt.Errorf("failed to list active keys: %w", err)
			}
			for _, key := range active {
				if key.Kid == kid {
					continue
				}
				if err := tx.SigningKeys().RetireSigningKey(ctx, key.Kid); err != nil {
					return fmt.Errorf("failed to retire key %s: %w", key.Kid, err)
				}
				key.RetiredAt = &now
				resp.RetiredKeys = append(resp.RetiredKeys, keyInfo(key))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		resp.NewKey = keyInfo(newKey)
	} else {
		resp.NewKey = SigningKeyInfo{Kid: kid, Algorithm: jwtx.AlgorithmEdDSA, CreatedAt: now}
		if req.RetireExisting {
			for _, old := range s.KeyManager.GetSigners() {
				resp.RetiredKeys = append(resp.RetiredKeys, SigningKeyInfo{
					Kid:       old.KID(),
					Algorithm: old.Alg(),
					RetiredAt: &now,
				})
			}
		}
	}

	// 3. Activate the new signer, then drop the old ones from the signing
	// set. Their public halves stay published for verification.
	if err := s.KeyManager.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("failed to activate new key: %w", err)
	}

	if req.RetireExisting {
		for _, old := range s.KeyManager.GetSigners() {
			if old.KID() == kid {
				continue
			}
			if err := s.KeyManager.RetireSignerByKid(old.KID()); err != nil {
				l.Warn("failed to retire in-memory signer",
					slog.String("kid", old.KID()),
					slog.Any("error", err),
				)
			}
		}
	}
	resp.ActiveKeys = s.KeyManager.NumSigners()

	l.Info("signing key rotated",
		slog.String("kid", kid),
		slog.Bool("retire_existing", req.RetireExisting),
		slog.Int("active_keys", resp.ActiveKeys),
	)

	return resp, nil
}

// ListSigningKeys returns every key this instance knows about, retired ones
// included. Ephemeral mode only knows the in-memory signers.
func (s *KeyRotationService) ListSigningKeys(ctx context.Context) ([]SigningKeyInfo, error) {
	if s.Store != nil {
		keys, err := s.Store.SigningKeys().ListAllSigningKeys(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list signing keys: %w", err)
		}
		infos := make([]SigningKeyInfo, len(keys))
		for i, key := range keys {
			infos[i] = keyInfo(key)
		}
		return infos, nil
	}

	signers := s.KeyManager.GetSigners()
	infos := make([]SigningKeyInfo, len(signers))
	for i, signer := range signers {
		infos[i] = SigningKeyInfo{Kid: signer.KID(), Algorithm: signer.Alg()}
	}
	return infos, nil
}

// RetireKey stops signing with one key while leaving it verifiable. The
// last active key cannot be retired.
func (s *KeyRotationService) RetireKey(ctx context.Context, kid string) error {
	l := slogx.FromContext(ctx)

	if s.KeyManager.NumSigners() <= 1 {
		return ErrLastSigningKey
	}

	if s.Store != nil {
		key, err := s.Store.SigningKeys().GetSigningKeyByKid(ctx, kid)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrKeyNotFound
			}
			return fmt.Errorf("failed to load signing key: %w", err)
		}
		if key.RetiredAt != nil {
			return ErrKeyAlreadyRetired
		}

		if err := s.Store.SigningKeys().RetireSigningKey(ctx, kid); err != nil {
			return fmt.Errorf("failed to retire signing key: %w", err)
		}

		if err := s.KeyManager.RetireSignerByKid(kid); err != nil {
			// Another instance may hold this signer; the row is retired
			// either way.
			l.Warn("in-memory signer not retired",
				slog.String("kid", kid),
				slog.Any("error", err),
			)
		}
	} else if err := s.KeyManager.RetireSignerByKid(kid); err != nil {
		return ErrKeyNotFound
	}

	l.Info("signing key retired", slog.String("kid", kid))
	return nil
}

func keyInfo(key domain.SigningKey) SigningKeyInfo {
	return SigningKeyInfo{
		Kid:       key.Kid,
		Algorithm: key.Algorithm,
		CreatedAt: key.CreatedAt,
		RetiredAt: key.RetiredAt,
		ExpiresAt: key.ExpiresAt,
	}
}
