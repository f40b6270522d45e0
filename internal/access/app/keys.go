package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/jwtx"
)

// InitSigningKeys creates the KeyManager for the configured storage mode.
//
// Storage modes:
//   - "ephemeral": Keys are generated on startup and stored only in memory.
//     All existing sessions become invalid when the service restarts.
//   - "persistent": Keys are stored in the database with encrypted private
//     material. Sessions survive restarts and rotation runs with a grace
//     period for retired keys.
//
// All keys are Ed25519; tokens are signed EdDSA.
func InitSigningKeys(ctx context.Context, cfg Config, db store.Store, logger *slog.Logger) (*jwtx.KeyManager, error) {
	// Master key is only needed to wrap private material for persistence.
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
		logger.Info("master key path configured", "path", cfg.MasterKeyPath)
	}

	var keyManager *jwtx.KeyManager
	var err error

	switch cfg.KeyStorageMode {
	case "persistent":
		logger.Info("initializing persistent key manager",
			"num_keys", cfg.NumKeys,
			"grace_period", cfg.KeyGracePeriod,
		)

		keyManager, err = jwtx.NewPersistentKeyManager(ctx, jwtx.PersistentKeyManagerOptions{
			Store:       store.NewKeyStoreAdapter(db),
			Issuer:      cfg.Issuer,
			NumKeys:     cfg.NumKeys,
			GracePeriod: cfg.KeyGracePeriod,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize persistent key manager: %w", err)
		}

		logger.Info("persistent signing keys loaded",
			"num_keys", keyManager.NumSigners(),
			"issuer", cfg.Issuer,
		)

	case "ephemeral":
		fallthrough
	default:
		keyManager, err = jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
			Issuer:  cfg.Issuer,
			NumKeys: cfg.NumKeys,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
		}

		logger.Info("generated ephemeral signing keys",
			"num_keys", keyManager.NumSigners(),
			"issuer", cfg.Issuer,
		)
		logger.Warn("ephemeral key mode: all sessions issued before this restart are now invalid")
	}

	return keyManager, nil
}
