package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

// InitAuthKeys loads the Ed25519 signing key from cfg.SigningKeyFile, or
// generates an ephemeral one when no file is configured.
//
// With an ephemeral key every token issued before a restart stops
// verifying. Use the keygen command to create a persistent key.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Issuer: cfg.Issuer,
		KeyID:  cfg.KeyID,
	}

	if cfg.SigningKeyFile != "" {
		pemKey, err := os.ReadFile(filepath.Clean(cfg.SigningKeyFile))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("signing key %s does not exist (create one with the keygen command): %w",
					cfg.SigningKeyFile, err)
			}
			return nil, fmt.Errorf("read signing key: %w", err)
		}
		opts.PrivateKeyPEM = pemKey
	}

	km, err := jwtx.NewKeyManager(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}

	kid := km.Signer.PublicJWK().Kid
	if km.Ephemeral {
		logger.Info("generated ephemeral signing key", "kid", kid, "issuer", cfg.Issuer)
		logger.Warn("all existing tokens are now invalid; set ACCOUNTS_SIGNING_KEY_FILE to keep them across restarts")
	} else {
		logger.Info("signing key loaded", "kid", kid, "issuer", cfg.Issuer, "path", cfg.SigningKeyFile)
	}

	return km, nil
}

// WriteSigningKey generates a PKCS8 Ed25519 key and writes it to path with
// 0600 permissions. An existing file is only replaced when overwrite is set.
func WriteSigningKey(path string, overwrite bool) error {
	if path == "" {
		return errors.New("signing key path is empty")
	}
	path = filepath.Clean(path)

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	if err := os.WriteFile(path, pemKey, 0o600); err != nil {
		return fmt.Errorf("write signing key: %w", err)
	}
	return nil
}
