package jwtx

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
)

// KeyManager bundles the signer, the key set it publishes and a verifier
// trusting that key set.
type KeyManager struct {
	Signer   Signer
	KeySet   *KeySet
	Verifier Verifier

	// Ephemeral is true when the key was generated in memory. Tokens signed
	// with an ephemeral key stop verifying after a restart.
	Ephemeral bool
}

type KeyManagerOptions struct {
	// Issuer is required; tokens with any other iss are rejected.
	Issuer string

	// KeyID is the kid header. When empty a loaded key gets a kid derived
	// from its public half and a generated key a random "accounts-..." id.
	KeyID string

	// PrivateKeyPEM is a PKCS8 Ed25519 key. A key is generated when empty.
	PrivateKeyPEM []byte
}

// NewKeyManager loads or generates the signing key described by opts.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	pemKey := opts.PrivateKeyPEM
	ephemeral := len(pemKey) == 0
	if ephemeral {
		var err error
		if pemKey, err = cryptox.GenerateEd25519Key(); err != nil {
			return nil, fmt.Errorf("jwtx: generate key: %w", err)
		}
	}

	kid := opts.KeyID
	if kid == "" {
		var err error
		if ephemeral {
			kid, err = GenerateKeyID()
		} else {
			kid, err = thumbprintKeyID(pemKey)
		}
		if err != nil {
			return nil, err
		}
	}

	signer, err := NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, err
	}
	if err := signer.Validate(); err != nil {
		return nil, err
	}

	keyset := NewKeySet()
	if err := keyset.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}

	return &KeyManager{
		Signer:    signer,
		KeySet:    keyset,
		Verifier:  NewVerifierEdDSA(keyset, opts.Issuer),
		Ephemeral: ephemeral,
	}, nil
}

// GenerateKeyID returns "accounts-" followed by a 128-bit random token.
func GenerateKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("jwtx: generate key id: %w", err)
	}
	return "accounts-" + token, nil
}

// thumbprintKeyID derives a stable kid from the public half of pemKey, so
// a persistent key keeps its kid across restarts.
func thumbprintKeyID(pemKey []byte) (string, error) {
	priv, err := cryptox.ParseEd25519Key(pemKey)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(priv.Public().(ed25519.PublicKey))
	return "accounts-" + base64.RawURLEncoding.EncodeToString(sum[:12]), nil
}
