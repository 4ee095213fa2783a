package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing schemes.
const (
	SchemeArgon2id = "argon2id"
	SchemeBcrypt   = "bcrypt"
)

// Argon2id parameters for new digests. Existing digests carry their own.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

// bcrypt ignores input beyond this many bytes.
const bcryptMaxInput = 72

var (
	ErrUnknownScheme = errors.New("cryptox: unknown password scheme")
	ErrMalformedHash = errors.New("cryptox: malformed password hash")
	ErrMismatch      = errors.New("cryptox: password does not match")
)

// PasswordHasher produces and verifies salted one-way password digests.
//
// New digests use Scheme. Verification picks the scheme from the digest
// itself, so argon2id and bcrypt digests can live side by side in the same
// table.
type PasswordHasher struct {
	Scheme     string // SchemeArgon2id (default) or SchemeBcrypt
	BcryptCost int    // bcrypt.DefaultCost when zero
	Pepper     string // secret mixed into every digest; may be empty
}

// Hash returns a digest of password using the configured scheme.
func (h PasswordHasher) Hash(password string) (string, error) {
	switch h.Scheme {
	case "", SchemeArgon2id:
		return h.hashArgon2id(password)
	case SchemeBcrypt:
		digest, err := bcrypt.GenerateFromPassword(h.bcryptInput(password), h.bcryptCost())
		if err != nil {
			return "", fmt.Errorf("cryptox: bcrypt: %w", err)
		}
		return string(digest), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, h.Scheme)
	}
}

// Verify checks password against digest. It returns ErrMismatch when the
// password is wrong and ErrMalformedHash when the digest cannot be parsed.
func (h PasswordHasher) Verify(password, digest string) error {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return h.verifyArgon2id(password, digest)
	case isBcrypt(digest):
		err := bcrypt.CompareHashAndPassword([]byte(digest), h.bcryptInput(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) && h.Pepper != "" && len(password) <= bcryptMaxInput {
			// Digests imported from an unpeppered deployment.
			err = bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
		}
		switch {
		case err == nil:
			return nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return ErrMismatch
		default:
			return fmt.Errorf("%w: %w", ErrMalformedHash, err)
		}
	default:
		return ErrMalformedHash
	}
}

// Compare reports whether password matches digest.
func (h PasswordHasher) Compare(password, digest string) bool {
	return h.Verify(password, digest) == nil
}

// NeedsRehash reports whether digest should be replaced by a fresh Hash of
// password. password must already have verified against digest. A digest is
// stale when another scheme or other cost parameters produced it, or when it
// only verified without the pepper.
func (h PasswordHasher) NeedsRehash(password, digest string) bool {
	want := h.Scheme
	if want == "" {
		want = SchemeArgon2id
	}
	if SchemeOf(digest) != want {
		return true
	}

	switch want {
	case SchemeArgon2id:
		p, err := parseArgon2id(digest)
		return err != nil || p.memory != memory || p.iterations != iterations || p.parallelism != parallelism
	default:
		cost, err := bcrypt.Cost([]byte(digest))
		if err != nil || cost != h.bcryptCost() {
			return true
		}
		if h.Pepper == "" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(digest), h.bcryptInput(password)) != nil
	}
}

// SchemeOf names the scheme that produced digest, or "" if unrecognised.
func SchemeOf(digest string) string {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return SchemeArgon2id
	case isBcrypt(digest):
		return SchemeBcrypt
	default:
		return ""
	}
}

func (h PasswordHasher) bcryptCost() int {
	if h.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return h.BcryptCost
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

// bcryptInput keeps digests from plain bcrypt deployments verifiable: the
// password is used as-is unless a pepper is set or it would be truncated,
// in which case an HMAC of it is hashed instead.
func (h PasswordHasher) bcryptInput(password string) []byte {
	if h.Pepper == "" && len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	mac := hmac.New(sha256.New, []byte(h.Pepper))
	mac.Write([]byte(password))
	return []byte(base64.RawStdEncoding.EncodeToString(mac.Sum(nil)))
}

func (h PasswordHasher) hashArgon2id(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password+h.Pepper), salt, iterations, memory, parallelism, keyLength)

	// $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

// parseArgon2id splits $argon2id$v=19$m=X,t=Y,p=Z$salt$hash. Parameters that
// argon2.IDKey would reject are reported as ErrMalformedHash.
func parseArgon2id(digest string) (argon2Params, error) {
	var p argon2Params

	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, parts[2])
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, fmt.Errorf("%w: parameters: %w", ErrMalformedHash, err)
	}
	if p.iterations == 0 || p.parallelism == 0 || p.memory < 8*uint32(p.parallelism) {
		return p, fmt.Errorf("%w: parameters out of range %q", ErrMalformedHash, parts[3])
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return p, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}
	p.key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(p.key) == 0 {
		return p, fmt.Errorf("%w: hash", ErrMalformedHash)
	}
	return p, nil
}

func (h PasswordHasher) verifyArgon2id(password, digest string) error {
	p, err := parseArgon2id(digest)
	if err != nil {
		return err
	}

	got := argon2.IDKey(
		[]byte(password+h.Pepper),
		p.salt,
		p.iterations,
		p.memory,
		p.parallelism,
		uint32(len(p.key)), // #nosec G115 - digest length is bounded by what we wrote
	)
	if subtle.ConstantTimeCompare(got, p.key) != 1 {
		return ErrMismatch
	}
	return nil
}
