package service

// Hasher produces and checks password digests. Compare must run in time
// independent of where the inputs differ.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) bool
}

// rehasher is implemented by hashers that can tell a digest was produced
// with outdated settings. plaintext has already verified against digest.
type rehasher interface {
	NeedsRehash(plaintext, digest string) bool
}
