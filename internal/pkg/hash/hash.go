package hash

// Hash is a one-way hasher for secrets such as passwords.
type Hash interface {
	// Hash returns the encoded digest of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the encoded digest.
	Verify(hashed, plaintext string) bool
}
