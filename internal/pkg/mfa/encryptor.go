package mfa

import "encoding/base64"

// Encryptor defines the interface for encrypting/decrypting.
type Encryptor interface {
	// Encrypt returns ciphertext for the given plaintext and scope.
	Encrypt(plaintext []byte, scope Scope) (ciphertext []byte, err error)
	// Decrypt returns plaintext for the given ciphertext and scope.
	Decrypt(ciphertext []byte, scope Scope) (plaintext []byte, err error)
}

// KeyProvider provides raw AES keys.
// For AES-256-GCM, keys must be 32 bytes.
type KeyProvider interface {
	// Key returns the raw AES key to use for this scope.
	Key(scope Scope) ([]byte, error)
}

// SealString encrypts s and returns it as unpadded base64url, safe for token claims.
func SealString(enc Encryptor, s string, scope Scope) (string, error) {
	ct, err := enc.Encrypt([]byte(s), scope)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// OpenString reverses SealString.
func OpenString(enc Encryptor, sealed string, scope Scope) (string, error) {
	ct, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrDecryptFailed
	}

	plain, err := enc.Decrypt(ct, scope)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
