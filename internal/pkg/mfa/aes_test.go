package mfa

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncryptor(t *testing.T) *AESGCMEncryptor {
	t.Helper()

	keys, err := NewRandomKeyProvider()
	require.NoError(t, err)
	return NewAESGCMEncryptor(keys)
}

func TestAESGCMEncryptor_RoundTrip(t *testing.T) {
	t.Parallel()

	enc := newTestEncryptor(t)
	scope := Scope{Subject: "alice", Purpose: PurposeOTPSeed}

	ct, err := enc.Encrypt([]byte("JBSWY3DPEHPK3PXP"), scope)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(ct, []byte("JBSWY3DPEHPK3PXP")))

	plain, err := enc.Decrypt(ct, scope)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", string(plain))
}

func TestAESGCMEncryptor_ScopeBound(t *testing.T) {
	t.Parallel()

	enc := newTestEncryptor(t)

	ct, err := enc.Encrypt([]byte("seed"), Scope{Subject: "alice", Purpose: PurposeOTPSeed})
	require.NoError(t, err)

	_, err = enc.Decrypt(ct, Scope{Subject: "bob", Purpose: PurposeOTPSeed})
	assert.ErrorIs(t, err, ErrDecryptFailed)

	_, err = enc.Decrypt(ct, Scope{Subject: "alice", Purpose: "other"})
	assert.ErrorIs(t, err, ErrDecryptFailed)

	_, err = newTestEncryptor(t).Decrypt(ct, Scope{Subject: "alice", Purpose: PurposeOTPSeed})
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestAESGCMEncryptor_Errors(t *testing.T) {
	t.Parallel()

	enc := newTestEncryptor(t)
	scope := Scope{Subject: "alice", Purpose: PurposeOTPSeed}

	_, err := enc.Encrypt(nil, scope)
	assert.ErrorIs(t, err, ErrPlaintextEmpty)

	_, err = enc.Decrypt([]byte{0, 1, 2}, scope)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)

	ct, err := enc.Encrypt([]byte("seed"), scope)
	require.NoError(t, err)
	ct[1] = 9
	_, err = enc.Decrypt(ct, scope)
	assert.ErrorIs(t, err, ErrUnsupportedCiphertextVersion)

	_, err = NewAESGCMEncryptor(StaticKeyProvider{}).Encrypt([]byte("x"), scope)
	assert.ErrorIs(t, err, ErrMissingStaticKey)

	_, err = NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: []byte("short")}).Encrypt([]byte("x"), scope)
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	var nilEnc *AESGCMEncryptor
	_, err = nilEnc.Encrypt([]byte("x"), scope)
	assert.ErrorIs(t, err, ErrEncryptorNotConfigured)
}

func TestSealOpenString(t *testing.T) {
	t.Parallel()

	enc := newTestEncryptor(t)
	scope := Scope{Subject: "alice", Purpose: PurposeOTPSeed}

	sealed, err := SealString(enc, "JBSWY3DPEHPK3PXP", scope)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "JBSWY3DPEHPK3PXP")

	got, err := OpenString(enc, sealed, scope)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", got)

	_, err = OpenString(enc, "%%%", scope)
	assert.ErrorIs(t, err, ErrDecryptFailed)
}
