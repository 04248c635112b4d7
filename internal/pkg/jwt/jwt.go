package jwt

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/shandysiswandi/goaccount/internal/pkg/valueobject"
)

// ClaimExpiresAt holds the absolute expiry instant of a token in RFC 3339 form.
const ClaimExpiresAt = "exp_time_token"

// DefaultTTL is used when neither the config nor the caller supplies a TTL.
const DefaultTTL = 30 * time.Minute

// MinSecretLength is the shortest accepted HMAC secret, in bytes.
const MinSecretLength = 32

// generatedSecretBytes is the entropy of a per-process secret (hex encoded to 50 chars).
const generatedSecretBytes = 25

var (
	// ErrInvalidToken is returned when the token is malformed, tampered or expired.
	ErrInvalidToken = errors.New("invalid token")

	// ErrSecretTooShort is returned when an injected secret is shorter than MinSecretLength.
	ErrSecretTooShort = errors.New("jwt: signing secret must be at least 32 bytes")
)

// reservedClaims are set by the codec and never returned to callers.
var reservedClaims = []string{ClaimExpiresAt, "exp", "iat", "jti"}

// Codec issues and decodes signed claim tokens.
type Codec interface {
	// Issue signs claims with an expiry ttl from now. A non-positive ttl uses the default.
	Issue(claims valueobject.JSONMap, ttl time.Duration) (string, error)
	// Decode verifies token and returns the caller claims.
	Decode(token string) (valueobject.JSONMap, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config defines the inputs for building a Codec.
type Config struct {
	// Secret is the HMAC signing key. Empty means generate one for this process.
	Secret []byte
	// TTL is the default token lifetime.
	TTL time.Duration
	// Clock provides the current time source.
	Clock clocker
	// UUID generates token IDs.
	UUID generator
}

// GenerateSecret returns a random hex secret suitable for a single process lifetime.
func GenerateSecret() ([]byte, error) {
	buf := make([]byte, generatedSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	out := make([]byte, hex.EncodedLen(len(buf)))
	hex.Encode(out, buf)
	return out, nil
}
