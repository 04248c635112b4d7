package jwt

import (
	"errors"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
	"github.com/shandysiswandi/goaccount/internal/pkg/clock"
	"github.com/shandysiswandi/goaccount/internal/pkg/valueobject"
)

// HS256 implements Codec using an HMAC-SHA256 secret.
type HS256 struct {
	secret []byte
	ttl    time.Duration
	clock  clocker
	uuid   generator
	parser *libJWT.Parser
}

// NewHS256 constructs an HS256 codec.
//
// An empty secret is replaced by a random one, so tokens issued by this
// instance stop decoding once the process restarts.
func NewHS256(cfg Config) (*HS256, error) {
	secret := cfg.Secret
	if len(secret) == 0 {
		generated, err := GenerateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
	}

	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &HS256{
		secret: secret,
		ttl:    ttl,
		clock:  clk,
		uuid:   cfg.UUID,
		parser: libJWT.NewParser(
			libJWT.WithValidMethods([]string{libJWT.SigningMethodHS256.Alg()}),
			libJWT.WithTimeFunc(clk.Now),
			libJWT.WithExpirationRequired(),
		),
	}, nil
}

// Issue signs claims and returns the compact token.
func (s *HS256) Issue(claims valueobject.JSONMap, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := s.clock.Now()
	expiresAt := now.Add(ttl)

	payload := claims.Without(reservedClaims...)
	payload.Set(ClaimExpiresAt, expiresAt.UTC().Format(time.RFC3339Nano))
	payload.Set("iat", libJWT.NewNumericDate(now))
	payload.Set("exp", libJWT.NewNumericDate(expiresAt))
	if s.uuid != nil {
		payload.Set("jti", s.uuid.Generate())
	}

	return libJWT.
		NewWithClaims(libJWT.SigningMethodHS256, libJWT.MapClaims(payload)).
		SignedString(s.secret)
}

// Decode verifies the signature and expiry of token and returns its claims.
//
// The returned error is always a *DecodeError.
func (s *HS256) Decode(token string) (valueobject.JSONMap, error) {
	claims := libJWT.MapClaims{}

	_, err := s.parser.ParseWithClaims(token, claims, func(*libJWT.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	out := valueobject.JSONMap(claims)

	expiresAt, ok := out.GetTime(ClaimExpiresAt)
	if !ok {
		return nil, newDecodeError(KindMalformed, errors.New("missing " + ClaimExpiresAt))
	}

	if !s.clock.Now().Before(expiresAt) {
		return nil, newDecodeError(KindExpired, nil)
	}

	return out.Without(reservedClaims...), nil
}

func classify(err error) *DecodeError {
	switch {
	case errors.Is(err, libJWT.ErrTokenExpired):
		return newDecodeError(KindExpired, err)
	case errors.Is(err, libJWT.ErrTokenSignatureInvalid),
		errors.Is(err, libJWT.ErrTokenUnverifiable):
		return newDecodeError(KindBadSignature, err)
	default:
		return newDecodeError(KindMalformed, err)
	}
}
