// Package jwt issues and decodes signed, expiring claim tokens.
//
// Tokens are HS256 JSON Web Tokens whose payload is a free-form claims map
// plus an RFC 3339 expiry stored under ClaimExpiresAt. Decode failures are
// classified internally (see DecodeError) but always satisfy
// errors.Is(err, ErrInvalidToken), which is the only thing callers should
// branch on.
package jwt
