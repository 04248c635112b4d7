package otp

import (
	"crypto/rand"
	"encoding/base32"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// DefaultPeriod is the length of one code window.
const DefaultPeriod uint = 300

// secretSize follows the RFC 4226 recommendation of 160 bits.
const secretSize = 20

// OTP defines the contract for TOTP operations.
type OTP interface {
	// NewSecret returns a fresh random base32 secret.
	NewSecret() (string, error)
	// CurrentCode derives the code for the window containing at.
	CurrentCode(secret string, at time.Time) (string, error)
	// Verify checks whether code matches secret at the given time.
	Verify(code, secret string, at time.Time) bool
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	period uint
	skew   uint
	digits otp.Digits
}

// NewTOTP constructs a TOTP engine.
//
// A zero period falls back to DefaultPeriod. skew is the number of adjacent
// windows accepted on each side; 0 accepts only the current one. Digits other
// than 6 or 8 fall back to 6.
func NewTOTP(period, skew uint, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if period == 0 {
		period = DefaultPeriod
	}

	return &TOTP{
		period: period,
		skew:   skew,
		digits: digits,
	}
}

// NewSecret returns a random, unpadded base32 secret.
func (o *TOTP) NewSecret() (string, error) {
	buf := make([]byte, secretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// CurrentCode creates a TOTP code for the given secret and time.
func (o *TOTP) CurrentCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, o.opts())
}

// Verify checks whether a code is valid at the given time.
func (o *TOTP) Verify(code, secret string, at time.Time) bool {
	if len(code) != o.digits.Length() || !isDigits(code) {
		return false
	}

	ok, err := totp.ValidateCustom(code, secret, at, o.opts())
	return ok && err == nil
}

func (o *TOTP) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
