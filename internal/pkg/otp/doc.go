// Package otp generates and validates time-based one-time passwords (TOTP).
//
// The engine is pure: it never stores secrets. A caller that needs to verify a
// code later must keep the secret itself, for example inside a signed token.
package otp
