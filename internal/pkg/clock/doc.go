// Package clock is the time source shared by the token codec, the OTP engine,
// the resend throttle and the account workflows. Tests drive a Fake instead.
package clock
