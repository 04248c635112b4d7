package mfa

// Purpose identifies the MFA encryption purpose.
type Purpose string

// PurposeOTPSeed scopes encryption to OTP seeds.
const PurposeOTPSeed Purpose = "otp_seed"

// Scope binds encryption to a subject and purpose.
// This is used as AAD (Additional Authenticated Data) in AES-GCM.
type Scope struct {
	// Subject is the owner of the sealed value, such as a username.
	Subject string
	// Purpose is the encryption purpose.
	Purpose Purpose
}
