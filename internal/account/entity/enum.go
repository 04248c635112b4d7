package entity

// AuthStatus tags the outcome of a credential check.
type AuthStatus int8

const (
	AuthNotFound AuthStatus = iota
	AuthBadCredential
	AuthFound
)

func (s AuthStatus) String() string {
	switch s {
	case AuthFound:
		return "found"
	case AuthBadCredential:
		return "bad_credential"
	default:
		return "not_found"
	}
}

// AuthResult is Found(Account) | NotFound | BadCredential. Account is set only for AuthFound.
type AuthResult struct {
	Status  AuthStatus
	Account *Account
}

func AuthResultFound(acc *Account) AuthResult {
	return AuthResult{Status: AuthFound, Account: acc}
}

func AuthResultNotFound() AuthResult {
	return AuthResult{Status: AuthNotFound}
}

func AuthResultBadCredential() AuthResult {
	return AuthResult{Status: AuthBadCredential}
}

// VerifyOutcome reports what a verification confirmation did.
type VerifyOutcome string

const (
	VerifyOutcomeVerified        VerifyOutcome = "verified"
	VerifyOutcomeAlreadyVerified VerifyOutcome = "already_verified"
)
