package event

// AccountRegisteredSubject is published after a new account is stored.
const AccountRegisteredSubject string = "account.registered"

// AccountRegistered carries no credentials or tokens.
type AccountRegistered struct {
	AccountID    int64  `json:"account_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}
