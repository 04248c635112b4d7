package event

// AccountVerifiedSubject is published when an account flips to verified.
const AccountVerifiedSubject string = "account.verified"

// AccountVerifiedConsumerNotification is the queue group of the notification module.
const AccountVerifiedConsumerNotification string = "account_verified_notification"

type AccountVerified struct {
	AccountID  int64  `json:"account_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	VerifiedAt string `json:"verified_at"`
}
