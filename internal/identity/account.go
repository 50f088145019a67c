package identity

// Account is the credential record behind a Principal.
type Account struct {
	ID               string `json:"id" gorm:"primaryKey"`
	Email            string `json:"email" gorm:"uniqueIndex"`
	PasswordHash     string `json:"password_hash"`
	EmailVerified    bool   `json:"email_verified"`
	FederatedSubject string `json:"federated_subject" gorm:"index"`
	// Generation advances on every sign-out. Sessions remembered from an
	// older generation cannot be resumed.
	Generation int64 `json:"generation" gorm:"not null;default:0"`
	CreatedAt  int64 `json:"created_at" gorm:"autoCreateTime:milli"`
}

func (a Account) DocumentID() string { return a.ID }

// Principal is an authenticated identity.
type Principal struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Generation    int64  `json:"-"`
}

func (a Account) principal() *Principal {
	return &Principal{ID: a.ID, Email: a.Email, EmailVerified: a.EmailVerified, Generation: a.Generation}
}
