package models

import "time"

// Account represents a stored credential record keyed by email.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// Never expose these to the client.
	PasswordHash     string    `json:"-"`
	SecretQuestion   string    `json:"-"`
	SecretAnswerHash string    `json:"-"`
	DotaAccountID    string    `json:"-"`
	CreatedAt        time.Time `json:"-"`
}
