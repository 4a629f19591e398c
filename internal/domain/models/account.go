package models

import "time"

// Account is a signed-up user. PasswordHash is NULL for OAuth-only accounts.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	Image        *string   `db:"image" json:"image,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// HasPassword reports whether the account can sign in with credentials.
func (a Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}

// OAuthIdentity links an external provider account to a local account.
type OAuthIdentity struct {
	Provider          string    `db:"provider"`
	ProviderAccountID string    `db:"provider_account_id"`
	AccountID         string    `db:"account_id"`
	CreatedAt         time.Time `db:"created_at"`
}

// OAuthProfile is the provider-neutral shape of a signed-in external user.
type OAuthProfile struct {
	Provider          string
	ProviderAccountID string
	Email             string
	Name              string
	Image             string
}
