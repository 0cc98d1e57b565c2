package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is assigned by the store on creation.
	ID int64 `json:"userId"`

	// Username is unique across all accounts and used for login.
	Username string `json:"username"`

	// Email is unique across all accounts.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdTimestamp"`

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64 `json:"updatedTimestamp"`
}

// NewUser creates a new User with timestamps set to now.
// The ID is assigned when the user is persisted.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
