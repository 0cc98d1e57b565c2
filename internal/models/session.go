package models

// Session is a server-side login session.
type Session struct {
	// ID is a random UUID; it is the jti of the session token.
	ID       string
	UserID   int64
	Username string

	CreatedAt int64
	// ExpiresAt is the Unix timestamp after which the session is invalid.
	ExpiresAt int64
}
