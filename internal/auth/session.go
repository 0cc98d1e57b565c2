package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/speechtracker/internal/models"
	"github.com/mmynk/speechtracker/internal/storage"
)

// SessionManager issues, resolves and destroys server-side sessions.
type SessionManager struct {
	store  storage.SessionStore
	tokens *TokenManager
	now    func() time.Time
}

// NewSessionManager creates a session manager backed by the given store.
func NewSessionManager(store storage.SessionStore, tokens *TokenManager) *SessionManager {
	return &SessionManager{
		store:  store,
		tokens: tokens,
		now:    time.Now,
	}
}

// Create starts a session for the user and returns its token.
func (m *SessionManager) Create(ctx context.Context, user *models.User) (string, *models.Session, error) {
	issuedAt := m.now()
	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: issuedAt.Unix(),
		ExpiresAt: issuedAt.Add(m.tokens.Duration()).Unix(),
	}

	if err := m.store.CreateSession(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := m.tokens.Generate(session.ID, user.ID, issuedAt)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// Resolve returns the live session named by the token.
// Tampered, expired or logged-out tokens yield ErrInvalidToken.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := m.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	session, err := m.store.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}
	return session, nil
}

// Destroy ends the session named by the token. Invalid tokens are ignored:
// there is nothing to log out of.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	claims, err := m.tokens.Validate(token)
	if err != nil {
		return nil
	}
	return m.store.DeleteSession(ctx, claims.ID)
}

// DestroyAll ends every session the user holds.
func (m *SessionManager) DestroyAll(ctx context.Context, userID int64) error {
	return m.store.DeleteUserSessions(ctx, userID)
}
