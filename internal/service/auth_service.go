package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/speechtracker/internal/auth"
	"github.com/mmynk/speechtracker/internal/models"
	"github.com/mmynk/speechtracker/internal/storage"
)

// AuthService handles registration, login and the session lifecycle.
type AuthService struct {
	authenticator auth.Authenticator
	sessions      *auth.SessionManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, sessions *auth.SessionManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	s.logger.Info("Register request", "username", username)

	user, err := s.authenticator.Register(ctx, username, email, password)
	if err != nil {
		s.logger.Warn("Registration failed", "username", username, "error", err)
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies the credentials and starts a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	s.logger.Info("Login request", "username", username)

	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Warn("Login failed", "username", username, "error", err)
		return nil, "", err
	}

	token, session, err := s.sessions.Create(ctx, user)
	if err != nil {
		s.logger.Error("Failed to create session", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "session_expires_at", session.ExpiresAt)
	return user, token, nil
}

// Logout ends the session named by the token. It never fails for a token
// that is already invalid.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// Authenticate resolves a session token to its session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, models.Unauthenticatedf("Not authenticated")
	}
	return session, nil
}

// CurrentUser returns the user behind an authenticated session.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.Unauthenticatedf("Not authenticated")
	}
	return user, nil
}

// DeleteAccount removes the user along with their children, records and
// sessions.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	// Sessions may live outside the user store, so revoke them explicitly.
	if err := s.sessions.DestroyAll(ctx, userID); err != nil {
		s.logger.Error("Failed to revoke sessions", "user_id", userID, "error", err)
		return err
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		s.logger.Error("Failed to delete account", "user_id", userID, "error", err)
		return err
	}
	s.logger.Info("Account deleted", "user_id", userID)
	return nil
}
