package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/speechtracker/internal/models"
)

// memoryUsers is a minimal in-memory UserStorage.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	users  []*models.User
}

func (m *memoryUsers) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	m.users = append(m.users, user)
	return nil
}

func (m *memoryUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// memorySessions is a minimal in-memory storage.SessionStore.
type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]*models.Session)}
}

func (m *memorySessions) CreateSession(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memorySessions) GetSession(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id], nil
}

func (m *memorySessions) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memorySessions) DeleteUserSessions(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func newTestAuthenticator() *PasswordAuthenticator {
	return NewPasswordAuthenticator(&memoryUsers{}).WithCost(bcrypt.MinCost)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"blank username", "  ", "a@b.c", "secret1", ErrUsernameRequired},
		{"short password", "alice", "a@b.c", "12345", ErrWeakPassword},
		{"email without at", "alice", "alice.example.com", "secret1", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAuthenticator()
			_, err := a.Register(ctx, tt.username, tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestRegister_Duplicates(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()

	user, err := a.Register(ctx, "alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "secret1" || user.PasswordHash == "" {
		t.Error("expected password to be hashed")
	}

	if _, err := a.Register(ctx, "alice", "other@example.com", "secret1"); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}
	if _, err := a.Register(ctx, "alice2", "alice@example.com", "secret1"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()
	if _, err := a.Register(ctx, "bob", "bob@example.com", "hunter22"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := a.Authenticate(ctx, "bob", "hunter22"); err != nil {
		t.Errorf("expected success, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "bob", "wrong"); !errors.Is(err, models.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated for wrong password, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "nobody", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestSessionManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemorySessions()
	manager := NewSessionManager(store, NewTokenManager("test-secret", time.Hour))
	user := &models.User{ID: 7, Username: "carol"}

	token, session, err := manager.Create(ctx, user)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if token == "" || session.ID == "" {
		t.Fatal("expected token and session ID")
	}

	resolved, err := manager.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.UserID != 7 || resolved.Username != "carol" {
		t.Errorf("unexpected session: %+v", resolved)
	}

	if err := manager.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if _, err := manager.Resolve(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken after logout, got %v", err)
	}
}

func TestSessionManager_DestroyAll(t *testing.T) {
	ctx := context.Background()
	store := newMemorySessions()
	manager := NewSessionManager(store, NewTokenManager("test-secret", time.Hour))

	phone, _, err := manager.Create(ctx, &models.User{ID: 3, Username: "erin"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	laptop, _, err := manager.Create(ctx, &models.User{ID: 3, Username: "erin"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	other, _, err := manager.Create(ctx, &models.User{ID: 4, Username: "frank"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := manager.DestroyAll(ctx, 3); err != nil {
		t.Fatalf("DestroyAll failed: %v", err)
	}
	for _, token := range []string{phone, laptop} {
		if _, err := manager.Resolve(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken after DestroyAll, got %v", err)
		}
	}
	if _, err := manager.Resolve(ctx, other); err != nil {
		t.Errorf("expected other user's session to survive, got %v", err)
	}
}

func TestSessionManager_RejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	store := newMemorySessions()
	manager := NewSessionManager(store, NewTokenManager("secret-a", time.Hour))
	other := NewSessionManager(store, NewTokenManager("secret-b", time.Hour))

	token, _, err := other.Create(ctx, &models.User{ID: 1, Username: "dave"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := manager.Resolve(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for token signed with another secret, got %v", err)
	}
	if _, err := manager.Resolve(ctx, ""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	tokens := NewTokenManager("secret", time.Minute)
	token, err := tokens.Generate("sid", 1, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := tokens.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
