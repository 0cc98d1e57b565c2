// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/speechtracker/internal/models"
)

// Lookups return (nil, nil) when the record does not exist. Callers decide
// whether a missing record is an error.

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts the user and sets user.ID.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// DeleteUser removes the user, its children and their records.
	DeleteUser(ctx context.Context, id int64) error
}

// ChildStore persists children.
type ChildStore interface {
	CreateChild(ctx context.Context, child *models.Child) error
	GetChild(ctx context.Context, id int64) (*models.Child, error)
	ListChildrenByUser(ctx context.Context, userID int64) ([]*models.Child, error)
	UpdateChild(ctx context.Context, child *models.Child) error
	// DeleteChild removes the child and all of its words, phrases, songs and letters.
	DeleteChild(ctx context.Context, id int64) error
}

// WordStore persists words.
type WordStore interface {
	CreateWord(ctx context.Context, word *models.Word) error
	GetWord(ctx context.Context, id int64) (*models.Word, error)
	ListWordsByChild(ctx context.Context, childID int64) ([]*models.Word, error)
	// FindWord looks a word up by its exact, case-sensitive text within a child.
	FindWord(ctx context.Context, childID int64, text string) (*models.Word, error)
	UpdateWord(ctx context.Context, word *models.Word) error
	DeleteWord(ctx context.Context, id int64) error
}

// PhraseStore persists phrases.
type PhraseStore interface {
	CreatePhrase(ctx context.Context, phrase *models.Phrase) error
	GetPhrase(ctx context.Context, id int64) (*models.Phrase, error)
	ListPhrasesByChild(ctx context.Context, childID int64) ([]*models.Phrase, error)
	FindPhrase(ctx context.Context, childID int64, text string) (*models.Phrase, error)
	UpdatePhrase(ctx context.Context, phrase *models.Phrase) error
	DeletePhrase(ctx context.Context, id int64) error
}

// SongStore persists songs.
type SongStore interface {
	CreateSong(ctx context.Context, song *models.Song) error
	GetSong(ctx context.Context, id int64) (*models.Song, error)
	ListSongsByChild(ctx context.Context, childID int64) ([]*models.Song, error)
	FindSong(ctx context.Context, childID int64, title string) (*models.Song, error)
	UpdateSong(ctx context.Context, song *models.Song) error
	DeleteSong(ctx context.Context, id int64) error
}

// LetterStore persists letters.
type LetterStore interface {
	CreateLetter(ctx context.Context, letter *models.Letter) error
	GetLetter(ctx context.Context, id int64) (*models.Letter, error)
	ListLettersByChild(ctx context.Context, childID int64) ([]*models.Letter, error)
	FindLetter(ctx context.Context, childID int64, letters string) (*models.Letter, error)
	UpdateLetter(ctx context.Context, letter *models.Letter) error
	DeleteLetter(ctx context.Context, id int64) error
}

// RecordStore groups the four milestone stores.
type RecordStore interface {
	WordStore
	PhraseStore
	SongStore
	LetterStore
}

// SessionStore persists login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	// DeleteUserSessions removes every session belonging to the user.
	DeleteUserSessions(ctx context.Context, userID int64) error
}

// Store defines every storage operation used by the services.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	UserStore
	ChildStore
	RecordStore
	SessionStore

	// Close releases any resources held by the store.
	Close() error
}
