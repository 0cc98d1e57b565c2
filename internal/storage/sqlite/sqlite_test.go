package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/speechtracker/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "speechtracker-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUserAndChild(t *testing.T, store *SQLiteStore, username string) (*models.User, *models.Child) {
	t.Helper()
	ctx := context.Background()

	user := models.NewUser(username, username+"@example.com", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	child := &models.Child{UserID: user.ID, Name: "Kid of " + username}
	if err := store.CreateChild(ctx, child); err != nil {
		t.Fatalf("CreateChild failed: %v", err)
	}
	return user, child
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser assigns ID and timestamps", func(t *testing.T) {
		user := models.NewUser("alice", "alice@example.com", "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == 0 {
			t.Error("Expected user ID to be assigned")
		}
		if user.CreatedAt == 0 || user.UpdatedAt == 0 {
			t.Error("Expected timestamps to be set")
		}

		byName, err := store.GetUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if byName == nil || byName.ID != user.ID {
			t.Errorf("GetUserByUsername: got %+v, want ID %d", byName, user.ID)
		}

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail == nil || byEmail.Username != "alice" {
			t.Errorf("GetUserByEmail: got %+v", byEmail)
		}
	})

	t.Run("CreateUser rejects duplicate username", func(t *testing.T) {
		dup := models.NewUser("alice", "other@example.com", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error for duplicate username, got nil")
		}
	})

	t.Run("missing records return nil without error", func(t *testing.T) {
		user, err := store.GetUserByID(ctx, 9999)
		if err != nil || user != nil {
			t.Errorf("GetUserByID: got (%v, %v), want (nil, nil)", user, err)
		}
		child, err := store.GetChild(ctx, 9999)
		if err != nil || child != nil {
			t.Errorf("GetChild: got (%v, %v), want (nil, nil)", child, err)
		}
		word, err := store.GetWord(ctx, 9999)
		if err != nil || word != nil {
			t.Errorf("GetWord: got (%v, %v), want (nil, nil)", word, err)
		}
	})

	t.Run("child round trip", func(t *testing.T) {
		user, child := seedUserAndChild(t, store, "bob")
		child.BirthDate = models.StringPtr("2023-04-05")
		if err := store.UpdateChild(ctx, child); err != nil {
			t.Fatalf("UpdateChild failed: %v", err)
		}

		got, err := store.GetChild(ctx, child.ID)
		if err != nil {
			t.Fatalf("GetChild failed: %v", err)
		}
		if got.UserID != user.ID {
			t.Errorf("UserID mismatch: got %d, want %d", got.UserID, user.ID)
		}
		if models.StringValue(got.BirthDate) != "2023-04-05" {
			t.Errorf("BirthDate mismatch: got %v", got.BirthDate)
		}

		children, err := store.ListChildrenByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListChildrenByUser failed: %v", err)
		}
		if len(children) != 1 {
			t.Errorf("Expected 1 child, got %d", len(children))
		}
	})

	t.Run("word nullable columns survive round trip", func(t *testing.T) {
		_, child := seedUserAndChild(t, store, "carol")

		word := &models.Word{
			ChildID:             child.ID,
			Word:                models.StringPtr("apple"),
			Signed:              true,
			SignedDate:          models.StringPtr("2024-01-01"),
			ActualPronunciation: models.StringPtr("a-pul"),
		}
		if err := store.CreateWord(ctx, word); err != nil {
			t.Fatalf("CreateWord failed: %v", err)
		}

		got, err := store.GetWord(ctx, word.ID)
		if err != nil {
			t.Fatalf("GetWord failed: %v", err)
		}
		if !got.Signed || got.Verbal {
			t.Errorf("Booleans mismatch: signed=%v verbal=%v", got.Signed, got.Verbal)
		}
		if got.Notes != nil {
			t.Errorf("Expected nil notes, got %q", *got.Notes)
		}
		if models.StringValue(got.ActualPronunciation) != "a-pul" {
			t.Errorf("Pronunciation mismatch: got %v", got.ActualPronunciation)
		}
	})

	t.Run("FindWord is case sensitive and scoped by child", func(t *testing.T) {
		_, child := seedUserAndChild(t, store, "dave")
		_, other := seedUserAndChild(t, store, "erin")

		word := &models.Word{ChildID: child.ID, Word: models.StringPtr("Ball")}
		if err := store.CreateWord(ctx, word); err != nil {
			t.Fatalf("CreateWord failed: %v", err)
		}

		found, err := store.FindWord(ctx, child.ID, "Ball")
		if err != nil {
			t.Fatalf("FindWord failed: %v", err)
		}
		if found == nil || found.ID != word.ID {
			t.Errorf("Expected to find word %d, got %+v", word.ID, found)
		}

		if found, _ := store.FindWord(ctx, child.ID, "ball"); found != nil {
			t.Error("Expected case-sensitive miss for 'ball'")
		}
		if found, _ := store.FindWord(ctx, other.ID, "Ball"); found != nil {
			t.Error("Expected miss for another child")
		}
	})

	t.Run("DeleteChild cascades to records", func(t *testing.T) {
		_, child := seedUserAndChild(t, store, "frank")

		if err := store.CreateWord(ctx, &models.Word{ChildID: child.ID, Word: models.StringPtr("dog")}); err != nil {
			t.Fatalf("CreateWord failed: %v", err)
		}
		if err := store.CreatePhrase(ctx, &models.Phrase{ChildID: child.ID, Phrase: models.StringPtr("more milk")}); err != nil {
			t.Fatalf("CreatePhrase failed: %v", err)
		}
		if err := store.CreateSong(ctx, &models.Song{ChildID: child.ID, SongTitle: models.StringPtr("Twinkle")}); err != nil {
			t.Fatalf("CreateSong failed: %v", err)
		}
		if err := store.CreateLetter(ctx, &models.Letter{ChildID: child.ID, Letters: models.StringPtr("A")}); err != nil {
			t.Fatalf("CreateLetter failed: %v", err)
		}

		if err := store.DeleteChild(ctx, child.ID); err != nil {
			t.Fatalf("DeleteChild failed: %v", err)
		}

		words, _ := store.ListWordsByChild(ctx, child.ID)
		phrases, _ := store.ListPhrasesByChild(ctx, child.ID)
		songs, _ := store.ListSongsByChild(ctx, child.ID)
		letters, _ := store.ListLettersByChild(ctx, child.ID)
		if len(words)+len(phrases)+len(songs)+len(letters) != 0 {
			t.Errorf("Expected no records left, got %d/%d/%d/%d",
				len(words), len(phrases), len(songs), len(letters))
		}
	})

	t.Run("DeleteUser cascades to children and sessions", func(t *testing.T) {
		user, child := seedUserAndChild(t, store, "grace")
		if err := store.CreateSong(ctx, &models.Song{ChildID: child.ID, SongTitle: models.StringPtr("Wheels")}); err != nil {
			t.Fatalf("CreateSong failed: %v", err)
		}
		session := &models.Session{ID: "s-grace", UserID: user.ID, Username: user.Username,
			CreatedAt: time.Now().Unix(), ExpiresAt: time.Now().Add(time.Hour).Unix()}
		if err := store.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		if err := store.DeleteUser(ctx, user.ID); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}

		if got, _ := store.GetChild(ctx, child.ID); got != nil {
			t.Error("Expected child to be deleted")
		}
		if got, _ := store.GetSession(ctx, "s-grace"); got != nil {
			t.Error("Expected session to be deleted")
		}
		if songs, _ := store.ListSongsByChild(ctx, child.ID); len(songs) != 0 {
			t.Errorf("Expected songs to be deleted, got %d", len(songs))
		}
	})

	t.Run("DeleteUserSessions leaves other users alone", func(t *testing.T) {
		ivan, _ := seedUserAndChild(t, store, "ivan")
		judy, _ := seedUserAndChild(t, store, "judy")
		expires := time.Now().Add(time.Hour).Unix()
		for _, s := range []*models.Session{
			{ID: "s-ivan-1", UserID: ivan.ID, Username: ivan.Username, CreatedAt: time.Now().Unix(), ExpiresAt: expires},
			{ID: "s-ivan-2", UserID: ivan.ID, Username: ivan.Username, CreatedAt: time.Now().Unix(), ExpiresAt: expires},
			{ID: "s-judy", UserID: judy.ID, Username: judy.Username, CreatedAt: time.Now().Unix(), ExpiresAt: expires},
		} {
			if err := store.CreateSession(ctx, s); err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}
		}

		if err := store.DeleteUserSessions(ctx, ivan.ID); err != nil {
			t.Fatalf("DeleteUserSessions failed: %v", err)
		}

		for _, id := range []string{"s-ivan-1", "s-ivan-2"} {
			if got, _ := store.GetSession(ctx, id); got != nil {
				t.Errorf("Expected session %s to be deleted", id)
			}
		}
		if got, _ := store.GetSession(ctx, "s-judy"); got == nil {
			t.Error("Expected judy's session to survive")
		}
	})

	t.Run("expired session is reported missing", func(t *testing.T) {
		user, _ := seedUserAndChild(t, store, "heidi")
		expired := &models.Session{ID: "s-expired", UserID: user.ID, Username: user.Username,
			CreatedAt: time.Now().Add(-2 * time.Hour).Unix(), ExpiresAt: time.Now().Add(-time.Hour).Unix()}
		if err := store.CreateSession(ctx, expired); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		got, err := store.GetSession(ctx, "s-expired")
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected expired session to be nil, got %+v", got)
		}
	})

	t.Run("Update of missing record returns error", func(t *testing.T) {
		err := store.UpdateLetter(ctx, &models.Letter{ID: 424242, Letters: models.StringPtr("Z")})
		if err == nil {
			t.Error("Expected error updating nonexistent letter, got nil")
		}
	})
}
