package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/mmynk/speechtracker/internal/models"
	"github.com/mmynk/speechtracker/internal/storage/sqlite"
	"github.com/mmynk/speechtracker/pkg/logging"
)

// setupTestStore creates a SQLite store in a temp file.
func setupTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
		os.Remove(tmpFile.Name())
	})
	return store
}

type testServices struct {
	store    *sqlite.SQLiteStore
	children *ChildService
	records  *RecordService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	store := setupTestStore(t)
	logger := logging.Discard()
	children := NewChildService(store, store, logger)
	return &testServices{
		store:    store,
		children: children,
		records:  NewRecordService(children, store, logger),
	}
}

func createUser(t *testing.T, ts *testServices, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+"@example.com", "hash")
	if err := ts.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func createChild(t *testing.T, ts *testServices, userID int64, name string) *models.Child {
	t.Helper()
	child, err := ts.children.Add(context.Background(), userID, name, nil)
	if err != nil {
		t.Fatalf("Add child failed: %v", err)
	}
	return child
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("Expected %v, got %v", kind, err)
	}
}
