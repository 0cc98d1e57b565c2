package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/speechtracker/internal/metrics"
	"github.com/mmynk/speechtracker/internal/models"
	"github.com/mmynk/speechtracker/internal/sheets"
	"github.com/mmynk/speechtracker/internal/storage/sqlite"
	"github.com/mmynk/speechtracker/pkg/logging"
)

// fakeSheets serves canned rows per tab and counts reads.
type fakeSheets struct {
	tabs    map[string][][]interface{}
	failOn  string
	reads   int
	infoErr error
}

func (f *fakeSheets) Values(_ context.Context, sheet string) ([][]interface{}, error) {
	f.reads++
	if sheet == f.failOn {
		return nil, errors.New("quota exceeded")
	}
	return f.tabs[sheet], nil
}

func (f *fakeSheets) Info(context.Context) (*sheets.Info, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return &sheets.Info{Title: "Tracker", Sheets: sheets.Tabs}, nil
}

func header(n int) []interface{} {
	return make([]interface{}, n)
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{tabs: map[string][][]interface{}{
		sheets.SheetWords: {
			header(8),
			{"apple", "yes", "2024-01-01", "no", "", "a-pul"},
			{"", "yes"},
			{"ball", "1"},
		},
		sheets.SheetPhrases: {
			header(6),
			{"more milk", "2024-01-01", "3", "5"},
		},
		sheets.SheetSongs: {
			header(4),
			{"Twinkle", "", "grandma"},
		},
		sheets.SheetLetters: {
			header(5),
			{"A", "yes"},
			{"   "},
		},
	}}
}

// flakyWords fails the nth CreateWord call and defers everything else to
// the real store.
type flakyWords struct {
	*sqlite.SQLiteStore
	failAt int
	calls  int
}

func (f *flakyWords) CreateWord(ctx context.Context, w *models.Word) error {
	f.calls++
	if f.calls == f.failAt {
		return errors.New("disk full")
	}
	return f.SQLiteStore.CreateWord(ctx, w)
}

func setupSync(t *testing.T, source SheetSource) (*testServices, *SyncService) {
	t.Helper()
	ts := setupServices(t)
	svc := NewSyncService(source, ts.store, ts.store, metrics.New(), logging.Discard())
	return ts, svc
}

func TestSyncService_FetchAndSave(t *testing.T) {
	source := newFakeSheets()
	ts, svc := setupSync(t, source)
	ctx := context.Background()
	user := createUser(t, ts, "alice")
	child := createChild(t, ts, user.ID, "Mia")

	result, err := svc.FetchAndSave(ctx, child.ID)
	if err != nil {
		t.Fatalf("FetchAndSave failed: %v", err)
	}

	if len(result.Words) != 2 || len(result.Phrases) != 1 || len(result.Songs) != 1 || len(result.Letters) != 1 {
		t.Fatalf("Unexpected counts: %v", result.Counts())
	}
	if got := result.Stats[sheets.SheetWords]; got.Inserted != 2 || got.Skipped != 1 {
		t.Errorf("Words stats: %+v", got)
	}
	if got := result.Stats[sheets.SheetLetters]; got.Inserted != 1 || got.Skipped != 1 {
		t.Errorf("Letters stats: %+v", got)
	}

	words, _ := ts.store.ListWordsByChild(ctx, child.ID)
	if len(words) != 2 {
		t.Fatalf("Expected 2 stored words, got %d", len(words))
	}
	apple, _ := ts.store.FindWord(ctx, child.ID, "apple")
	if apple == nil || !apple.Signed || apple.Verbal {
		t.Errorf("Unexpected apple: %+v", apple)
	}
	if models.StringValue(apple.ActualPronunciation) != "a-pul" {
		t.Errorf("Pronunciation: got %v", apple.ActualPronunciation)
	}
	if models.StringValue(apple.SignedDate) != "2024-01-01" {
		t.Errorf("SignedDate: got %v", apple.SignedDate)
	}
}

func TestSyncService_UpdatesExistingByKey(t *testing.T) {
	source := newFakeSheets()
	ts, svc := setupSync(t, source)
	ctx := context.Background()
	user := createUser(t, ts, "alice")
	child := createChild(t, ts, user.ID, "Mia")

	existing, err := ts.records.AddWord(ctx, child.ID, user.ID, &models.Word{
		Word:  models.StringPtr("apple"),
		Notes: models.StringPtr("typed by hand"),
	})
	if err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}

	result, err := svc.FetchAndSave(ctx, child.ID)
	if err != nil {
		t.Fatalf("FetchAndSave failed: %v", err)
	}
	if got := result.Stats[sheets.SheetWords]; got.Updated != 1 || got.Inserted != 1 {
		t.Errorf("Words stats: %+v", got)
	}

	apple, _ := ts.store.GetWord(ctx, existing.ID)
	if !apple.Signed {
		t.Error("Expected signed to be taken from the sheet")
	}
	if apple.Notes != nil {
		t.Errorf("Expected notes overwritten by the empty sheet cell, got %q", *apple.Notes)
	}
	if result.Words[0].ID != existing.ID {
		t.Errorf("Expected result to carry existing ID %d, got %d", existing.ID, result.Words[0].ID)
	}
}

func TestSyncService_Idempotent(t *testing.T) {
	source := newFakeSheets()
	ts, svc := setupSync(t, source)
	ctx := context.Background()
	user := createUser(t, ts, "alice")
	child := createChild(t, ts, user.ID, "Mia")

	if _, err := svc.FetchAndSave(ctx, child.ID); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	second, err := svc.FetchAndSave(ctx, child.ID)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	for sheet, stats := range second.Stats {
		if stats.Inserted != 0 {
			t.Errorf("%s: expected no inserts on resync, got %d", sheet, stats.Inserted)
		}
	}
	words, _ := ts.store.ListWordsByChild(ctx, child.ID)
	phrases, _ := ts.store.ListPhrasesByChild(ctx, child.ID)
	if len(words) != 2 || len(phrases) != 1 {
		t.Errorf("Expected stable counts, got %d words %d phrases", len(words), len(phrases))
	}
}

func TestSyncService_KeysAreCaseSensitive(t *testing.T) {
	source := newFakeSheets()
	ts, svc := setupSync(t, source)
	ctx := context.Background()
	user := createUser(t, ts, "alice")
	child := createChild(t, ts, user.ID, "Mia")

	if _, err := ts.records.AddWord(ctx, child.ID, user.ID, &models.Word{Word: models.StringPtr("Apple")}); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}
	if _, err := svc.FetchAndSave(ctx, child.ID); err != nil {
		t.Fatalf("FetchAndSave failed: %v", err)
	}

	words, _ := ts.store.ListWordsByChild(ctx, child.ID)
	if len(words) != 3 {
		t.Errorf("Expected Apple and apple to be distinct, got %d words", len(words))
	}
}

func TestSyncService_Fetch(t *testing.T) {
	source := newFakeSheets()
	ts, svc := setupSync(t, source)
	ctx := context.Background()
	user := createUser(t, ts, "alice")
	child := createChild(t, ts, user.ID, "Mia")

	result, err := svc.Fetch(ctx, child.ID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	// Fetch returns every parsed row, blank keys included.
	if len(result.Words) != 3 || len(result.Letters) != 2 {
		t.Errorf("Unexpected counts: %v", result.Counts())
	}
	if result.Stats != nil {
		t.Errorf("Expected no stats for a fetch, got %v", result.Stats)
	}

	words, _ := ts.store.ListWordsByChild(ctx, child.ID)
	if len(words) != 0 {
		t.Errorf("Fetch must not persist, found %d words", len(words))
	}
}

func TestSyncService_MissingChild(t *testing.T) {
	source := newFakeSheets()
	_, svc := setupSync(t, source)

	_, err := svc.FetchAndSave(context.Background(), 4242)
	assertKind(t, err, models.ErrNotFound)
	if err.Error() != "Child not found with id: 4242" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
	if source.reads != 0 {
		t.Errorf("Expected no sheet reads for a missing child, got %d", source.reads)
	}
}

func TestSyncService_FetchFailureSavesNothing(t *testing.T) {
	source := newFakeSheets()
	source.failOn = sheets.SheetLetters
	ts, svc := setupSync(t, source)
	ctx := context.Background()
	user := createUser(t, ts, "alice")
	child := createChild(t, ts, user.ID, "Mia")

	if _, err := svc.FetchAndSave(ctx, child.ID); err == nil {
		t.Fatal("Expected error when a tab cannot be read")
	}

	words, _ := ts.store.ListWordsByChild(ctx, child.ID)
	phrases, _ := ts.store.ListPhrasesByChild(ctx, child.ID)
	if len(words)+len(phrases) != 0 {
		t.Errorf("Expected nothing saved, got %d words %d phrases", len(words), len(phrases))
	}
}

func TestSyncService_NotConfigured(t *testing.T) {
	ts, svc := setupSync(t, nil)
	ctx := context.Background()
	user := createUser(t, ts, "alice")
	child := createChild(t, ts, user.ID, "Mia")

	if _, err := svc.FetchAndSave(ctx, child.ID); !errors.Is(err, ErrSheetsUnavailable) {
		t.Errorf("Expected ErrSheetsUnavailable, got %v", err)
	}
	if _, err := svc.TestConnection(ctx); !errors.Is(err, ErrSheetsUnavailable) {
		t.Errorf("Expected ErrSheetsUnavailable, got %v", err)
	}
}

func TestSyncService_TestConnection(t *testing.T) {
	_, svc := setupSync(t, newFakeSheets())

	info, err := svc.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("TestConnection failed: %v", err)
	}
	if info.Title != "Tracker" || len(info.Sheets) != 4 {
		t.Errorf("Unexpected info: %+v", info)
	}
}

func TestSyncService_StoreFailureAbortsRemainingRows(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	user := createUser(t, ts, "alice")
	child := createChild(t, ts, user.ID, "Mia")
	svc := NewSyncService(newFakeSheets(), ts.store, &flakyWords{SQLiteStore: ts.store, failAt: 2}, nil, logging.Discard())

	result, err := svc.FetchAndSave(ctx, child.ID)
	if err == nil {
		t.Fatal("Expected FetchAndSave to fail")
	}
	if result != nil {
		t.Errorf("Expected no result, got %+v", result)
	}

	// Rows written before the failure stay; later rows and tabs are skipped.
	words, _ := ts.store.ListWordsByChild(ctx, child.ID)
	if len(words) != 1 || models.StringValue(words[0].Word) != "apple" {
		t.Errorf("Expected only apple to be stored, got %d words", len(words))
	}
	phrases, _ := ts.store.ListPhrasesByChild(ctx, child.ID)
	if len(phrases) != 0 {
		t.Errorf("Expected no phrases, got %d", len(phrases))
	}
}
