package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/speechtracker/internal/metrics"
	"github.com/mmynk/speechtracker/internal/models"
	"github.com/mmynk/speechtracker/internal/sheets"
	"github.com/mmynk/speechtracker/internal/storage"
)

// SheetSource reads the tracking spreadsheet.
type SheetSource interface {
	Values(ctx context.Context, sheet string) ([][]interface{}, error)
	Info(ctx context.Context) (*sheets.Info, error)
}

// ErrSheetsUnavailable is returned when no spreadsheet is configured.
var ErrSheetsUnavailable = sheets.ErrNotConfigured

// SyncService reconciles the spreadsheet into the store.
//
// Each row is matched on its primary text within the child (exact,
// case-sensitive). A match is updated in place, everything else is inserted,
// and rows whose primary text is blank are skipped.
type SyncService struct {
	source   SheetSource
	children storage.ChildStore
	records  storage.RecordStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewSyncService creates a SyncService. source may be nil, in which case
// every operation fails with ErrSheetsUnavailable. m may be nil.
func NewSyncService(source SheetSource, children storage.ChildStore, records storage.RecordStore, m *metrics.Metrics, logger *slog.Logger) *SyncService {
	return &SyncService{
		source:   source,
		children: children,
		records:  records,
		metrics:  m,
		logger:   logger,
	}
}

// sheetRows holds the raw rows of all four tabs.
type sheetRows struct {
	words, phrases, songs, letters [][]interface{}
}

// Fetch reads and parses every tab for the child without persisting anything.
func (s *SyncService) Fetch(ctx context.Context, childID int64) (*models.SyncResult, error) {
	if _, err := s.lookupChild(ctx, childID); err != nil {
		return nil, err
	}
	rows, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	result := models.NewSyncResult()
	result.Words = sheets.ParseWords(rows.words, childID)
	result.Phrases = sheets.ParsePhrases(rows.phrases, childID)
	result.Songs = sheets.ParseSongs(rows.songs, childID)
	result.Letters = sheets.ParseLetters(rows.letters, childID)
	return result, nil
}

// FetchAndSave reads every tab and upserts the rows for the child. Tabs are
// all fetched before anything is written, so a read failure saves nothing.
// Each tab is then reconciled in order: words, phrases, songs, letters.
func (s *SyncService) FetchAndSave(ctx context.Context, childID int64) (*models.SyncResult, error) {
	result, err := s.fetchAndSave(ctx, childID)
	if err != nil {
		s.metrics.ObserveSyncRun("failure")
		return nil, err
	}
	s.metrics.ObserveSyncRun("success")
	return result, nil
}

func (s *SyncService) fetchAndSave(ctx context.Context, childID int64) (*models.SyncResult, error) {
	if _, err := s.lookupChild(ctx, childID); err != nil {
		return nil, err
	}
	rows, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	result := models.NewSyncResult()
	result.Stats = make(map[string]models.SyncStats, len(sheets.Tabs))

	result.Words, result.Stats[sheets.SheetWords], err = upsert(ctx, s, childID,
		sheets.ParseWords(rows.words, childID), upsertOps[models.Word]{
			sheet:  sheets.SheetWords,
			key:    func(w *models.Word) *string { return w.Word },
			find:   s.records.FindWord,
			create: s.records.CreateWord,
			update: s.records.UpdateWord,
			merge: func(dst, src *models.Word) {
				dst.Signed = src.Signed
				dst.SignedDate = src.SignedDate
				dst.Verbal = src.Verbal
				dst.VerbalDate = src.VerbalDate
				dst.ActualPronunciation = src.ActualPronunciation
				dst.Notes = src.Notes
				dst.LearningSource = src.LearningSource
			},
		})
	if err != nil {
		return nil, err
	}

	result.Phrases, result.Stats[sheets.SheetPhrases], err = upsert(ctx, s, childID,
		sheets.ParsePhrases(rows.phrases, childID), upsertOps[models.Phrase]{
			sheet:  sheets.SheetPhrases,
			key:    func(p *models.Phrase) *string { return p.Phrase },
			find:   s.records.FindPhrase,
			create: s.records.CreatePhrase,
			update: s.records.UpdatePhrase,
			merge: func(dst, src *models.Phrase) {
				dst.DateSaid = src.DateSaid
				dst.FunnyRating = src.FunnyRating
				dst.CuteRating = src.CuteRating
				dst.LearningSource = src.LearningSource
				dst.Notes = src.Notes
			},
		})
	if err != nil {
		return nil, err
	}

	result.Songs, result.Stats[sheets.SheetSongs], err = upsert(ctx, s, childID,
		sheets.ParseSongs(rows.songs, childID), upsertOps[models.Song]{
			sheet:  sheets.SheetSongs,
			key:    func(song *models.Song) *string { return song.SongTitle },
			find:   s.records.FindSong,
			create: s.records.CreateSong,
			update: s.records.UpdateSong,
			merge: func(dst, src *models.Song) {
				dst.DateFirstSang = src.DateFirstSang
				dst.Source = src.Source
				dst.Notes = src.Notes
			},
		})
	if err != nil {
		return nil, err
	}

	result.Letters, result.Stats[sheets.SheetLetters], err = upsert(ctx, s, childID,
		sheets.ParseLetters(rows.letters, childID), upsertOps[models.Letter]{
			sheet:  sheets.SheetLetters,
			key:    func(l *models.Letter) *string { return l.Letters },
			find:   s.records.FindLetter,
			create: s.records.CreateLetter,
			update: s.records.UpdateLetter,
			merge: func(dst, src *models.Letter) {
				dst.Recognized = src.Recognized
				dst.RecognizedDate = src.RecognizedDate
				dst.SoundItOut = src.SoundItOut
				dst.SoundItOutDate = src.SoundItOutDate
			},
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sheets sync complete", "child_id", childID,
		"words", len(result.Words), "phrases", len(result.Phrases),
		"songs", len(result.Songs), "letters", len(result.Letters))
	return result, nil
}

// TestConnection reads the spreadsheet metadata.
func (s *SyncService) TestConnection(ctx context.Context) (*sheets.Info, error) {
	if s.source == nil {
		return nil, ErrSheetsUnavailable
	}
	info, err := s.source.Info(ctx)
	if err != nil {
		return nil, err
	}
	if len(info.Missing) > 0 {
		s.logger.Warn("Spreadsheet is missing tracker tabs", "missing", info.Missing)
	}
	return info, nil
}

func (s *SyncService) lookupChild(ctx context.Context, childID int64) (*models.Child, error) {
	child, err := s.children.GetChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, models.NotFoundf("Child not found with id: %d", childID)
	}
	return child, nil
}

func (s *SyncService) fetchAll(ctx context.Context) (*sheetRows, error) {
	if s.source == nil {
		return nil, ErrSheetsUnavailable
	}

	rows := &sheetRows{}
	targets := []struct {
		sheet string
		dst   *[][]interface{}
	}{
		{sheets.SheetWords, &rows.words},
		{sheets.SheetPhrases, &rows.phrases},
		{sheets.SheetSongs, &rows.songs},
		{sheets.SheetLetters, &rows.letters},
	}
	for _, target := range targets {
		values, err := s.source.Values(ctx, target.sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", target.sheet, err)
		}
		s.logger.Info("Sheet rows fetched", "sheet", target.sheet, "rows", len(values))
		*target.dst = values
	}
	return rows, nil
}

// upsertOps binds the generic reconcile loop to one record kind.
type upsertOps[T any] struct {
	sheet  string
	key    func(*T) *string
	find   func(ctx context.Context, childID int64, key string) (*T, error)
	create func(ctx context.Context, record *T) error
	update func(ctx context.Context, record *T) error
	// merge copies every non-key field from src onto dst.
	merge func(dst, src *T)
}

func upsert[T any](ctx context.Context, s *SyncService, childID int64, parsed []*T, ops upsertOps[T]) ([]*T, models.SyncStats, error) {
	saved := []*T{}
	var stats models.SyncStats

	for i, record := range parsed {
		key := ops.key(record)
		if isBlank(key) {
			// Row numbers are 1-based and the header is row 1.
			s.logger.Warn("Skipping row with blank key", "sheet", ops.sheet, "row", i+2)
			stats.Skipped++
			continue
		}

		existing, err := ops.find(ctx, childID, *key)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to look up %s row %q: %w", ops.sheet, *key, err)
		}

		if existing != nil {
			ops.merge(existing, record)
			if err := ops.update(ctx, existing); err != nil {
				return nil, stats, fmt.Errorf("failed to update %s row %q: %w", ops.sheet, *key, err)
			}
			s.logger.Debug("Updated existing row", "sheet", ops.sheet, "key", *key, "child_id", childID)
			saved = append(saved, existing)
			stats.Updated++
			continue
		}

		if err := ops.create(ctx, record); err != nil {
			return nil, stats, fmt.Errorf("failed to insert %s row %q: %w", ops.sheet, *key, err)
		}
		s.logger.Debug("Inserted new row", "sheet", ops.sheet, "key", *key, "child_id", childID)
		saved = append(saved, record)
		stats.Inserted++
	}

	s.metrics.ObserveSyncRows(ops.sheet, metrics.ActionInserted, stats.Inserted)
	s.metrics.ObserveSyncRows(ops.sheet, metrics.ActionUpdated, stats.Updated)
	s.metrics.ObserveSyncRows(ops.sheet, metrics.ActionSkipped, stats.Skipped)
	s.logger.Info("Sheet reconciled", "sheet", ops.sheet, "child_id", childID,
		"inserted", stats.Inserted, "updated", stats.Updated, "skipped", stats.Skipped)
	return saved, stats, nil
}
