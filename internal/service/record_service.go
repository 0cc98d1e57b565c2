package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/speechtracker/internal/models"
	"github.com/mmynk/speechtracker/internal/storage"
)

// RecordService manages the words, phrases, songs and letters of a child.
//
// Every operation verifies that the child belongs to the caller. Mutations of
// an existing record additionally verify that the record belongs to the child.
//
// Updates keep the existing primary text (word, phrase, title, letters) when
// the input leaves it nil, but overwrite every other field from the input,
// nil included.
type RecordService struct {
	children *ChildService
	records  storage.RecordStore
	logger   *slog.Logger
}

// NewRecordService creates a RecordService.
func NewRecordService(children *ChildService, records storage.RecordStore, logger *slog.Logger) *RecordService {
	return &RecordService{
		children: children,
		records:  records,
		logger:   logger,
	}
}

// ========== Words ==========

func wordChild(w *models.Word) int64 { return w.ChildID }

// ListWords returns the words of a child.
func (s *RecordService) ListWords(ctx context.Context, childID, userID int64) ([]*models.Word, error) {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return nil, err
	}
	return s.records.ListWordsByChild(ctx, childID)
}

// AddWord inserts a new word for the child. Any ID in the input is ignored.
func (s *RecordService) AddWord(ctx context.Context, childID, userID int64, word *models.Word) (*models.Word, error) {
	child, err := s.children.VerifyAccess(ctx, childID, userID)
	if err != nil {
		return nil, err
	}
	if isBlank(word.Word) {
		return nil, models.Validationf("Word is required")
	}

	word.ID = 0
	word.ChildID = child.ID
	if err := s.records.CreateWord(ctx, word); err != nil {
		return nil, err
	}
	s.logger.Info("Word added", "word_id", word.ID, "child_id", childID)
	return word, nil
}

// UpdateWord overwrites an existing word from the input.
func (s *RecordService) UpdateWord(ctx context.Context, wordID, childID, userID int64, input *models.Word) (*models.Word, error) {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return nil, err
	}
	existing, err := loadOwned(ctx, "Word", wordID, childID, s.records.GetWord, wordChild)
	if err != nil {
		return nil, err
	}

	if input.Word != nil {
		existing.Word = input.Word
	}
	existing.Signed = input.Signed
	existing.SignedDate = input.SignedDate
	existing.Verbal = input.Verbal
	existing.VerbalDate = input.VerbalDate
	existing.ActualPronunciation = input.ActualPronunciation
	existing.Notes = input.Notes
	existing.LearningSource = input.LearningSource

	if err := s.records.UpdateWord(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteWord removes a word.
func (s *RecordService) DeleteWord(ctx context.Context, wordID, childID, userID int64) error {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return err
	}
	if _, err := loadOwned(ctx, "Word", wordID, childID, s.records.GetWord, wordChild); err != nil {
		return err
	}
	return s.records.DeleteWord(ctx, wordID)
}

// ========== Phrases ==========

func phraseChild(p *models.Phrase) int64 { return p.ChildID }

// ListPhrases returns the phrases of a child.
func (s *RecordService) ListPhrases(ctx context.Context, childID, userID int64) ([]*models.Phrase, error) {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return nil, err
	}
	return s.records.ListPhrasesByChild(ctx, childID)
}

// AddPhrase inserts a new phrase for the child.
func (s *RecordService) AddPhrase(ctx context.Context, childID, userID int64, phrase *models.Phrase) (*models.Phrase, error) {
	child, err := s.children.VerifyAccess(ctx, childID, userID)
	if err != nil {
		return nil, err
	}
	if isBlank(phrase.Phrase) {
		return nil, models.Validationf("Phrase is required")
	}

	phrase.ID = 0
	phrase.ChildID = child.ID
	if err := s.records.CreatePhrase(ctx, phrase); err != nil {
		return nil, err
	}
	s.logger.Info("Phrase added", "phrase_id", phrase.ID, "child_id", childID)
	return phrase, nil
}

// UpdatePhrase overwrites an existing phrase from the input.
func (s *RecordService) UpdatePhrase(ctx context.Context, phraseID, childID, userID int64, input *models.Phrase) (*models.Phrase, error) {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return nil, err
	}
	existing, err := loadOwned(ctx, "Phrase", phraseID, childID, s.records.GetPhrase, phraseChild)
	if err != nil {
		return nil, err
	}

	if input.Phrase != nil {
		existing.Phrase = input.Phrase
	}
	existing.DateSaid = input.DateSaid
	existing.FunnyRating = input.FunnyRating
	existing.CuteRating = input.CuteRating
	existing.LearningSource = input.LearningSource
	existing.Notes = input.Notes

	if err := s.records.UpdatePhrase(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeletePhrase removes a phrase.
func (s *RecordService) DeletePhrase(ctx context.Context, phraseID, childID, userID int64) error {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return err
	}
	if _, err := loadOwned(ctx, "Phrase", phraseID, childID, s.records.GetPhrase, phraseChild); err != nil {
		return err
	}
	return s.records.DeletePhrase(ctx, phraseID)
}

// ========== Songs ==========

func songChild(song *models.Song) int64 { return song.ChildID }

// ListSongs returns the songs of a child.
func (s *RecordService) ListSongs(ctx context.Context, childID, userID int64) ([]*models.Song, error) {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return nil, err
	}
	return s.records.ListSongsByChild(ctx, childID)
}

// AddSong inserts a new song for the child.
func (s *RecordService) AddSong(ctx context.Context, childID, userID int64, song *models.Song) (*models.Song, error) {
	child, err := s.children.VerifyAccess(ctx, childID, userID)
	if err != nil {
		return nil, err
	}
	if isBlank(song.SongTitle) {
		return nil, models.Validationf("Song title is required")
	}

	song.ID = 0
	song.ChildID = child.ID
	if err := s.records.CreateSong(ctx, song); err != nil {
		return nil, err
	}
	s.logger.Info("Song added", "song_id", song.ID, "child_id", childID)
	return song, nil
}

// UpdateSong overwrites an existing song from the input.
func (s *RecordService) UpdateSong(ctx context.Context, songID, childID, userID int64, input *models.Song) (*models.Song, error) {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return nil, err
	}
	existing, err := loadOwned(ctx, "Song", songID, childID, s.records.GetSong, songChild)
	if err != nil {
		return nil, err
	}

	if input.SongTitle != nil {
		existing.SongTitle = input.SongTitle
	}
	existing.DateFirstSang = input.DateFirstSang
	existing.Source = input.Source
	existing.Notes = input.Notes

	if err := s.records.UpdateSong(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteSong removes a song.
func (s *RecordService) DeleteSong(ctx context.Context, songID, childID, userID int64) error {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return err
	}
	if _, err := loadOwned(ctx, "Song", songID, childID, s.records.GetSong, songChild); err != nil {
		return err
	}
	return s.records.DeleteSong(ctx, songID)
}

// ========== Letters ==========

func letterChild(l *models.Letter) int64 { return l.ChildID }

// ListLetters returns the letters of a child.
func (s *RecordService) ListLetters(ctx context.Context, childID, userID int64) ([]*models.Letter, error) {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return nil, err
	}
	return s.records.ListLettersByChild(ctx, childID)
}

// AddLetter inserts a new letter record for the child.
func (s *RecordService) AddLetter(ctx context.Context, childID, userID int64, letter *models.Letter) (*models.Letter, error) {
	child, err := s.children.VerifyAccess(ctx, childID, userID)
	if err != nil {
		return nil, err
	}
	if isBlank(letter.Letters) {
		return nil, models.Validationf("Letters are required")
	}

	letter.ID = 0
	letter.ChildID = child.ID
	if err := s.records.CreateLetter(ctx, letter); err != nil {
		return nil, err
	}
	s.logger.Info("Letter added", "letter_id", letter.ID, "child_id", childID)
	return letter, nil
}

// UpdateLetter overwrites an existing letter record from the input.
func (s *RecordService) UpdateLetter(ctx context.Context, letterID, childID, userID int64, input *models.Letter) (*models.Letter, error) {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return nil, err
	}
	existing, err := loadOwned(ctx, "Letter", letterID, childID, s.records.GetLetter, letterChild)
	if err != nil {
		return nil, err
	}

	if input.Letters != nil {
		existing.Letters = input.Letters
	}
	existing.Recognized = input.Recognized
	existing.RecognizedDate = input.RecognizedDate
	existing.SoundItOut = input.SoundItOut
	existing.SoundItOutDate = input.SoundItOutDate

	if err := s.records.UpdateLetter(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteLetter removes a letter record.
func (s *RecordService) DeleteLetter(ctx context.Context, letterID, childID, userID int64) error {
	if _, err := s.children.VerifyAccess(ctx, childID, userID); err != nil {
		return err
	}
	if _, err := loadOwned(ctx, "Letter", letterID, childID, s.records.GetLetter, letterChild); err != nil {
		return err
	}
	return s.records.DeleteLetter(ctx, letterID)
}
