package sheets

import (
	"fmt"
	"strings"

	"github.com/mmynk/speechtracker/internal/models"
)

// The first row of every tab is a header and is never parsed.
//
// Column order per tab:
//
//	Words:   word, signed, signedDate, verbal, verbalDate, actualPronunciation, notes, learningSource
//	Phrases: phrase, dateSaid, funnyRating, cuteRating, learningSource, notes
//	Songs:   songTitle, dateFirstSang, source, notes
//	Letters: letters, recognized, recognizedDate, soundItOut, soundItOutDate

// ParseWords converts Words rows into words for the child.
func ParseWords(rows [][]interface{}, childID int64) []*models.Word {
	out := []*models.Word{}
	for _, r := range dataRows(rows) {
		out = append(out, &models.Word{
			ChildID:             childID,
			Word:                Cell(r, 0),
			Signed:              ParseBool(Cell(r, 1)),
			SignedDate:          Cell(r, 2),
			Verbal:              ParseBool(Cell(r, 3)),
			VerbalDate:          Cell(r, 4),
			ActualPronunciation: Cell(r, 5),
			Notes:               Cell(r, 6),
			LearningSource:      Cell(r, 7),
		})
	}
	return out
}

// ParsePhrases converts Phrases rows into phrases for the child.
func ParsePhrases(rows [][]interface{}, childID int64) []*models.Phrase {
	out := []*models.Phrase{}
	for _, r := range dataRows(rows) {
		out = append(out, &models.Phrase{
			ChildID:        childID,
			Phrase:         Cell(r, 0),
			DateSaid:       Cell(r, 1),
			FunnyRating:    Cell(r, 2),
			CuteRating:     Cell(r, 3),
			LearningSource: Cell(r, 4),
			Notes:          Cell(r, 5),
		})
	}
	return out
}

// ParseSongs converts Songs rows into songs for the child.
func ParseSongs(rows [][]interface{}, childID int64) []*models.Song {
	out := []*models.Song{}
	for _, r := range dataRows(rows) {
		out = append(out, &models.Song{
			ChildID:       childID,
			SongTitle:     Cell(r, 0),
			DateFirstSang: Cell(r, 1),
			Source:        Cell(r, 2),
			Notes:         Cell(r, 3),
		})
	}
	return out
}

// ParseLetters converts Letters rows into letter records for the child.
func ParseLetters(rows [][]interface{}, childID int64) []*models.Letter {
	out := []*models.Letter{}
	for _, r := range dataRows(rows) {
		out = append(out, &models.Letter{
			ChildID:        childID,
			Letters:        Cell(r, 0),
			Recognized:     Cell(r, 1),
			RecognizedDate: Cell(r, 2),
			SoundItOut:     Cell(r, 3),
			SoundItOutDate: Cell(r, 4),
		})
	}
	return out
}

func dataRows(rows [][]interface{}) [][]interface{} {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

// Cell returns the trimmed text of column idx, or nil when the column is
// missing, empty or blank. Rows may be ragged: the API drops trailing
// empty cells.
func Cell(row []interface{}, idx int) *string {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return nil
	}
	s := strings.TrimSpace(fmt.Sprint(row[idx]))
	if s == "" {
		return nil
	}
	return &s
}

// ParseBool reads a spreadsheet checkbox-ish value. TRUE, YES, Y and 1
// (any case, surrounding whitespace ignored) are true; anything else,
// including nil, is false.
func ParseBool(value *string) bool {
	if value == nil {
		return false
	}
	switch strings.ToUpper(strings.TrimSpace(*value)) {
	case "TRUE", "YES", "Y", "1":
		return true
	default:
		return false
	}
}
