package models

// Word is a single word the child has signed and/or said.
type Word struct {
	ID      int64 `json:"wordId"`
	ChildID int64 `json:"-"`

	// Word is the natural key within the child.
	Word *string `json:"word"`

	Signed     bool    `json:"signed"`
	SignedDate *string `json:"signedDate"`
	Verbal     bool    `json:"verbal"`
	VerbalDate *string `json:"verbalDate"`

	// ActualPronunciation records how the child says the word, e.g. "a-pul".
	ActualPronunciation *string `json:"actualPronunciation"`
	Notes               *string `json:"notes"`
	LearningSource      *string `json:"learningSource"`

	CreatedAt int64 `json:"createdTimestamp"`
	UpdatedAt int64 `json:"updatedTimestamp"`
}

// Phrase is a multi-word utterance.
// Ratings are free text so the spreadsheet can hold anything from "5" to "very".
type Phrase struct {
	ID      int64 `json:"phraseId"`
	ChildID int64 `json:"-"`

	Phrase *string `json:"phrase"`

	DateSaid       *string `json:"dateSaid"`
	FunnyRating    *string `json:"funnyRating"`
	CuteRating     *string `json:"cuteRating"`
	LearningSource *string `json:"learningSource"`
	Notes          *string `json:"notes"`

	CreatedAt int64 `json:"createdTimestamp"`
	UpdatedAt int64 `json:"updatedTimestamp"`
}

// Song is a song the child sings.
type Song struct {
	ID      int64 `json:"songId"`
	ChildID int64 `json:"-"`

	SongTitle *string `json:"songTitle"`

	DateFirstSang *string `json:"dateFirstSang"`
	Source        *string `json:"source"`
	Notes         *string `json:"notes"`

	CreatedAt int64 `json:"createdTimestamp"`
	UpdatedAt int64 `json:"updatedTimestamp"`
}

// Letter tracks recognition of a letter or letter group (e.g. "A", "sh").
// Recognized and SoundItOut are free text, not booleans.
type Letter struct {
	ID      int64 `json:"letterId"`
	ChildID int64 `json:"-"`

	Letters *string `json:"letters"`

	Recognized     *string `json:"recognized"`
	RecognizedDate *string `json:"recognizedDate"`
	SoundItOut     *string `json:"soundItOut"`
	SoundItOutDate *string `json:"soundItOutDate"`

	CreatedAt int64 `json:"createdTimestamp"`
	UpdatedAt int64 `json:"updatedTimestamp"`
}

// StringValue returns the value of s, or "" when s is nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
