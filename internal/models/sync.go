package models

// SyncStats counts what happened to each parsed row of one sheet.
type SyncStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// SyncResult is the outcome of a spreadsheet fetch or sync.
// For a fetch, the slices hold every parsed row. For a sync, they hold only
// the records that were persisted, in sheet order.
type SyncResult struct {
	Words   []*Word   `json:"words"`
	Phrases []*Phrase `json:"phrases"`
	Songs   []*Song   `json:"songs"`
	Letters []*Letter `json:"letters"`

	// Stats is keyed by sheet name. Empty for a fetch.
	Stats map[string]SyncStats `json:"stats,omitempty"`
}

// NewSyncResult returns a SyncResult with empty, non-nil slices so the
// JSON encoding is [] rather than null.
func NewSyncResult() *SyncResult {
	return &SyncResult{
		Words:   []*Word{},
		Phrases: []*Phrase{},
		Songs:   []*Song{},
		Letters: []*Letter{},
	}
}

// Counts returns the number of records per sheet.
func (r *SyncResult) Counts() map[string]int {
	return map[string]int{
		"words":   len(r.Words),
		"phrases": len(r.Phrases),
		"songs":   len(r.Songs),
		"letters": len(r.Letters),
	}
}
