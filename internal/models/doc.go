// Package models defines the core domain records of the speech tracker.
//
// # Records
//
//   - User: an account that owns children
//   - Child: a toddler whose milestones are tracked
//   - Word, Phrase, Song, Letter: milestone records, each owned by one Child
//
// # Relationships
//
// Parents are referenced by ID fields (UserID on Child, ChildID on the
// milestone records) instead of pointers. Stores look records up by those
// IDs; there is no object graph to traverse.
//
// # Nullability
//
// Free-text columns are *string. A nil field means "no value" and is stored
// as NULL. Update semantics depend on this distinction (see the service
// package), so do not collapse nil and "" when copying records around.
//
// # Natural keys
//
// Within one child, the primary text of each milestone kind (Word.Word,
// Phrase.Phrase, Song.SongTitle, Letter.Letters) identifies the record for
// spreadsheet imports. This is enforced by the sync logic, not by the schema.
package models
