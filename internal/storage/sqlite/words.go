package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/speechtracker/internal/models"
)

const wordColumns = `id, child_id, word, signed, signed_date, verbal, verbal_date,
	actual_pronunciation, notes, learning_source, created_at, updated_at`

func scanWord(row scanner) (*models.Word, error) {
	w := &models.Word{}
	err := row.Scan(
		&w.ID, &w.ChildID, &w.Word,
		&w.Signed, &w.SignedDate, &w.Verbal, &w.VerbalDate,
		&w.ActualPronunciation, &w.Notes, &w.LearningSource,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// CreateWord inserts a word and sets its ID and timestamps.
func (s *SQLiteStore) CreateWord(ctx context.Context, w *models.Word) error {
	w.CreatedAt = now()
	w.UpdatedAt = w.CreatedAt

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO words (child_id, word, signed, signed_date, verbal, verbal_date,
			actual_pronunciation, notes, learning_source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ChildID, w.Word, w.Signed, w.SignedDate, w.Verbal, w.VerbalDate,
		w.ActualPronunciation, w.Notes, w.LearningSource, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert word: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read word id: %w", err)
	}
	w.ID = id
	return nil
}

// GetWord retrieves a word by ID.
func (s *SQLiteStore) GetWord(ctx context.Context, id int64) (*models.Word, error) {
	w, err := scanWord(s.db.QueryRowContext(ctx,
		"SELECT "+wordColumns+" FROM words WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return w, nil
}

// FindWord retrieves the first word of a child with exactly the given text.
func (s *SQLiteStore) FindWord(ctx context.Context, childID int64, text string) (*models.Word, error) {
	w, err := scanWord(s.db.QueryRowContext(ctx,
		"SELECT "+wordColumns+" FROM words WHERE child_id = ? AND word = ? ORDER BY id LIMIT 1",
		childID, text))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find word: %w", err)
	}
	return w, nil
}

// ListWordsByChild retrieves all words of a child in insertion order.
func (s *SQLiteStore) ListWordsByChild(ctx context.Context, childID int64) ([]*models.Word, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+wordColumns+" FROM words WHERE child_id = ? ORDER BY id", childID)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	defer rows.Close()

	words := []*models.Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate words: %w", err)
	}
	return words, nil
}

// UpdateWord overwrites every mutable column of an existing word.
// The child link and created_at are never changed.
func (s *SQLiteStore) UpdateWord(ctx context.Context, w *models.Word) error {
	w.UpdatedAt = now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE words SET word = ?, signed = ?, signed_date = ?, verbal = ?, verbal_date = ?,
			actual_pronunciation = ?, notes = ?, learning_source = ?, updated_at = ?
		 WHERE id = ?`,
		w.Word, w.Signed, w.SignedDate, w.Verbal, w.VerbalDate,
		w.ActualPronunciation, w.Notes, w.LearningSource, w.UpdatedAt, w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("word not found: %d", w.ID)
	}
	return nil
}

// DeleteWord removes a word by ID.
func (s *SQLiteStore) DeleteWord(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM words WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("word not found: %d", id)
	}
	return nil
}
