package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/speechtracker/internal/models"
)

const phraseColumns = `id, child_id, phrase, date_said, funny_rating, cute_rating,
	learning_source, notes, created_at, updated_at`

func scanPhrase(row scanner) (*models.Phrase, error) {
	p := &models.Phrase{}
	err := row.Scan(
		&p.ID, &p.ChildID, &p.Phrase,
		&p.DateSaid, &p.FunnyRating, &p.CuteRating,
		&p.LearningSource, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePhrase inserts a phrase and sets its ID and timestamps.
func (s *SQLiteStore) CreatePhrase(ctx context.Context, p *models.Phrase) error {
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO phrases (child_id, phrase, date_said, funny_rating, cute_rating,
			learning_source, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ChildID, p.Phrase, p.DateSaid, p.FunnyRating, p.CuteRating,
		p.LearningSource, p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert phrase: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read phrase id: %w", err)
	}
	p.ID = id
	return nil
}

// GetPhrase retrieves a phrase by ID.
func (s *SQLiteStore) GetPhrase(ctx context.Context, id int64) (*models.Phrase, error) {
	p, err := scanPhrase(s.db.QueryRowContext(ctx,
		"SELECT "+phraseColumns+" FROM phrases WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get phrase: %w", err)
	}
	return p, nil
}

// FindPhrase retrieves the first phrase of a child with exactly the given text.
func (s *SQLiteStore) FindPhrase(ctx context.Context, childID int64, text string) (*models.Phrase, error) {
	p, err := scanPhrase(s.db.QueryRowContext(ctx,
		"SELECT "+phraseColumns+" FROM phrases WHERE child_id = ? AND phrase = ? ORDER BY id LIMIT 1",
		childID, text))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find phrase: %w", err)
	}
	return p, nil
}

// ListPhrasesByChild retrieves all phrases of a child in insertion order.
func (s *SQLiteStore) ListPhrasesByChild(ctx context.Context, childID int64) ([]*models.Phrase, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+phraseColumns+" FROM phrases WHERE child_id = ? ORDER BY id", childID)
	if err != nil {
		return nil, fmt.Errorf("failed to list phrases: %w", err)
	}
	defer rows.Close()

	phrases := []*models.Phrase{}
	for rows.Next() {
		p, err := scanPhrase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phrase: %w", err)
		}
		phrases = append(phrases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate phrases: %w", err)
	}
	return phrases, nil
}

// UpdatePhrase overwrites every mutable column of an existing phrase.
func (s *SQLiteStore) UpdatePhrase(ctx context.Context, p *models.Phrase) error {
	p.UpdatedAt = now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE phrases SET phrase = ?, date_said = ?, funny_rating = ?, cute_rating = ?,
			learning_source = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		p.Phrase, p.DateSaid, p.FunnyRating, p.CuteRating,
		p.LearningSource, p.Notes, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update phrase: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("phrase not found: %d", p.ID)
	}
	return nil
}

// DeletePhrase removes a phrase by ID.
func (s *SQLiteStore) DeletePhrase(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM phrases WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete phrase: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("phrase not found: %d", id)
	}
	return nil
}
