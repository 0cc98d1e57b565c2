package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/speechtracker/internal/models"
)

const letterColumns = `id, child_id, letters, recognized, recognized_date,
	sound_it_out, sound_it_out_date, created_at, updated_at`

func scanLetter(row scanner) (*models.Letter, error) {
	l := &models.Letter{}
	err := row.Scan(
		&l.ID, &l.ChildID, &l.Letters,
		&l.Recognized, &l.RecognizedDate,
		&l.SoundItOut, &l.SoundItOutDate,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// CreateLetter inserts a letter and sets its ID and timestamps.
func (s *SQLiteStore) CreateLetter(ctx context.Context, l *models.Letter) error {
	l.CreatedAt = now()
	l.UpdatedAt = l.CreatedAt

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO letters (child_id, letters, recognized, recognized_date,
			sound_it_out, sound_it_out_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ChildID, l.Letters, l.Recognized, l.RecognizedDate,
		l.SoundItOut, l.SoundItOutDate, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert letter: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read letter id: %w", err)
	}
	l.ID = id
	return nil
}

// GetLetter retrieves a letter by ID.
func (s *SQLiteStore) GetLetter(ctx context.Context, id int64) (*models.Letter, error) {
	l, err := scanLetter(s.db.QueryRowContext(ctx,
		"SELECT "+letterColumns+" FROM letters WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get letter: %w", err)
	}
	return l, nil
}

// FindLetter retrieves the first letter record of a child with exactly the given letters.
func (s *SQLiteStore) FindLetter(ctx context.Context, childID int64, letters string) (*models.Letter, error) {
	l, err := scanLetter(s.db.QueryRowContext(ctx,
		"SELECT "+letterColumns+" FROM letters WHERE child_id = ? AND letters = ? ORDER BY id LIMIT 1",
		childID, letters))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find letter: %w", err)
	}
	return l, nil
}

// ListLettersByChild retrieves all letters of a child in insertion order.
func (s *SQLiteStore) ListLettersByChild(ctx context.Context, childID int64) ([]*models.Letter, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+letterColumns+" FROM letters WHERE child_id = ? ORDER BY id", childID)
	if err != nil {
		return nil, fmt.Errorf("failed to list letters: %w", err)
	}
	defer rows.Close()

	letters := []*models.Letter{}
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan letter: %w", err)
		}
		letters = append(letters, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate letters: %w", err)
	}
	return letters, nil
}

// UpdateLetter overwrites every mutable column of an existing letter.
func (s *SQLiteStore) UpdateLetter(ctx context.Context, l *models.Letter) error {
	l.UpdatedAt = now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE letters SET letters = ?, recognized = ?, recognized_date = ?,
			sound_it_out = ?, sound_it_out_date = ?, updated_at = ?
		 WHERE id = ?`,
		l.Letters, l.Recognized, l.RecognizedDate,
		l.SoundItOut, l.SoundItOutDate, l.UpdatedAt, l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update letter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("letter not found: %d", l.ID)
	}
	return nil
}

// DeleteLetter removes a letter by ID.
func (s *SQLiteStore) DeleteLetter(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM letters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete letter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("letter not found: %d", id)
	}
	return nil
}
