package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/speechtracker/internal/models"
)

const songColumns = "id, child_id, song_title, date_first_sang, source, notes, created_at, updated_at"

func scanSong(row scanner) (*models.Song, error) {
	song := &models.Song{}
	err := row.Scan(
		&song.ID, &song.ChildID, &song.SongTitle,
		&song.DateFirstSang, &song.Source, &song.Notes,
		&song.CreatedAt, &song.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return song, nil
}

// CreateSong inserts a song and sets its ID and timestamps.
func (s *SQLiteStore) CreateSong(ctx context.Context, song *models.Song) error {
	song.CreatedAt = now()
	song.UpdatedAt = song.CreatedAt

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO songs (child_id, song_title, date_first_sang, source, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		song.ChildID, song.SongTitle, song.DateFirstSang, song.Source, song.Notes,
		song.CreatedAt, song.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read song id: %w", err)
	}
	song.ID = id
	return nil
}

// GetSong retrieves a song by ID.
func (s *SQLiteStore) GetSong(ctx context.Context, id int64) (*models.Song, error) {
	song, err := scanSong(s.db.QueryRowContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return song, nil
}

// FindSong retrieves the first song of a child with exactly the given title.
func (s *SQLiteStore) FindSong(ctx context.Context, childID int64, title string) (*models.Song, error) {
	song, err := scanSong(s.db.QueryRowContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE child_id = ? AND song_title = ? ORDER BY id LIMIT 1",
		childID, title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find song: %w", err)
	}
	return song, nil
}

// ListSongsByChild retrieves all songs of a child in insertion order.
func (s *SQLiteStore) ListSongsByChild(ctx context.Context, childID int64) ([]*models.Song, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE child_id = ? ORDER BY id", childID)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	defer rows.Close()

	songs := []*models.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate songs: %w", err)
	}
	return songs, nil
}

// UpdateSong overwrites every mutable column of an existing song.
func (s *SQLiteStore) UpdateSong(ctx context.Context, song *models.Song) error {
	song.UpdatedAt = now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE songs SET song_title = ?, date_first_sang = ?, source = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		song.SongTitle, song.DateFirstSang, song.Source, song.Notes, song.UpdatedAt, song.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("song not found: %d", song.ID)
	}
	return nil
}

// DeleteSong removes a song by ID.
func (s *SQLiteStore) DeleteSong(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("song not found: %d", id)
	}
	return nil
}
