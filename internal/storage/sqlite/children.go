package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/speechtracker/internal/models"
)

const childColumns = "id, user_id, name, birth_date, created_at, updated_at"

func scanChild(row scanner) (*models.Child, error) {
	child := &models.Child{}
	err := row.Scan(
		&child.ID,
		&child.UserID,
		&child.Name,
		&child.BirthDate,
		&child.CreatedAt,
		&child.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return child, nil
}

// CreateChild persists a new child and sets child.ID.
func (s *SQLiteStore) CreateChild(ctx context.Context, child *models.Child) error {
	child.CreatedAt = now()
	child.UpdatedAt = child.CreatedAt

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO children (user_id, name, birth_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		child.UserID, child.Name, child.BirthDate, child.CreatedAt, child.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert child: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read child id: %w", err)
	}
	child.ID = id
	return nil
}

// GetChild retrieves a child by ID.
func (s *SQLiteStore) GetChild(ctx context.Context, id int64) (*models.Child, error) {
	child, err := scanChild(s.db.QueryRowContext(ctx,
		"SELECT "+childColumns+" FROM children WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return child, nil
}

// ListChildrenByUser retrieves all children owned by a user, oldest record first.
func (s *SQLiteStore) ListChildrenByUser(ctx context.Context, userID int64) ([]*models.Child, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+childColumns+" FROM children WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	children := []*models.Child{}
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, child)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate children: %w", err)
	}
	return children, nil
}

// UpdateChild overwrites the mutable fields of an existing child.
func (s *SQLiteStore) UpdateChild(ctx context.Context, child *models.Child) error {
	child.UpdatedAt = now()

	res, err := s.db.ExecContext(ctx,
		"UPDATE children SET name = ?, birth_date = ?, updated_at = ? WHERE id = ?",
		child.Name, child.BirthDate, child.UpdatedAt, child.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("child not found: %d", child.ID)
	}
	return nil
}

// DeleteChild removes a child and all of its records in one transaction.
func (s *SQLiteStore) DeleteChild(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteByChild(ctx, tx, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM children WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("child not found: %d", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
