package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/speechtracker/internal/models"
	"github.com/mmynk/speechtracker/internal/storage"
)

// ChildService manages children and owns the ownership check every
// child-scoped operation goes through.
type ChildService struct {
	users    storage.UserStore
	children storage.ChildStore
	logger   *slog.Logger
}

// NewChildService creates a ChildService.
func NewChildService(users storage.UserStore, children storage.ChildStore, logger *slog.Logger) *ChildService {
	return &ChildService{
		users:    users,
		children: children,
		logger:   logger,
	}
}

// VerifyAccess returns the child if it exists and is owned by userID.
// An unknown child is ErrNotFound; someone else's child is ErrForbidden.
func (s *ChildService) VerifyAccess(ctx context.Context, childID, userID int64) (*models.Child, error) {
	child, err := s.children.GetChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, models.NotFoundf("Child not found")
	}
	if child.UserID != userID {
		s.logger.Warn("Child access denied", "child_id", childID, "user_id", userID)
		return nil, models.Forbiddenf("Access denied: This child does not belong to you")
	}
	return child, nil
}

// List returns the children owned by the user.
func (s *ChildService) List(ctx context.Context, userID int64) ([]*models.Child, error) {
	s.logger.Info("Fetching children", "user_id", userID)
	return s.children.ListChildrenByUser(ctx, userID)
}

// Get returns one child after verifying ownership.
func (s *ChildService) Get(ctx context.Context, childID, userID int64) (*models.Child, error) {
	return s.VerifyAccess(ctx, childID, userID)
}

// Add creates a child for the user.
func (s *ChildService) Add(ctx context.Context, userID int64, name string, birthDate *string) (*models.Child, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.Validationf("Child name is required")
	}
	if err := validateBirthDate(birthDate); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NotFoundf("User not found")
	}

	child := &models.Child{
		UserID:    user.ID,
		Name:      name,
		BirthDate: birthDate,
	}
	if err := s.children.CreateChild(ctx, child); err != nil {
		return nil, err
	}

	s.logger.Info("Child added", "child_id", child.ID, "user_id", userID)
	return child, nil
}

// Update changes the name when a non-blank one is given and the birth date
// when one is given. Omitted fields keep their values.
func (s *ChildService) Update(ctx context.Context, childID, userID int64, name, birthDate *string) (*models.Child, error) {
	child, err := s.VerifyAccess(ctx, childID, userID)
	if err != nil {
		return nil, err
	}

	if name != nil && strings.TrimSpace(*name) != "" {
		child.Name = *name
	}
	if birthDate != nil {
		if err := validateBirthDate(birthDate); err != nil {
			return nil, err
		}
		child.BirthDate = birthDate
	}

	if err := s.children.UpdateChild(ctx, child); err != nil {
		return nil, err
	}

	s.logger.Info("Child updated", "child_id", child.ID)
	return child, nil
}

// Delete removes the child and all of its records.
func (s *ChildService) Delete(ctx context.Context, childID, userID int64) error {
	if _, err := s.VerifyAccess(ctx, childID, userID); err != nil {
		return err
	}
	if err := s.children.DeleteChild(ctx, childID); err != nil {
		return err
	}

	s.logger.Info("Child deleted", "child_id", childID)
	return nil
}

func validateBirthDate(birthDate *string) error {
	if birthDate == nil {
		return nil
	}
	if _, err := time.Parse(models.BirthDateLayout, *birthDate); err != nil {
		return models.Validationf("Birth date must be formatted as YYYY-MM-DD")
	}
	return nil
}

// linkageError reports a record addressed under the wrong child.
func linkageError(kind string, recordChildID, childID int64) error {
	if recordChildID != childID {
		return models.Forbiddenf("%s does not belong to this child", kind)
	}
	return nil
}

// loadOwned fetches a record by ID and checks that it belongs to childID.
func loadOwned[T any](ctx context.Context, kind string, id, childID int64,
	get func(context.Context, int64) (*T, error), childOf func(*T) int64) (*T, error) {
	record, err := get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", strings.ToLower(kind), id, err)
	}
	if record == nil {
		return nil, models.NotFoundf("%s not found", kind)
	}
	if err := linkageError(kind, childOf(record), childID); err != nil {
		return nil, err
	}
	return record, nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
