package parts

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockbook/stockbook/internal/shared"
)

// Service coordinates part catalog operations.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all parts ordered by name.
func (s *Service) List(ctx context.Context) ([]Part, error) {
	return s.repo.List(ctx)
}

// Get returns a single part.
func (s *Service) Get(ctx context.Context, id int64) (Part, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new part with an empty purchase ledger.
func (s *Service) Create(ctx context.Context, input Input) (int64, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return 0, fmt.Errorf("%w: part name required", shared.ErrInvalidInput)
	}
	return s.repo.Create(ctx, name)
}

// Rename changes a part's name; the ledger is untouched.
func (s *Service) Rename(ctx context.Context, id int64, input Input) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("%w: part name required", shared.ErrInvalidInput)
	}
	return s.repo.Rename(ctx, id, name)
}

// Delete removes a part.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
