// Package reps manages sales representatives and their commission rates.
package reps

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockbook/stockbook/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Rep, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Rep, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input Input) (int64, error) {
	if err := validate(&input); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, input)
}

func (s *Service) Update(ctx context.Context, id int64, input Input) error {
	if err := validate(&input); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, input)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(input *Input) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: rep name required", shared.ErrInvalidInput)
	}
	if input.Percentage < 0 || input.Percentage > 100 {
		return fmt.Errorf("%w: percentage must be between 0 and 100", shared.ErrInvalidInput)
	}
	return nil
}
