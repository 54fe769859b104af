// Package clients manages the customer directory.
package clients

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

func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input Input) (int64, error) {
	if err := normalize(&input); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, input)
}

func (s *Service) Update(ctx context.Context, id int64, input Input) error {
	if err := normalize(&input); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, input)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func normalize(input *Input) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: client name required", shared.ErrInvalidInput)
	}
	input.Address = strings.TrimSpace(input.Address)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	return nil
}
