package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockbook/stockbook/internal/costing"
	"github.com/stockbook/stockbook/internal/shared"
)

// Service coordinates product assembly and catalog maintenance.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all products.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Components returns the bill of materials for a product's detail view.
func (s *Service) Components(ctx context.Context, productID int64) ([]Component, error) {
	return s.repo.Components(ctx, productID)
}

// Assemble creates a product from its chosen parts. The initial cost is the
// sum of each part's cost snapshot times its quantity; the snapshot is
// frozen into the bill of materials and refreshed on later purchases.
func (s *Service) Assemble(ctx context.Context, input AssembleInput) (int64, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return 0, fmt.Errorf("%w: product name required", shared.ErrInvalidInput)
	}
	if len(input.Components) == 0 {
		return 0, fmt.Errorf("%w: at least one part required", shared.ErrInvalidInput)
	}

	lines := make([]costing.ComponentLine, 0, len(input.Components))
	for _, c := range input.Components {
		if c.Qty <= 0 {
			return 0, fmt.Errorf("%w: component quantity must be positive", shared.ErrInvalidInput)
		}
		lines = append(lines, costing.ComponentLine{PartID: c.PartID, Qty: c.Qty, Cost: c.Cost})
	}
	cost := costing.ProductCost(lines)

	var productID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertProduct(ctx, name, input.MSRP, cost)
		if err != nil {
			return err
		}
		productID = id
		for _, c := range input.Components {
			if err := tx.InsertComponent(ctx, id, c.PartID, c.Qty, c.Cost); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return productID, nil
}

// Update edits a product row in place.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: product name required", shared.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, input)
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// RecomputeAllCosts re-aggregates every product's cost from its current
// bill of materials in one transaction. Purchases do this inline; the
// background job runs it as a safety net.
func (s *Service) RecomputeAllCosts(ctx context.Context) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ids, err := tx.ListProductIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			lines, err := tx.ComponentLines(ctx, id)
			if err != nil {
				return err
			}
			if err := tx.UpdateProductCost(ctx, id, costing.ProductCost(lines)); err != nil {
				return err
			}
		}
		return nil
	})
}
