// Package purchasing records supplier purchases and folds them into the
// weighted-average part ledgers. Recording a purchase also refreshes every
// bill-of-materials cost snapshot and every product cost, so the whole
// catalog reflects the new part costs the moment the purchase commits.
package purchasing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stockbook/stockbook/internal/costing"
	"github.com/stockbook/stockbook/internal/money"
	"github.com/stockbook/stockbook/internal/shared"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Purchase, error) {
	return s.repo.List(ctx)
}

func (s *Service) Lines(ctx context.Context, purchaseID int64) ([]Line, error) {
	return s.repo.Lines(ctx, purchaseID)
}

// RecordPurchase persists a purchase and all of its downstream effects in
// one transaction: the header (total = sum of entered line costs), the
// lines, the part ledger updates, the component cost snapshots, and a full
// product cost recompute.
func (s *Service) RecordPurchase(ctx context.Context, input RecordInput) (int64, error) {
	if strings.TrimSpace(input.Date) == "" {
		return 0, fmt.Errorf("%w: purchase date required", shared.ErrInvalidInput)
	}
	if len(input.Lines) == 0 {
		return 0, fmt.Errorf("%w: at least one part required", shared.ErrInvalidInput)
	}

	var total money.Money
	for _, l := range input.Lines {
		if l.Qty <= 0 {
			return 0, fmt.Errorf("%w: line quantity must be positive", shared.ErrInvalidInput)
		}
		if l.Cost < 0 {
			return 0, fmt.Errorf("%w: line cost must not be negative", shared.ErrInvalidInput)
		}
		total += l.Cost
	}

	var purchaseID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertPurchase(ctx, input.Date, input.Note, total)
		if err != nil {
			return err
		}
		purchaseID = id

		for _, l := range input.Lines {
			if err := tx.InsertLine(ctx, id, l.PartID, l.Qty, l.Cost); err != nil {
				return err
			}
			ledger, err := tx.PartLedger(ctx, l.PartID)
			if err != nil {
				return err
			}
			ledger = costing.ApplyPurchaseLine(ledger, l.Qty, l.Cost)
			if err := tx.UpdatePartLedger(ctx, l.PartID, ledger); err != nil {
				return err
			}
			if err := tx.RefreshComponentCost(ctx, l.PartID, ledger.Cost); err != nil {
				return err
			}
		}

		return recomputeProductCosts(ctx, tx)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("purchase recorded",
		slog.Int64("purchase_id", purchaseID),
		slog.Int("lines", len(input.Lines)),
		slog.Float64("total", total.Float64()))
	return purchaseID, nil
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) error {
	if strings.TrimSpace(input.Date) == "" {
		return fmt.Errorf("%w: purchase date required", shared.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, input)
}

// Delete removes a purchase header and its lines. Ledger effects are not
// reversed; a purchase entered in error is corrected by a compensating
// adjustment, not by rewinding history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func recomputeProductCosts(ctx context.Context, tx TxRepository) error {
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
}
