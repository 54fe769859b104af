// Package sales records sales and their derived economics. A sale freezes
// each product's cost and price the moment it is created; stock is taken
// immediately and fulfillment later flips only the status.
package sales

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stockbook/stockbook/internal/costing"
	"github.com/stockbook/stockbook/internal/shared"
)

type Service struct {
	repo               Repository
	logger             *slog.Logger
	allowNegativeStock bool
}

func NewService(repo Repository, logger *slog.Logger, allowNegativeStock bool) *Service {
	return &Service{repo: repo, logger: logger, allowNegativeStock: allowNegativeStock}
}

func (s *Service) List(ctx context.Context) ([]ListItem, error) {
	return s.repo.List(ctx)
}

func (s *Service) Details(ctx context.Context, id int64) (Details, error) {
	sale, err := s.repo.Get(ctx, id)
	if err != nil {
		return Details{}, err
	}
	lines, err := s.repo.Lines(ctx, id)
	if err != nil {
		return Details{}, err
	}
	return Details{Sale: sale, Lines: lines}, nil
}

// Create records a sale in one transaction: product snapshots are read
// under lock, the economics are derived, the header and lines are inserted
// with the snapshots frozen in, and product stock is decremented. The sale
// lands as a draft.
func (s *Service) Create(ctx context.Context, input CreateInput) (int64, error) {
	if strings.TrimSpace(input.Date) == "" {
		return 0, fmt.Errorf("%w: sale date required", shared.ErrInvalidInput)
	}
	if input.ClientID == 0 {
		return 0, fmt.Errorf("%w: client required", shared.ErrInvalidInput)
	}
	if len(input.Lines) == 0 {
		return 0, fmt.Errorf("%w: at least one product required", shared.ErrInvalidInput)
	}
	for _, l := range input.Lines {
		if l.Qty <= 0 {
			return 0, fmt.Errorf("%w: line quantity must be positive", shared.ErrInvalidInput)
		}
	}

	var saleID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		lines := make([]costing.SaleLine, 0, len(input.Lines))
		for _, l := range input.Lines {
			snap, err := tx.ProductSnapshot(ctx, l.ProductID)
			if err != nil {
				return err
			}
			lines = append(lines, costing.SaleLine{
				ProductID: l.ProductID,
				Qty:       l.Qty,
				Cost:      snap.Cost,
				MSRP:      snap.MSRP,
			})
		}

		var repPct int64
		hasRep := input.RepID != nil
		if hasRep {
			pct, err := tx.RepPercentage(ctx, *input.RepID)
			if err != nil {
				return err
			}
			repPct = pct
		}

		totals := costing.SaleEconomics(lines, repPct, hasRep)

		id, err := tx.InsertSale(ctx, Sale{
			Date:     input.Date,
			ClientID: input.ClientID,
			RepID:    input.RepID,
			Status:   StatusDraft,
			Total:    totals.Total,
			Cost:     totals.Cost,
			Net:      totals.Net,
			Shipping: totals.Shipping,
			RepCut:   totals.RepCut,
			Discount: input.Discount,
			Note:     input.Note,
		})
		if err != nil {
			return err
		}
		saleID = id

		for _, l := range lines {
			if err := tx.InsertLine(ctx, id, l.ProductID, l.Qty, l.Cost, l.MSRP); err != nil {
				return err
			}
			units, err := tx.AddProductUnits(ctx, l.ProductID, -l.Qty)
			if err != nil {
				return err
			}
			if units < 0 {
				if !s.allowNegativeStock {
					return fmt.Errorf("%w: product %d stock would drop to %d", shared.ErrConflict, l.ProductID, units)
				}
				s.logger.Warn("product stock went negative",
					slog.Int64("product_id", l.ProductID),
					slog.Int64("units", units))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("sale recorded",
		slog.Int64("sale_id", saleID),
		slog.Int("lines", len(input.Lines)))
	return saleID, nil
}

// Fulfill marks a sale completed. No numbers move; fulfilling an already
// completed sale is a no-op.
func (s *Service) Fulfill(ctx context.Context, id int64) error {
	if err := s.repo.UpdateStatus(ctx, id, StatusCompleted); err != nil {
		return err
	}
	s.logger.Info("sale fulfilled", slog.Int64("sale_id", id))
	return nil
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) error {
	if strings.TrimSpace(input.Date) == "" {
		return fmt.Errorf("%w: sale date required", shared.ErrInvalidInput)
	}
	if input.ClientID == 0 {
		return fmt.Errorf("%w: client required", shared.ErrInvalidInput)
	}
	return s.repo.UpdateHeader(ctx, id, input)
}

// Delete removes a sale and its lines. Stock taken at creation stays
// taken; a sale entered in error is corrected by a compensating entry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
