// Package manufacturing records assembly runs: finished products gain stock
// and the parts on their bills of materials lose it. Costs never move here;
// manufacturing is a pure stock transfer.
package manufacturing

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

func (s *Service) List(ctx context.Context) ([]Run, error) {
	return s.repo.List(ctx)
}

func (s *Service) Lines(ctx context.Context, runID int64) ([]Line, error) {
	return s.repo.Lines(ctx, runID)
}

// RecordRun persists a run and its stock effects in one transaction. Each
// line adds qty units of the product and consumes component qty times run
// qty units of every part on the product's bill of materials. Overdrawing a
// part either fails the run or is logged, depending on configuration.
func (s *Service) RecordRun(ctx context.Context, input RecordInput) (int64, error) {
	if strings.TrimSpace(input.Date) == "" {
		return 0, fmt.Errorf("%w: run date required", shared.ErrInvalidInput)
	}
	if len(input.Lines) == 0 {
		return 0, fmt.Errorf("%w: at least one product required", shared.ErrInvalidInput)
	}
	for _, l := range input.Lines {
		if l.Qty <= 0 {
			return 0, fmt.Errorf("%w: line quantity must be positive", shared.ErrInvalidInput)
		}
	}

	var runID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertRun(ctx, input.Date, input.Note)
		if err != nil {
			return err
		}
		runID = id

		for _, l := range input.Lines {
			if err := tx.InsertLine(ctx, id, l.ProductID, l.Qty); err != nil {
				return err
			}
			if err := tx.AddProductUnits(ctx, l.ProductID, l.Qty); err != nil {
				return err
			}
			components, err := tx.ComponentLines(ctx, l.ProductID)
			if err != nil {
				return err
			}
			for _, d := range costing.ManufactureDeltas(components, l.Qty) {
				units, err := tx.AdjustPartUnits(ctx, d.PartID, d.Units)
				if err != nil {
					return err
				}
				if units < 0 {
					if !s.allowNegativeStock {
						return fmt.Errorf("%w: part %d stock would drop to %d", shared.ErrConflict, d.PartID, units)
					}
					s.logger.Warn("part stock went negative",
						slog.Int64("part_id", d.PartID),
						slog.Int64("units_left", units))
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("manufacturing run recorded",
		slog.Int64("run_id", runID),
		slog.Int("lines", len(input.Lines)))
	return runID, nil
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) error {
	if strings.TrimSpace(input.Date) == "" {
		return fmt.Errorf("%w: run date required", shared.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, input)
}

// Delete removes a run header and its lines. Stock effects stand; a run
// entered in error is corrected by a compensating entry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
