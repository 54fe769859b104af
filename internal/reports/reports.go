// Package reports renders workbook exports of the ledgers.
package reports

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/stockbook/stockbook/internal/parts"
	"github.com/stockbook/stockbook/internal/sales"
)

// SaleLister supplies the sale rows for the sales report.
type SaleLister interface {
	List(ctx context.Context) ([]sales.ListItem, error)
}

// PartLister supplies the part rows for the inventory report.
type PartLister interface {
	List(ctx context.Context) ([]parts.Part, error)
}

type Service struct {
	sales SaleLister
	parts PartLister
}

func NewService(saleLister SaleLister, partLister PartLister) *Service {
	return &Service{sales: saleLister, parts: partLister}
}

var salesHeader = []string{"ID", "Date", "Client", "Rep", "Status", "Total", "Cost", "Net", "Shipping", "Rep Cut"}

// WriteSales writes the sales ledger as an xlsx workbook.
func (s *Service) WriteSales(ctx context.Context, w io.Writer) error {
	items, err := s.sales.List(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales"
	f.SetSheetName("Sheet1", sheet)
	if err := writeRow(f, sheet, 1, toAny(salesHeader)); err != nil {
		return err
	}
	for i, item := range items {
		row := []any{
			item.ID, item.Date, item.ClientName, item.RepName, string(item.Status),
			item.Total.Float64(), item.Cost.Float64(), item.Net.Float64(),
			item.Shipping.Float64(), item.RepCut.Float64(),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("reports: write workbook: %w", err)
	}
	return nil
}

var partsHeader = []string{"ID", "Name", "Units Left", "Cost", "Total Spent", "Total Units Purchased"}

// WriteInventory writes the part ledger as an xlsx workbook.
func (s *Service) WriteInventory(ctx context.Context, w io.Writer) error {
	items, err := s.parts.List(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventory"
	f.SetSheetName("Sheet1", sheet)
	if err := writeRow(f, sheet, 1, toAny(partsHeader)); err != nil {
		return err
	}
	for i, p := range items {
		row := []any{
			p.ID, p.Name, p.UnitsLeft,
			p.Cost.Float64(), p.TotalSpent.Float64(), p.TotalUnitsPurchased,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("reports: write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("reports: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("reports: set row %d: %w", row, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
