// Package costing implements the pure inventory-costing computations:
// weighted-average part cost, product cost aggregation, manufacturing stock
// transfer deltas, and sale economics. Nothing here performs I/O; every
// function takes value snapshots and returns new values.
package costing

import "github.com/stockbook/stockbook/internal/money"

const (
	// FreeShippingAt is the sale total at which shipping becomes free.
	// The boundary is inclusive: a total of exactly 500.00 ships free.
	FreeShippingAt = money.Money(500)
	// ShippingFlat is charged to the customer below the free threshold.
	ShippingFlat = money.Money(15)
	// ShippingExpense is the fixed internal cost of shipping a sale.
	ShippingExpense = money.Money(9)
)

// PartLedger is a snapshot of a part's cumulative purchasing history.
type PartLedger struct {
	UnitsLeft           int64
	Cost                money.Money
	TotalSpent          money.Money
	TotalUnitsPurchased int64
}

// ApplyPurchaseLine folds one purchased line into the ledger. The line cost
// is the operator-entered amount for the line, not a per-unit price scaled
// by quantity. The weighted-average cost is cumulative spend over cumulative
// units, guarded so an empty ledger keeps a zero cost.
func ApplyPurchaseLine(p PartLedger, qty int64, lineCost money.Money) PartLedger {
	p.TotalUnitsPurchased += qty
	p.TotalSpent += lineCost
	p.UnitsLeft += qty
	p.Cost = money.DivUnits(p.TotalSpent, p.TotalUnitsPurchased)
	return p
}

// ComponentLine is one part of a product's bill of materials, carrying the
// quantity per assembled unit and the cost snapshot taken from the part.
type ComponentLine struct {
	PartID int64
	Qty    int64
	Cost   money.Money
}

// ProductCost aggregates a product's assembly cost from its components.
func ProductCost(components []ComponentLine) money.Money {
	var cost money.Money
	for _, c := range components {
		cost += c.Cost.Mul(c.Qty)
	}
	return cost
}

// StockDelta describes one part-level stock adjustment produced by a
// manufacturing run.
type StockDelta struct {
	PartID int64
	Units  int64
}

// ManufactureDeltas computes the part stock consumed when qty units of a
// product are assembled. Costs never move during manufacture; only units do.
func ManufactureDeltas(components []ComponentLine, qty int64) []StockDelta {
	deltas := make([]StockDelta, 0, len(components))
	for _, c := range components {
		deltas = append(deltas, StockDelta{PartID: c.PartID, Units: -c.Qty * qty})
	}
	return deltas
}

// SaleLine is one chosen product line at the moment of sale.
type SaleLine struct {
	ProductID int64
	Qty       int64
	Cost      money.Money
	MSRP      money.Money
}

// SaleTotals carries the derived monetary fields of a sale.
type SaleTotals struct {
	Total    money.Money
	Cost     money.Money
	Net      money.Money
	Shipping money.Money
	RepCut   money.Money
	HasRep   bool
}

// SaleEconomics derives a sale's monetary fields from its lines and the
// optional rep commission percentage.
//
// Cost accumulates the per-line cost unscaled by quantity while total and
// net scale by quantity; the asymmetry is the established business rule for
// this ledger (see DESIGN.md).
func SaleEconomics(lines []SaleLine, repPct int64, hasRep bool) SaleTotals {
	var t SaleTotals
	for _, l := range lines {
		lineTotal := l.MSRP.Mul(l.Qty)
		t.Total += lineTotal
		t.Cost += l.Cost
		t.Net += lineTotal - l.Cost.Mul(l.Qty)
	}

	if t.Total >= FreeShippingAt {
		t.Shipping = 0
	} else {
		t.Shipping = ShippingFlat
	}

	if hasRep {
		t.RepCut = money.Percent(t.Total, repPct)
		t.Net -= t.RepCut
		t.HasRep = true
	}

	t.Total += t.Shipping
	t.Cost += ShippingExpense
	t.Net += t.Shipping - ShippingExpense
	return t
}
