package parts

import "github.com/stockbook/stockbook/internal/money"

// Part is a purchasable raw component. Cost is the weighted-average unit
// cost: cumulative spend divided by cumulative units purchased.
type Part struct {
	ID                  int64       `json:"id"`
	Name                string      `json:"name"`
	UnitsLeft           int64       `json:"units_left"`
	Cost                money.Money `json:"cost"`
	TotalSpent          money.Money `json:"total_spent"`
	TotalUnitsPurchased int64       `json:"total_units_purchased"`
}

// Input carries the operator-entered fields of a part. Ledger fields only
// ever move through purchases and manufacturing runs.
type Input struct {
	Name string `json:"name" validate:"required"`
}
