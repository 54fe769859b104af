package products

import "github.com/stockbook/stockbook/internal/money"

// Product is an assembled, sellable item. Cost is the sum of its component
// part costs times their quantities; MSRP is the retail price.
type Product struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Units int64       `json:"units"`
	Cost  money.Money `json:"cost"`
	MSRP  money.Money `json:"msrp"`
}

// Component is one row of a product's bill of materials as shown in the
// detail view, joined with the part name.
type Component struct {
	ID     int64       `json:"id"`
	PartID int64       `json:"part_id"`
	Name   string      `json:"name"`
	Qty    int64       `json:"qty"`
	Cost   money.Money `json:"cost"`
}

// ComponentInput is one chosen part line when assembling a new product.
type ComponentInput struct {
	PartID int64       `json:"part_id" validate:"required"`
	Qty    int64       `json:"qty" validate:"gt=0"`
	Cost   money.Money `json:"cost"`
}

// AssembleInput describes a product to add together with its chosen parts.
type AssembleInput struct {
	Name       string           `json:"name" validate:"required"`
	MSRP       money.Money      `json:"msrp" validate:"gte=0"`
	Components []ComponentInput `json:"components" validate:"min=1,dive"`
}

// UpdateInput carries an edit to an existing product.
type UpdateInput struct {
	Name  string      `json:"name" validate:"required"`
	Units int64       `json:"units"`
	Cost  money.Money `json:"cost"`
	MSRP  money.Money `json:"msrp"`
}
