package purchasing

import "github.com/stockbook/stockbook/internal/money"

// Purchase is one recorded supplier purchase. Total is the sum of the
// entered line costs, frozen at record time.
type Purchase struct {
	ID    int64       `json:"id"`
	Date  string      `json:"date"`
	Total money.Money `json:"total"`
	Note  string      `json:"note"`
}

// Line is one purchased part within a purchase, joined with the part name
// for display.
type Line struct {
	ID       int64       `json:"id"`
	PartID   int64       `json:"part_id"`
	PartName string      `json:"part_name"`
	Qty      int64       `json:"qty"`
	Cost     money.Money `json:"cost"`
}

// LineInput is one part chosen for a new purchase. Cost is the total amount
// entered for the line, not a per-unit price.
type LineInput struct {
	PartID int64       `json:"part_id" validate:"required"`
	Qty    int64       `json:"qty" validate:"gt=0"`
	Cost   money.Money `json:"cost" validate:"gte=0"`
}

// RecordInput captures a purchase submission.
type RecordInput struct {
	Date  string      `json:"date" validate:"required"`
	Note  string      `json:"note"`
	Lines []LineInput `json:"lines" validate:"min=1,dive"`
}

// UpdateInput edits a purchase header. Lines are immutable once recorded;
// correcting a line means deleting and re-recording the purchase.
type UpdateInput struct {
	Date string `json:"date" validate:"required"`
	Note string `json:"note"`
}
