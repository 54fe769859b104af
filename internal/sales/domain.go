package sales

import "github.com/stockbook/stockbook/internal/money"

// Status is a sale's lifecycle state. A sale starts as a draft and is
// marked completed once shipped; completion never changes the numbers.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusCompleted Status = "COMPLETED"
)

// Sale is one recorded sale with its derived economics frozen at creation.
type Sale struct {
	ID       int64       `json:"id"`
	Date     string      `json:"date"`
	ClientID int64       `json:"client_id"`
	RepID    *int64      `json:"rep_id,omitempty"`
	Status   Status      `json:"status"`
	Total    money.Money `json:"total"`
	Cost     money.Money `json:"cost"`
	Net      money.Money `json:"net"`
	Shipping money.Money `json:"shipping"`
	RepCut   money.Money `json:"rep_cut"`
	Discount money.Money `json:"discount"`
	Note     string      `json:"note"`
}

// ListItem is a sale row joined with client and rep names for display.
type ListItem struct {
	Sale
	ClientName string `json:"client_name"`
	RepName    string `json:"rep_name,omitempty"`
}

// Line is one sold product with the cost and price snapshots taken when the
// sale was created. Later purchases never rewrite a recorded sale.
type Line struct {
	ID          int64       `json:"id"`
	ProductID   int64       `json:"product_id"`
	ProductName string      `json:"product_name"`
	Qty         int64       `json:"qty"`
	CostAtSale  money.Money `json:"cost_at_sale"`
	MSRPAtSale  money.Money `json:"msrp_at_sale"`
}

// LineInput is one product chosen for a new sale.
type LineInput struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Qty       int64 `json:"qty" validate:"gt=0"`
}

// CreateInput captures a sale submission. RepID is optional; a sale without
// a rep carries no commission.
type CreateInput struct {
	Date     string      `json:"date" validate:"required"`
	ClientID int64       `json:"client_id" validate:"required"`
	RepID    *int64      `json:"rep_id"`
	Discount money.Money `json:"discount" validate:"gte=0"`
	Note     string      `json:"note"`
	Lines    []LineInput `json:"lines" validate:"min=1,dive"`
}

// UpdateInput edits a sale header. Lines and derived economics are frozen;
// only the descriptive fields and the discount move.
type UpdateInput struct {
	Date     string      `json:"date" validate:"required"`
	ClientID int64       `json:"client_id" validate:"required"`
	Discount money.Money `json:"discount" validate:"gte=0"`
	Note     string      `json:"note"`
}

// Details is a sale with its lines, used by the detail view.
type Details struct {
	Sale  ListItem `json:"sale"`
	Lines []Line   `json:"lines"`
}
