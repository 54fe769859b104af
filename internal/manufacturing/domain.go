package manufacturing

// Run is one recorded manufacturing run, grouping the products assembled
// on a given date.
type Run struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Note string `json:"note"`
}

// Line is one assembled product within a run, joined with the product name
// for display.
type Line struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int64  `json:"qty"`
}

// LineInput is one product chosen for a new run.
type LineInput struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Qty       int64 `json:"qty" validate:"gt=0"`
}

// RecordInput captures a run submission.
type RecordInput struct {
	Date  string      `json:"date" validate:"required"`
	Note  string      `json:"note"`
	Lines []LineInput `json:"lines" validate:"min=1,dive"`
}

// UpdateInput edits a run header.
type UpdateInput struct {
	Date string `json:"date" validate:"required"`
	Note string `json:"note"`
}
