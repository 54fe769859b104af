package reps

// Rep is a sales representative. Percentage is the whole-number commission
// cut applied to a sale's total.
type Rep struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Percentage int64  `json:"percentage"`
}

// Input captures a rep create or edit.
type Input struct {
	Name       string `json:"name" validate:"required"`
	Percentage int64  `json:"percentage" validate:"gte=0,lte=100"`
}
