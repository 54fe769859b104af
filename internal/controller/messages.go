package controller

import (
	"github.com/google/uuid"

	"github.com/stockbook/stockbook/internal/clients"
	"github.com/stockbook/stockbook/internal/money"
	"github.com/stockbook/stockbook/internal/reps"
)

// Intent is a user-driven message. Intents mutate state synchronously in
// the controller loop; anything touching a service is scheduled as a
// command whose completion re-enters the loop as an internal message.
type Intent interface {
	isIntent()
}

// Navigate switches the active screen and refreshes its data.
type Navigate struct {
	Screen Screen `json:"screen"`
}

// OpenForm opens a module's form in the given mode. Opening an add form
// loads the module's selection buffer from the current catalog.
type OpenForm struct {
	Module   Module   `json:"module"`
	Mode     FormMode `json:"mode"`
	TargetID int64    `json:"target_id"`
}

// CloseForm closes a module's form and resets its selection buffer.
type CloseForm struct {
	Module Module `json:"module"`
}

// SetFilter narrows a module's selection buffer by substring match.
type SetFilter struct {
	Module Module `json:"module"`
	Query  string `json:"query"`
}

// PickPart adjusts a part line in the purchase or assembly buffer. A line
// in the purchase buffer is dropped when quantity is zero and the cost
// field is empty; the assembly buffer drops on zero quantity alone.
type PickPart struct {
	Target Module `json:"target"`
	PartID int64  `json:"part_id"`
	Qty    int64  `json:"qty"`
	Cost   string `json:"cost"`
}

// PickProduct adjusts a product line in the run or sale buffer. A zero
// quantity drops the line.
type PickProduct struct {
	Target    Module `json:"target"`
	ProductID int64  `json:"product_id"`
	Qty       int64  `json:"qty"`
}

// SubmitPurchase records the purchase form: the chosen lines are captured
// at submit time, so later buffer edits cannot race the write.
type SubmitPurchase struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

// SubmitProduct assembles a new product from the chosen parts. Component
// costs are snapshotted from the part catalog at submit time.
type SubmitProduct struct {
	Name string      `json:"name"`
	MSRP money.Money `json:"msrp"`
}

// SubmitRun records the manufacturing form.
type SubmitRun struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

// SubmitSale records the sale form.
type SubmitSale struct {
	Date     string      `json:"date"`
	ClientID int64       `json:"client_id"`
	RepID    *int64      `json:"rep_id"`
	Discount money.Money `json:"discount"`
	Note     string      `json:"note"`
}

// SavePart creates a part when ID is zero, renames it otherwise.
type SavePart struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SaveClient creates a client when ID is zero, updates it otherwise.
type SaveClient struct {
	ID    int64         `json:"id"`
	Input clients.Input `json:"input"`
}

// SaveRep creates a rep when ID is zero, updates it otherwise.
type SaveRep struct {
	ID    int64      `json:"id"`
	Input reps.Input `json:"input"`
}

// FulfillSale marks a sale completed.
type FulfillSale struct {
	ID int64 `json:"id"`
}

// Remove deletes a record from a module.
type Remove struct {
	Module Module `json:"module"`
	ID     int64  `json:"id"`
}

// Refresh refetches a module's data.
type Refresh struct {
	Module Module `json:"module"`
}

// CopyClientInfo formats a client's shipping info into the clipboard sink.
type CopyClientInfo struct {
	ID int64 `json:"id"`
}

func (Navigate) isIntent()       {}
func (OpenForm) isIntent()       {}
func (CloseForm) isIntent()      {}
func (SetFilter) isIntent()      {}
func (PickPart) isIntent()       {}
func (PickProduct) isIntent()    {}
func (SubmitPurchase) isIntent() {}
func (SubmitProduct) isIntent()  {}
func (SubmitRun) isIntent()      {}
func (SubmitSale) isIntent()     {}
func (SavePart) isIntent()       {}
func (SaveClient) isIntent()     {}
func (SaveRep) isIntent()        {}
func (FulfillSale) isIntent()    {}
func (Remove) isIntent()         {}
func (Refresh) isIntent()        {}
func (CopyClientInfo) isIntent() {}

// message is the loop's internal union: intents plus command completions.
type message interface {
	isMessage()
}

type intentMsg struct {
	intent Intent
}

// fetched carries a finished data load. The generation stamp is compared
// against the module's current one; stale loads are dropped so an older
// in-flight fetch can never overwrite newer data.
type fetched struct {
	module Module
	gen    uint64
	apply  func(*State)
	err    error
}

// commandDone reports a finished mutation. Success triggers refetches of
// the modules the mutation touched; failure is logged and surfaced on the
// state without rolling anything back locally.
type commandDone struct {
	module  Module
	op      uuid.UUID
	err     error
	refetch []Module
	apply   func(*State)
}

func (intentMsg) isMessage()   {}
func (fetched) isMessage()     {}
func (commandDone) isMessage() {}
