package controller

import (
	"github.com/stockbook/stockbook/internal/clients"
	"github.com/stockbook/stockbook/internal/home"
	"github.com/stockbook/stockbook/internal/manufacturing"
	"github.com/stockbook/stockbook/internal/parts"
	"github.com/stockbook/stockbook/internal/products"
	"github.com/stockbook/stockbook/internal/purchasing"
	"github.com/stockbook/stockbook/internal/reps"
	"github.com/stockbook/stockbook/internal/sales"
)

// Screen identifies the active view.
type Screen string

const (
	ScreenHome         Screen = "home"
	ScreenParts        Screen = "parts"
	ScreenProducts     Screen = "products"
	ScreenPurchases    Screen = "purchases"
	ScreenManufactures Screen = "manufactures"
	ScreenSales        Screen = "sales"
	ScreenClients      Screen = "clients"
	ScreenReps         Screen = "reps"
)

// Module identifies a data domain for fetches, forms, and deletions.
type Module string

const (
	ModuleHome         Module = "home"
	ModuleParts        Module = "parts"
	ModuleProducts     Module = "products"
	ModulePurchases    Module = "purchases"
	ModuleManufactures Module = "manufactures"
	ModuleSales        Module = "sales"
	ModuleClients      Module = "clients"
	ModuleReps         Module = "reps"
)

// FormMode is a form's lifecycle state. Exactly one mode holds at a time;
// a target ID only accompanies editing and viewing.
type FormMode string

const (
	FormClosed  FormMode = "closed"
	FormAdding  FormMode = "adding"
	FormEditing FormMode = "editing"
	FormViewing FormMode = "viewing"
)

// Form is a module's form state.
type Form struct {
	Mode     FormMode `json:"mode"`
	TargetID int64    `json:"target_id,omitempty"`
}

// PartPick is a part line in the purchase or assembly buffer. Cost is kept
// as entered text; it is parsed when the form is submitted.
type PartPick struct {
	PartID int64  `json:"part_id"`
	Name   string `json:"name"`
	Qty    int64  `json:"qty"`
	Cost   string `json:"cost"`
}

func (p PartPick) Key() int64    { return p.PartID }
func (p PartPick) Label() string { return p.Name }

// ProductPick is a product line in the run or sale buffer.
type ProductPick struct {
	ProductID int64 `json:"product_id"`
	Name      string `json:"name"`
	Qty       int64 `json:"qty"`
}

func (p ProductPick) Key() int64    { return p.ProductID }
func (p ProductPick) Label() string { return p.Name }

// PickView is a snapshot of a selection buffer for the UI.
type PickView[T any] struct {
	Query    string `json:"query"`
	Filtered []T    `json:"filtered"`
	Chosen   []T    `json:"chosen"`
}

// State is the full UI state. Snapshot returns a copy; only the controller
// loop writes it.
type State struct {
	Screen Screen `json:"screen"`

	Parts        []parts.Part        `json:"parts"`
	Products     []products.Product  `json:"products"`
	Purchases    []purchasing.Purchase `json:"purchases"`
	Manufactures []manufacturing.Run `json:"manufactures"`
	Sales        []sales.ListItem    `json:"sales"`
	Clients      []clients.Client    `json:"clients"`
	Reps         []reps.Rep          `json:"reps"`
	Dashboard    home.Dashboard      `json:"dashboard"`

	Forms map[Module]Form `json:"forms"`

	// detail rows for the form target currently being viewed
	PurchaseDetail []purchasing.Line    `json:"purchase_detail,omitempty"`
	ProductDetail  []products.Component `json:"product_detail,omitempty"`
	RunDetail      []manufacturing.Line `json:"run_detail,omitempty"`
	SaleDetail     *sales.Details       `json:"sale_detail,omitempty"`

	PurchasePicks PickView[PartPick]    `json:"purchase_picks"`
	AssemblyPicks PickView[PartPick]    `json:"assembly_picks"`
	RunPicks      PickView[ProductPick] `json:"run_picks"`
	SalePicks     PickView[ProductPick] `json:"sale_picks"`

	Clipboard string `json:"clipboard,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

func newState() State {
	forms := make(map[Module]Form)
	for _, m := range []Module{
		ModuleParts, ModuleProducts, ModulePurchases, ModuleManufactures,
		ModuleSales, ModuleClients, ModuleReps,
	} {
		forms[m] = Form{Mode: FormClosed}
	}
	return State{Screen: ScreenHome, Forms: forms}
}

func (s State) clone() State {
	out := s
	out.Forms = make(map[Module]Form, len(s.Forms))
	for k, v := range s.Forms {
		out.Forms[k] = v
	}
	return out
}
