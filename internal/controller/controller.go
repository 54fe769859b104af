// Package controller runs the UI state machine. All state lives behind a
// single loop goroutine that reduces messages one at a time: user intents
// mutate form and selection state synchronously, while anything touching a
// service runs as an asynchronous command whose completion re-enters the
// loop. Refetch-after-mutation is the only consistency mechanism; command
// failures are logged and surfaced, never retried.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/stockbook/stockbook/internal/clients"
	"github.com/stockbook/stockbook/internal/clipboard"
	"github.com/stockbook/stockbook/internal/home"
	"github.com/stockbook/stockbook/internal/manufacturing"
	"github.com/stockbook/stockbook/internal/money"
	"github.com/stockbook/stockbook/internal/parts"
	"github.com/stockbook/stockbook/internal/products"
	"github.com/stockbook/stockbook/internal/purchasing"
	"github.com/stockbook/stockbook/internal/reps"
	"github.com/stockbook/stockbook/internal/sales"
	"github.com/stockbook/stockbook/internal/selection"
)

type PartsService interface {
	List(ctx context.Context) ([]parts.Part, error)
	Create(ctx context.Context, input parts.Input) (int64, error)
	Rename(ctx context.Context, id int64, input parts.Input) error
	Delete(ctx context.Context, id int64) error
}

type ProductsService interface {
	List(ctx context.Context) ([]products.Product, error)
	Components(ctx context.Context, productID int64) ([]products.Component, error)
	Assemble(ctx context.Context, input products.AssembleInput) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type PurchasingService interface {
	List(ctx context.Context) ([]purchasing.Purchase, error)
	Lines(ctx context.Context, purchaseID int64) ([]purchasing.Line, error)
	RecordPurchase(ctx context.Context, input purchasing.RecordInput) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type ManufacturingService interface {
	List(ctx context.Context) ([]manufacturing.Run, error)
	Lines(ctx context.Context, runID int64) ([]manufacturing.Line, error)
	RecordRun(ctx context.Context, input manufacturing.RecordInput) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type SalesService interface {
	List(ctx context.Context) ([]sales.ListItem, error)
	Details(ctx context.Context, id int64) (sales.Details, error)
	Create(ctx context.Context, input sales.CreateInput) (int64, error)
	Fulfill(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type ClientsService interface {
	List(ctx context.Context) ([]clients.Client, error)
	Get(ctx context.Context, id int64) (clients.Client, error)
	Create(ctx context.Context, input clients.Input) (int64, error)
	Update(ctx context.Context, id int64, input clients.Input) error
	Delete(ctx context.Context, id int64) error
}

type RepsService interface {
	List(ctx context.Context) ([]reps.Rep, error)
	Create(ctx context.Context, input reps.Input) (int64, error)
	Update(ctx context.Context, id int64, input reps.Input) error
	Delete(ctx context.Context, id int64) error
}

type HomeService interface {
	Dashboard(ctx context.Context) (home.Dashboard, error)
	Invalidate(ctx context.Context)
}

// Services bundles everything the controller drives.
type Services struct {
	Parts         PartsService
	Products      ProductsService
	Purchasing    PurchasingService
	Manufacturing ManufacturingService
	Sales         SalesService
	Clients       ClientsService
	Reps          RepsService
	Home          HomeService
}

type Controller struct {
	logger *slog.Logger
	svc    Services
	clip   clipboard.Sink

	msgs chan message

	mu    sync.RWMutex
	state State

	// generation stamps, one per module: bumped on every scheduled fetch,
	// checked on every completion
	gens map[Module]uint64

	purchaseBuf selection.Buffer[PartPick]
	assemblyBuf selection.Buffer[PartPick]
	runBuf      selection.Buffer[ProductPick]
	saleBuf     selection.Buffer[ProductPick]
}

func New(logger *slog.Logger, svc Services, clip clipboard.Sink) *Controller {
	return &Controller{
		logger: logger,
		svc:    svc,
		clip:   clip,
		msgs:   make(chan message, 128),
		state:  newState(),
		gens:   make(map[Module]uint64),
	}
}

// Run drives the loop until ctx is cancelled. An initial fetch of every
// module warms the state.
func (c *Controller) Run(ctx context.Context) error {
	for _, m := range []Module{
		ModuleHome, ModuleParts, ModuleProducts, ModulePurchases,
		ModuleManufactures, ModuleSales, ModuleClients, ModuleReps,
	} {
		c.scheduleFetch(ctx, m)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-c.msgs:
			c.handle(ctx, m)
		}
	}
}

// Dispatch queues an intent for the loop.
func (c *Controller) Dispatch(intent Intent) {
	c.msgs <- intentMsg{intent: intent}
}

// Snapshot returns a copy of the current state with the selection buffers
// rendered in.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

func (c *Controller) handle(ctx context.Context, m message) {
	switch msg := m.(type) {
	case intentMsg:
		c.reduce(ctx, msg.intent)
	case fetched:
		c.applyFetch(msg)
	case commandDone:
		c.applyCommand(ctx, msg)
	}
}

func (c *Controller) applyFetch(msg fetched) {
	if msg.gen != c.gens[msg.module] {
		c.logger.Debug("stale fetch dropped",
			slog.String("module", string(msg.module)),
			slog.Uint64("gen", msg.gen))
		return
	}
	if msg.err != nil {
		c.logger.Error("fetch failed",
			slog.String("module", string(msg.module)),
			slog.Any("error", msg.err))
		c.setState(func(s *State) { s.LastError = msg.err.Error() })
		return
	}
	c.setState(msg.apply)
}

func (c *Controller) applyCommand(ctx context.Context, msg commandDone) {
	if msg.err != nil {
		c.logger.Error("command failed",
			slog.String("module", string(msg.module)),
			slog.String("op", msg.op.String()),
			slog.Any("error", msg.err))
		c.setState(func(s *State) { s.LastError = msg.err.Error() })
		return
	}
	if msg.apply != nil {
		c.setState(msg.apply)
	}
	for _, m := range msg.refetch {
		c.scheduleFetch(ctx, m)
	}
}

func (c *Controller) setState(apply func(*State)) {
	c.mu.Lock()
	apply(&c.state)
	c.mu.Unlock()
}

// scheduleFetch starts an asynchronous load stamped with a fresh
// generation for the module.
func (c *Controller) scheduleFetch(ctx context.Context, module Module) {
	c.gens[module]++
	gen := c.gens[module]
	go func() {
		apply, err := c.load(ctx, module)
		c.msgs <- fetched{module: module, gen: gen, apply: apply, err: err}
	}()
}

func (c *Controller) load(ctx context.Context, module Module) (func(*State), error) {
	switch module {
	case ModuleHome:
		d, err := c.svc.Home.Dashboard(ctx)
		return func(s *State) { s.Dashboard = d }, err
	case ModuleParts:
		items, err := c.svc.Parts.List(ctx)
		return func(s *State) { s.Parts = items }, err
	case ModuleProducts:
		items, err := c.svc.Products.List(ctx)
		return func(s *State) { s.Products = items }, err
	case ModulePurchases:
		items, err := c.svc.Purchasing.List(ctx)
		return func(s *State) { s.Purchases = items }, err
	case ModuleManufactures:
		items, err := c.svc.Manufacturing.List(ctx)
		return func(s *State) { s.Manufactures = items }, err
	case ModuleSales:
		items, err := c.svc.Sales.List(ctx)
		return func(s *State) { s.Sales = items }, err
	case ModuleClients:
		items, err := c.svc.Clients.List(ctx)
		return func(s *State) { s.Clients = items }, err
	case ModuleReps:
		items, err := c.svc.Reps.List(ctx)
		return func(s *State) { s.Reps = items }, err
	}
	return nil, fmt.Errorf("unknown module %q", module)
}

// detailKey stamps detail fetches separately from list fetches, so a list
// refetch never invalidates an in-flight detail load and vice versa.
func detailKey(module Module) Module {
	return module + ":detail"
}

// scheduleDetailFetch starts an asynchronous load of the detail rows for a
// viewed target, stamped with a fresh generation.
func (c *Controller) scheduleDetailFetch(ctx context.Context, module Module, id int64) {
	key := detailKey(module)
	c.gens[key]++
	gen := c.gens[key]
	go func() {
		apply, err := c.loadDetail(ctx, module, id)
		c.msgs <- fetched{module: key, gen: gen, apply: apply, err: err}
	}()
}

func (c *Controller) loadDetail(ctx context.Context, module Module, id int64) (func(*State), error) {
	switch module {
	case ModulePurchases:
		lines, err := c.svc.Purchasing.Lines(ctx, id)
		return func(s *State) { s.PurchaseDetail = lines }, err
	case ModuleProducts:
		comps, err := c.svc.Products.Components(ctx, id)
		return func(s *State) { s.ProductDetail = comps }, err
	case ModuleManufactures:
		lines, err := c.svc.Manufacturing.Lines(ctx, id)
		return func(s *State) { s.RunDetail = lines }, err
	case ModuleSales:
		details, err := c.svc.Sales.Details(ctx, id)
		return func(s *State) { s.SaleDetail = &details }, err
	}
	return nil, fmt.Errorf("module %q has no detail view", module)
}

// schedule runs a mutation asynchronously and posts its completion.
func (c *Controller) schedule(ctx context.Context, module Module, refetch []Module, apply func(*State), fn func(context.Context) error) {
	c.scheduleResult(ctx, module, refetch, func(ctx context.Context) (func(*State), error) {
		return apply, fn(ctx)
	})
}

// scheduleResult is schedule for commands whose state mutation depends on
// what the command computed. The returned apply re-enters the loop inside
// the completion message; the command goroutine never writes state itself.
func (c *Controller) scheduleResult(ctx context.Context, module Module, refetch []Module, fn func(context.Context) (func(*State), error)) {
	op := uuid.New()
	go func() {
		apply, err := fn(ctx)
		c.msgs <- commandDone{module: module, op: op, err: err, refetch: refetch, apply: apply}
	}()
}

func (c *Controller) reduce(ctx context.Context, intent Intent) {
	switch msg := intent.(type) {
	case Navigate:
		c.setState(func(s *State) { s.Screen = msg.Screen })
		c.scheduleFetch(ctx, Module(msg.Screen))

	case OpenForm:
		c.openForm(ctx, msg)

	case CloseForm:
		c.closeForm(msg.Module)

	case SetFilter:
		c.setFilter(msg)

	case PickPart:
		c.pickPart(msg)

	case PickProduct:
		c.pickProduct(msg)

	case SubmitPurchase:
		c.submitPurchase(ctx, msg)

	case SubmitProduct:
		c.submitProduct(ctx, msg)

	case SubmitRun:
		c.submitRun(ctx, msg)

	case SubmitSale:
		c.submitSale(ctx, msg)

	case SavePart:
		c.closeForm(ModuleParts)
		c.schedule(ctx, ModuleParts, []Module{ModuleParts, ModuleHome}, nil, func(ctx context.Context) error {
			if msg.ID == 0 {
				_, err := c.svc.Parts.Create(ctx, parts.Input{Name: msg.Name})
				return err
			}
			return c.svc.Parts.Rename(ctx, msg.ID, parts.Input{Name: msg.Name})
		})

	case SaveClient:
		c.closeForm(ModuleClients)
		c.schedule(ctx, ModuleClients, []Module{ModuleClients}, nil, func(ctx context.Context) error {
			if msg.ID == 0 {
				_, err := c.svc.Clients.Create(ctx, msg.Input)
				return err
			}
			return c.svc.Clients.Update(ctx, msg.ID, msg.Input)
		})

	case SaveRep:
		c.closeForm(ModuleReps)
		c.schedule(ctx, ModuleReps, []Module{ModuleReps}, nil, func(ctx context.Context) error {
			if msg.ID == 0 {
				_, err := c.svc.Reps.Create(ctx, msg.Input)
				return err
			}
			return c.svc.Reps.Update(ctx, msg.ID, msg.Input)
		})

	case FulfillSale:
		c.schedule(ctx, ModuleSales, []Module{ModuleSales, ModuleHome}, nil, func(ctx context.Context) error {
			if err := c.svc.Sales.Fulfill(ctx, msg.ID); err != nil {
				return err
			}
			c.svc.Home.Invalidate(ctx)
			return nil
		})

	case Remove:
		c.remove(ctx, msg)

	case Refresh:
		c.scheduleFetch(ctx, msg.Module)

	case CopyClientInfo:
		c.scheduleResult(ctx, ModuleClients, nil, func(ctx context.Context) (func(*State), error) {
			client, err := c.svc.Clients.Get(ctx, msg.ID)
			if err != nil {
				return nil, err
			}
			text := clipboard.FormatClientInfo(client.Name, client.Address)
			if err := c.clip.Copy(text); err != nil {
				return nil, err
			}
			return func(s *State) { s.Clipboard = text }, nil
		})
	}
}

func (c *Controller) openForm(ctx context.Context, msg OpenForm) {
	c.setState(func(s *State) {
		s.Forms[msg.Module] = Form{Mode: msg.Mode, TargetID: msg.TargetID}
	})
	if msg.Mode == FormViewing {
		switch msg.Module {
		case ModulePurchases, ModuleProducts, ModuleManufactures, ModuleSales:
			c.scheduleDetailFetch(ctx, msg.Module, msg.TargetID)
		}
		return
	}
	if msg.Mode != FormAdding {
		return
	}
	// add forms start from the current catalog
	c.mu.RLock()
	partItems := c.state.Parts
	productItems := c.state.Products
	c.mu.RUnlock()

	switch msg.Module {
	case ModulePurchases:
		c.purchaseBuf.Load(partPicks(partItems))
		c.syncBuffers()
	case ModuleProducts:
		c.assemblyBuf.Load(partPicks(partItems))
		c.syncBuffers()
	case ModuleManufactures:
		c.runBuf.Load(productPicks(productItems))
		c.syncBuffers()
	case ModuleSales:
		c.saleBuf.Load(productPicks(productItems))
		c.syncBuffers()
	}
}

func (c *Controller) closeForm(module Module) {
	c.setState(func(s *State) {
		s.Forms[module] = Form{Mode: FormClosed}
		switch module {
		case ModulePurchases:
			s.PurchaseDetail = nil
		case ModuleProducts:
			s.ProductDetail = nil
		case ModuleManufactures:
			s.RunDetail = nil
		case ModuleSales:
			s.SaleDetail = nil
		}
	})
	switch module {
	case ModulePurchases:
		c.purchaseBuf.Reset()
	case ModuleProducts:
		c.assemblyBuf.Reset()
	case ModuleManufactures:
		c.runBuf.Reset()
	case ModuleSales:
		c.saleBuf.Reset()
	}
	c.syncBuffers()
}

func (c *Controller) setFilter(msg SetFilter) {
	switch msg.Module {
	case ModulePurchases:
		c.purchaseBuf.SetQuery(msg.Query)
	case ModuleProducts:
		c.assemblyBuf.SetQuery(msg.Query)
	case ModuleManufactures:
		c.runBuf.SetQuery(msg.Query)
	case ModuleSales:
		c.saleBuf.SetQuery(msg.Query)
	}
	c.syncBuffers()
}

func (c *Controller) pickPart(msg PickPart) {
	mutate := func(p *PartPick) {
		p.Qty = msg.Qty
		p.Cost = msg.Cost
	}
	switch msg.Target {
	case ModulePurchases:
		// a purchase line is gone only when both quantity and cost are
		// cleared; a zero-qty line with a cost still means something
		c.purchaseBuf.Apply(msg.PartID, mutate, func(p PartPick) bool {
			return p.Qty == 0 && p.Cost == ""
		})
	case ModuleProducts:
		c.assemblyBuf.Apply(msg.PartID, mutate, func(p PartPick) bool {
			return p.Qty == 0
		})
	}
	c.syncBuffers()
}

func (c *Controller) pickProduct(msg PickProduct) {
	mutate := func(p *ProductPick) { p.Qty = msg.Qty }
	remove := func(p ProductPick) bool { return p.Qty == 0 }
	switch msg.Target {
	case ModuleManufactures:
		c.runBuf.Apply(msg.ProductID, mutate, remove)
	case ModuleSales:
		c.saleBuf.Apply(msg.ProductID, mutate, remove)
	}
	c.syncBuffers()
}

func (c *Controller) submitPurchase(ctx context.Context, msg SubmitPurchase) {
	chosen := c.purchaseBuf.Chosen()
	input := purchasing.RecordInput{Date: msg.Date, Note: msg.Note}
	for _, p := range chosen {
		cost, err := parseCost(p.Cost)
		if err != nil {
			c.setState(func(s *State) {
				s.LastError = fmt.Sprintf("invalid cost for %s: %v", p.Name, err)
			})
			return
		}
		input.Lines = append(input.Lines, purchasing.LineInput{
			PartID: p.PartID, Qty: p.Qty, Cost: cost,
		})
	}
	c.closeForm(ModulePurchases)
	c.schedule(ctx, ModulePurchases,
		[]Module{ModulePurchases, ModuleParts, ModuleProducts, ModuleHome}, nil,
		func(ctx context.Context) error {
			_, err := c.svc.Purchasing.RecordPurchase(ctx, input)
			return err
		})
}

func (c *Controller) submitProduct(ctx context.Context, msg SubmitProduct) {
	chosen := c.assemblyBuf.Chosen()

	c.mu.RLock()
	costs := make(map[int64]money.Money, len(c.state.Parts))
	for _, p := range c.state.Parts {
		costs[p.ID] = p.Cost
	}
	c.mu.RUnlock()

	input := products.AssembleInput{Name: msg.Name, MSRP: msg.MSRP}
	for _, p := range chosen {
		input.Components = append(input.Components, products.ComponentInput{
			PartID: p.PartID,
			Qty:    p.Qty,
			Cost:   costs[p.PartID],
		})
	}
	c.closeForm(ModuleProducts)
	c.schedule(ctx, ModuleProducts, []Module{ModuleProducts, ModuleHome}, nil,
		func(ctx context.Context) error {
			_, err := c.svc.Products.Assemble(ctx, input)
			return err
		})
}

func (c *Controller) submitRun(ctx context.Context, msg SubmitRun) {
	chosen := c.runBuf.Chosen()
	input := manufacturing.RecordInput{Date: msg.Date, Note: msg.Note}
	for _, p := range chosen {
		input.Lines = append(input.Lines, manufacturing.LineInput{
			ProductID: p.ProductID, Qty: p.Qty,
		})
	}
	c.closeForm(ModuleManufactures)
	c.schedule(ctx, ModuleManufactures,
		[]Module{ModuleManufactures, ModuleProducts, ModuleParts, ModuleHome}, nil,
		func(ctx context.Context) error {
			_, err := c.svc.Manufacturing.RecordRun(ctx, input)
			return err
		})
}

func (c *Controller) submitSale(ctx context.Context, msg SubmitSale) {
	chosen := c.saleBuf.Chosen()
	input := sales.CreateInput{
		Date:     msg.Date,
		ClientID: msg.ClientID,
		RepID:    msg.RepID,
		Discount: msg.Discount,
		Note:     msg.Note,
	}
	for _, p := range chosen {
		input.Lines = append(input.Lines, sales.LineInput{
			ProductID: p.ProductID, Qty: p.Qty,
		})
	}
	c.closeForm(ModuleSales)
	c.schedule(ctx, ModuleSales,
		[]Module{ModuleSales, ModuleProducts, ModuleHome}, nil,
		func(ctx context.Context) error {
			_, err := c.svc.Sales.Create(ctx, input)
			if err != nil {
				return err
			}
			c.svc.Home.Invalidate(ctx)
			return nil
		})
}

func (c *Controller) remove(ctx context.Context, msg Remove) {
	refetch := []Module{msg.Module, ModuleHome}
	var fn func(context.Context) error
	switch msg.Module {
	case ModuleParts:
		fn = func(ctx context.Context) error { return c.svc.Parts.Delete(ctx, msg.ID) }
	case ModuleProducts:
		fn = func(ctx context.Context) error { return c.svc.Products.Delete(ctx, msg.ID) }
	case ModulePurchases:
		fn = func(ctx context.Context) error { return c.svc.Purchasing.Delete(ctx, msg.ID) }
	case ModuleManufactures:
		fn = func(ctx context.Context) error { return c.svc.Manufacturing.Delete(ctx, msg.ID) }
	case ModuleSales:
		fn = func(ctx context.Context) error { return c.svc.Sales.Delete(ctx, msg.ID) }
	case ModuleClients:
		fn = func(ctx context.Context) error { return c.svc.Clients.Delete(ctx, msg.ID) }
	case ModuleReps:
		fn = func(ctx context.Context) error { return c.svc.Reps.Delete(ctx, msg.ID) }
	default:
		return
	}
	c.schedule(ctx, msg.Module, refetch, nil, fn)
}

// syncBuffers mirrors the selection buffers into the published state.
func (c *Controller) syncBuffers() {
	c.setState(func(s *State) {
		s.PurchasePicks = PickView[PartPick]{
			Query:    c.purchaseBuf.Query(),
			Filtered: c.purchaseBuf.Filtered(),
			Chosen:   c.purchaseBuf.Chosen(),
		}
		s.AssemblyPicks = PickView[PartPick]{
			Query:    c.assemblyBuf.Query(),
			Filtered: c.assemblyBuf.Filtered(),
			Chosen:   c.assemblyBuf.Chosen(),
		}
		s.RunPicks = PickView[ProductPick]{
			Query:    c.runBuf.Query(),
			Filtered: c.runBuf.Filtered(),
			Chosen:   c.runBuf.Chosen(),
		}
		s.SalePicks = PickView[ProductPick]{
			Query:    c.saleBuf.Query(),
			Filtered: c.saleBuf.Filtered(),
			Chosen:   c.saleBuf.Chosen(),
		}
	})
}

func partPicks(items []parts.Part) []PartPick {
	out := make([]PartPick, 0, len(items))
	for _, p := range items {
		out = append(out, PartPick{PartID: p.ID, Name: p.Name})
	}
	return out
}

func productPicks(items []products.Product) []ProductPick {
	out := make([]ProductPick, 0, len(items))
	for _, p := range items {
		out = append(out, ProductPick{ProductID: p.ID, Name: p.Name})
	}
	return out
}

func parseCost(raw string) (money.Money, error) {
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return money.Money(f), nil
}
