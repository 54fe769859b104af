package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/internal/clients"
	"github.com/stockbook/stockbook/internal/clipboard"
	"github.com/stockbook/stockbook/internal/home"
	"github.com/stockbook/stockbook/internal/manufacturing"
	"github.com/stockbook/stockbook/internal/parts"
	"github.com/stockbook/stockbook/internal/products"
	"github.com/stockbook/stockbook/internal/purchasing"
	"github.com/stockbook/stockbook/internal/reps"
	"github.com/stockbook/stockbook/internal/sales"
	"github.com/stockbook/stockbook/internal/shared"
)

type fakeServices struct {
	mu sync.Mutex

	parts     []parts.Part
	products  []products.Product
	purchases []purchasing.Purchase
	runs      []manufacturing.Run
	sales     []sales.ListItem
	clients   []clients.Client
	reps      []reps.Rep
	dashboard home.Dashboard

	purchaseLines []purchasing.Line
	components    []products.Component
	runLines      []manufacturing.Line
	saleLines     []sales.Line

	recordedPurchases []purchasing.RecordInput
	fulfilled         []int64
	invalidations     int
	failRecord        error
}

func (f *fakeServices) List(ctx context.Context) ([]parts.Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]parts.Part(nil), f.parts...), nil
}

func (f *fakeServices) Create(ctx context.Context, input parts.Input) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := int64(len(f.parts) + 1)
	f.parts = append(f.parts, parts.Part{ID: id, Name: input.Name})
	return id, nil
}

func (f *fakeServices) Rename(ctx context.Context, id int64, input parts.Input) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.parts {
		if f.parts[i].ID == id {
			f.parts[i].Name = input.Name
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *fakeServices) Delete(ctx context.Context, id int64) error { return nil }

type fakeProducts struct{ f *fakeServices }

func (p fakeProducts) List(ctx context.Context) ([]products.Product, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	return append([]products.Product(nil), p.f.products...), nil
}

func (p fakeProducts) Assemble(ctx context.Context, input products.AssembleInput) (int64, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	id := int64(len(p.f.products) + 1)
	p.f.products = append(p.f.products, products.Product{ID: id, Name: input.Name, MSRP: input.MSRP})
	return id, nil
}

func (p fakeProducts) Components(ctx context.Context, productID int64) ([]products.Component, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	return append([]products.Component(nil), p.f.components...), nil
}

func (p fakeProducts) Delete(ctx context.Context, id int64) error { return nil }

type fakePurchasing struct{ f *fakeServices }

func (p fakePurchasing) List(ctx context.Context) ([]purchasing.Purchase, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	return append([]purchasing.Purchase(nil), p.f.purchases...), nil
}

func (p fakePurchasing) RecordPurchase(ctx context.Context, input purchasing.RecordInput) (int64, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if p.f.failRecord != nil {
		return 0, p.f.failRecord
	}
	p.f.recordedPurchases = append(p.f.recordedPurchases, input)
	id := int64(len(p.f.purchases) + 1)
	p.f.purchases = append(p.f.purchases, purchasing.Purchase{ID: id, Date: input.Date})
	return id, nil
}

func (p fakePurchasing) Lines(ctx context.Context, purchaseID int64) ([]purchasing.Line, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	return append([]purchasing.Line(nil), p.f.purchaseLines...), nil
}

func (p fakePurchasing) Delete(ctx context.Context, id int64) error { return nil }

type fakeManufacturing struct{ f *fakeServices }

func (m fakeManufacturing) List(ctx context.Context) ([]manufacturing.Run, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	return append([]manufacturing.Run(nil), m.f.runs...), nil
}

func (m fakeManufacturing) RecordRun(ctx context.Context, input manufacturing.RecordInput) (int64, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	id := int64(len(m.f.runs) + 1)
	m.f.runs = append(m.f.runs, manufacturing.Run{ID: id, Date: input.Date})
	return id, nil
}

func (m fakeManufacturing) Lines(ctx context.Context, runID int64) ([]manufacturing.Line, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	return append([]manufacturing.Line(nil), m.f.runLines...), nil
}

func (m fakeManufacturing) Delete(ctx context.Context, id int64) error { return nil }

type fakeSales struct{ f *fakeServices }

func (s fakeSales) List(ctx context.Context) ([]sales.ListItem, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return append([]sales.ListItem(nil), s.f.sales...), nil
}

func (s fakeSales) Create(ctx context.Context, input sales.CreateInput) (int64, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	id := int64(len(s.f.sales) + 1)
	s.f.sales = append(s.f.sales, sales.ListItem{Sale: sales.Sale{ID: id, Status: sales.StatusDraft}})
	return id, nil
}

func (s fakeSales) Fulfill(ctx context.Context, id int64) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.fulfilled = append(s.f.fulfilled, id)
	for i := range s.f.sales {
		if s.f.sales[i].ID == id {
			s.f.sales[i].Status = sales.StatusCompleted
		}
	}
	return nil
}

func (s fakeSales) Details(ctx context.Context, id int64) (sales.Details, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for _, item := range s.f.sales {
		if item.ID == id {
			return sales.Details{
				Sale:  item,
				Lines: append([]sales.Line(nil), s.f.saleLines...),
			}, nil
		}
	}
	return sales.Details{}, shared.ErrNotFound
}

func (s fakeSales) Delete(ctx context.Context, id int64) error { return nil }

type fakeClients struct{ f *fakeServices }

func (c fakeClients) List(ctx context.Context) ([]clients.Client, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	return append([]clients.Client(nil), c.f.clients...), nil
}

func (c fakeClients) Get(ctx context.Context, id int64) (clients.Client, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	for _, cl := range c.f.clients {
		if cl.ID == id {
			return cl, nil
		}
	}
	return clients.Client{}, shared.ErrNotFound
}

func (c fakeClients) Create(ctx context.Context, input clients.Input) (int64, error) { return 1, nil }
func (c fakeClients) Update(ctx context.Context, id int64, input clients.Input) error {
	return nil
}
func (c fakeClients) Delete(ctx context.Context, id int64) error { return nil }

type fakeReps struct{ f *fakeServices }

func (r fakeReps) List(ctx context.Context) ([]reps.Rep, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return append([]reps.Rep(nil), r.f.reps...), nil
}

func (r fakeReps) Create(ctx context.Context, input reps.Input) (int64, error)   { return 1, nil }
func (r fakeReps) Update(ctx context.Context, id int64, input reps.Input) error { return nil }
func (r fakeReps) Delete(ctx context.Context, id int64) error                   { return nil }

type fakeHome struct{ f *fakeServices }

func (h fakeHome) Dashboard(ctx context.Context) (home.Dashboard, error) {
	h.f.mu.Lock()
	defer h.f.mu.Unlock()
	return h.f.dashboard, nil
}

func (h fakeHome) Invalidate(ctx context.Context) {
	h.f.mu.Lock()
	defer h.f.mu.Unlock()
	h.f.invalidations++
}

func startController(t *testing.T, f *fakeServices) *Controller {
	t.Helper()
	return startControllerWith(t, f, &clipboard.Buffer{})
}

func startControllerWith(t *testing.T, f *fakeServices, sink clipboard.Sink) *Controller {
	t.Helper()
	c := New(slog.Default(), Services{
		Parts:         f,
		Products:      fakeProducts{f},
		Purchasing:    fakePurchasing{f},
		Manufacturing: fakeManufacturing{f},
		Sales:         fakeSales{f},
		Clients:       fakeClients{f},
		Reps:          fakeReps{f},
		Home:          fakeHome{f},
	}, sink)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = c.Run(ctx) }()
	return c
}

func TestInitialFetchWarmsState(t *testing.T) {
	f := &fakeServices{
		parts:   []parts.Part{{ID: 1, Name: "bolt"}},
		clients: []clients.Client{{ID: 1, Name: "Acme"}},
	}
	c := startController(t, f)

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return len(s.Parts) == 1 && len(s.Clients) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPurchaseFormFlow(t *testing.T) {
	f := &fakeServices{parts: []parts.Part{
		{ID: 1, Name: "bolt"},
		{ID: 2, Name: "Plate"},
	}}
	c := startController(t, f)
	require.Eventually(t, func() bool {
		return len(c.Snapshot().Parts) == 2
	}, 2*time.Second, 10*time.Millisecond)

	c.Dispatch(OpenForm{Module: ModulePurchases, Mode: FormAdding})
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.Forms[ModulePurchases].Mode == FormAdding && len(s.PurchasePicks.Filtered) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// filtering is case sensitive
	c.Dispatch(SetFilter{Module: ModulePurchases, Query: "bo"})
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return len(s.PurchasePicks.Filtered) == 1 && s.PurchasePicks.Filtered[0].Name == "bolt"
	}, 2*time.Second, 10*time.Millisecond)

	c.Dispatch(PickPart{Target: ModulePurchases, PartID: 1, Qty: 10, Cost: "2.00"})
	require.Eventually(t, func() bool {
		return len(c.Snapshot().PurchasePicks.Chosen) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// zero qty alone keeps the line while cost text remains
	c.Dispatch(PickPart{Target: ModulePurchases, PartID: 1, Qty: 0, Cost: "2.00"})
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return len(s.PurchasePicks.Chosen) == 1 && s.PurchasePicks.Chosen[0].Qty == 0
	}, 2*time.Second, 10*time.Millisecond)

	// clearing both drops it
	c.Dispatch(PickPart{Target: ModulePurchases, PartID: 1, Qty: 0, Cost: ""})
	require.Eventually(t, func() bool {
		return len(c.Snapshot().PurchasePicks.Chosen) == 0
	}, 2*time.Second, 10*time.Millisecond)

	c.Dispatch(PickPart{Target: ModulePurchases, PartID: 1, Qty: 10, Cost: "2.00"})
	require.Eventually(t, func() bool {
		return len(c.Snapshot().PurchasePicks.Chosen) == 1
	}, 2*time.Second, 10*time.Millisecond)

	c.Dispatch(SubmitPurchase{Date: "2026-01-10"})
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		f.mu.Lock()
		recorded := len(f.recordedPurchases)
		f.mu.Unlock()
		return recorded == 1 && s.Forms[ModulePurchases].Mode == FormClosed && len(s.Purchases) == 1
	}, 2*time.Second, 10*time.Millisecond)

	f.mu.Lock()
	input := f.recordedPurchases[0]
	f.mu.Unlock()
	require.Len(t, input.Lines, 1)
	require.Equal(t, int64(1), input.Lines[0].PartID)
	require.Equal(t, int64(10), input.Lines[0].Qty)
	require.InDelta(t, 2.00, input.Lines[0].Cost.Float64(), 0.0001)
}

func TestSnapshotUnaffectedByLaterPicks(t *testing.T) {
	f := &fakeServices{parts: []parts.Part{{ID: 1, Name: "bolt"}}}
	c := startController(t, f)
	require.Eventually(t, func() bool {
		return len(c.Snapshot().Parts) == 1
	}, 2*time.Second, 10*time.Millisecond)

	c.Dispatch(OpenForm{Module: ModulePurchases, Mode: FormAdding})
	require.Eventually(t, func() bool {
		return len(c.Snapshot().PurchasePicks.Filtered) == 1
	}, 2*time.Second, 10*time.Millisecond)

	before := c.Snapshot()

	c.Dispatch(PickPart{Target: ModulePurchases, PartID: 1, Qty: 7, Cost: "1.00"})
	require.Eventually(t, func() bool {
		return len(c.Snapshot().PurchasePicks.Chosen) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// the earlier snapshot must not see the pick
	require.EqualValues(t, 0, before.PurchasePicks.Filtered[0].Qty)
	require.Empty(t, before.PurchasePicks.Filtered[0].Cost)
	require.EqualValues(t, 7, c.Snapshot().PurchasePicks.Filtered[0].Qty)
}

func TestCommandFailureSurfacesAndLeavesState(t *testing.T) {
	f := &fakeServices{parts: []parts.Part{{ID: 1, Name: "bolt"}}}
	f.failRecord = errors.New("db down")
	c := startController(t, f)
	require.Eventually(t, func() bool {
		return len(c.Snapshot().Parts) == 1
	}, 2*time.Second, 10*time.Millisecond)

	c.Dispatch(OpenForm{Module: ModulePurchases, Mode: FormAdding})
	c.Dispatch(PickPart{Target: ModulePurchases, PartID: 1, Qty: 1, Cost: "1"})
	c.Dispatch(SubmitPurchase{Date: "2026-01-10"})

	require.Eventually(t, func() bool {
		return c.Snapshot().LastError != ""
	}, 2*time.Second, 10*time.Millisecond)
	require.Empty(t, c.Snapshot().Purchases)
}

func TestFulfillSaleRefetchesAndInvalidates(t *testing.T) {
	f := &fakeServices{sales: []sales.ListItem{
		{Sale: sales.Sale{ID: 1, Status: sales.StatusDraft}},
	}}
	c := startController(t, f)
	require.Eventually(t, func() bool {
		return len(c.Snapshot().Sales) == 1
	}, 2*time.Second, 10*time.Millisecond)

	c.Dispatch(FulfillSale{ID: 1})
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return len(s.Sales) == 1 && s.Sales[0].Status == sales.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Equal(t, []int64{1}, f.fulfilled)
	require.Equal(t, 1, f.invalidations)
}

func TestViewingSaleLoadsDetails(t *testing.T) {
	f := &fakeServices{
		sales: []sales.ListItem{
			{Sale: sales.Sale{ID: 1, Status: sales.StatusDraft}, ClientName: "Acme"},
		},
		saleLines: []sales.Line{
			{ID: 1, ProductID: 3, ProductName: "widget", Qty: 2},
		},
	}
	c := startController(t, f)

	c.Dispatch(OpenForm{Module: ModuleSales, Mode: FormViewing, TargetID: 1})
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.SaleDetail != nil && len(s.SaleDetail.Lines) == 1
	}, 2*time.Second, 10*time.Millisecond)

	s := c.Snapshot()
	require.Equal(t, "Acme", s.SaleDetail.Sale.ClientName)
	require.Equal(t, "widget", s.SaleDetail.Lines[0].ProductName)

	c.Dispatch(CloseForm{Module: ModuleSales})
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.Forms[ModuleSales].Mode == FormClosed && s.SaleDetail == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestViewingPurchaseLoadsLines(t *testing.T) {
	f := &fakeServices{
		purchases: []purchasing.Purchase{{ID: 1, Date: "2026-01-10"}},
		purchaseLines: []purchasing.Line{
			{ID: 1, PartID: 2, PartName: "bolt", Qty: 10},
		},
	}
	c := startController(t, f)

	c.Dispatch(OpenForm{Module: ModulePurchases, Mode: FormViewing, TargetID: 1})
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return len(s.PurchaseDetail) == 1 && s.PurchaseDetail[0].PartName == "bolt"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCopyClientInfo(t *testing.T) {
	f := &fakeServices{clients: []clients.Client{
		{ID: 1, Name: "Acme Corp", Address: "1 Main St"},
	}}
	c := startController(t, f)

	c.Dispatch(CopyClientInfo{ID: 1})
	require.Eventually(t, func() bool {
		return c.Snapshot().Clipboard == "Acme Corp\n1 Main St"
	}, 2*time.Second, 10*time.Millisecond)
}

type failSink struct{ err error }

func (s failSink) Copy(text string) error { return s.err }

func TestCopyClientInfoFailureLeavesClipboardEmpty(t *testing.T) {
	f := &fakeServices{clients: []clients.Client{
		{ID: 1, Name: "Acme Corp", Address: "1 Main St"},
	}}
	c := startControllerWith(t, f, failSink{err: errors.New("no clipboard")})

	c.Dispatch(CopyClientInfo{ID: 1})
	require.Eventually(t, func() bool {
		return c.Snapshot().LastError != ""
	}, 2*time.Second, 10*time.Millisecond)
	require.Empty(t, c.Snapshot().Clipboard)
}

func TestStaleFetchIsDropped(t *testing.T) {
	c := New(slog.Default(), Services{}, &clipboard.Buffer{})
	c.gens[ModuleParts] = 2

	// a completion stamped with an older generation must not touch state
	c.applyFetch(fetched{
		module: ModuleParts,
		gen:    1,
		apply: func(s *State) {
			s.Parts = []parts.Part{{ID: 99, Name: "stale"}}
		},
	})
	require.Empty(t, c.Snapshot().Parts)

	c.applyFetch(fetched{
		module: ModuleParts,
		gen:    2,
		apply: func(s *State) {
			s.Parts = []parts.Part{{ID: 1, Name: "fresh"}}
		},
	})
	require.Len(t, c.Snapshot().Parts, 1)
	require.Equal(t, "fresh", c.Snapshot().Parts[0].Name)
}
