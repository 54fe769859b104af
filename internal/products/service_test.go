package products

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/internal/costing"
	"github.com/stockbook/stockbook/internal/money"
	"github.com/stockbook/stockbook/internal/shared"
)

type memoryRepo struct {
	products   map[int64]Product
	components map[int64][]costing.ComponentLine
	nextID     int64
	failInsert error
}

type memoryTx struct {
	repo *memoryRepo
	// staged rows, committed only when the callback returns nil
	staged []func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products:   make(map[int64]Product),
		components: make(map[int64][]costing.ComponentLine),
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &memoryTx{repo: r}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for _, apply := range tx.staged {
		apply()
	}
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Components(ctx context.Context, productID int64) ([]Component, error) {
	var out []Component
	for _, l := range r.components[productID] {
		out = append(out, Component{PartID: l.PartID, Qty: l.Qty, Cost: l.Cost})
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, input UpdateInput) error {
	p, ok := r.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Name, p.Units, p.Cost, p.MSRP = input.Name, input.Units, input.Cost, input.MSRP
	r.products[id] = p
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	delete(r.products, id)
	return nil
}

func (tx *memoryTx) InsertProduct(ctx context.Context, name string, msrp, cost money.Money) (int64, error) {
	if tx.repo.failInsert != nil {
		return 0, tx.repo.failInsert
	}
	tx.repo.nextID++
	id := tx.repo.nextID
	tx.staged = append(tx.staged, func() {
		tx.repo.products[id] = Product{ID: id, Name: name, MSRP: msrp, Cost: cost}
	})
	return id, nil
}

func (tx *memoryTx) InsertComponent(ctx context.Context, productID, partID, qty int64, cost money.Money) error {
	tx.staged = append(tx.staged, func() {
		tx.repo.components[productID] = append(tx.repo.components[productID],
			costing.ComponentLine{PartID: partID, Qty: qty, Cost: cost})
	})
	return nil
}

func (tx *memoryTx) ListProductIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	for id := range tx.repo.products {
		ids = append(ids, id)
	}
	return ids, nil
}

func (tx *memoryTx) ComponentLines(ctx context.Context, productID int64) ([]costing.ComponentLine, error) {
	return tx.repo.components[productID], nil
}

func (tx *memoryTx) UpdateProductCost(ctx context.Context, productID int64, cost money.Money) error {
	id, c := productID, cost
	tx.staged = append(tx.staged, func() {
		p := tx.repo.products[id]
		p.Cost = c
		tx.repo.products[id] = p
	})
	return nil
}

func TestAssembleComputesInitialCost(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Assemble(ctx, AssembleInput{
		Name: "widget",
		MSRP: 49.99,
		Components: []ComponentInput{
			{PartID: 1, Qty: 2, Cost: 1.50},
			{PartID: 2, Qty: 1, Cost: 4.25},
		},
	})
	require.NoError(t, err)

	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.InDelta(t, 7.25, p.Cost.Float64(), 0.0001)
	require.InDelta(t, 49.99, p.MSRP.Float64(), 0.0001)

	comps, err := svc.Components(ctx, id)
	require.NoError(t, err)
	require.Len(t, comps, 2)
}

func TestAssembleRejectsEmptyChoice(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Assemble(context.Background(), AssembleInput{Name: "widget"})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestAssembleRollsBackOnFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.failInsert = errors.New("boom")
	svc := NewService(repo)

	_, err := svc.Assemble(context.Background(), AssembleInput{
		Name:       "widget",
		Components: []ComponentInput{{PartID: 1, Qty: 1, Cost: 1}},
	})
	require.Error(t, err)
	require.Empty(t, repo.products)
	require.Empty(t, repo.components)
}

func TestRecomputeAllCosts(t *testing.T) {
	repo := newMemoryRepo()
	repo.nextID = 2
	repo.products[1] = Product{ID: 1, Name: "a", Cost: 0}
	repo.products[2] = Product{ID: 2, Name: "b", Cost: 0}
	repo.components[1] = []costing.ComponentLine{{PartID: 1, Qty: 3, Cost: 2}}
	repo.components[2] = []costing.ComponentLine{{PartID: 2, Qty: 1, Cost: 5}}

	svc := NewService(repo)
	require.NoError(t, svc.RecomputeAllCosts(context.Background()))

	require.InDelta(t, 6, repo.products[1].Cost.Float64(), 0.0001)
	require.InDelta(t, 5, repo.products[2].Cost.Float64(), 0.0001)
}
