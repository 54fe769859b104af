package manufacturing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/internal/costing"
	"github.com/stockbook/stockbook/internal/shared"
)

type memoryRepo struct {
	runs       map[int64]Run
	lines      map[int64][]Line
	products   map[int64]int64 // product_id -> units
	parts      map[int64]int64 // part_id -> units_left
	components map[int64][]costing.ComponentLine
	nextID     int64
}

type memoryTx struct {
	repo   *memoryRepo
	staged []func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		runs:       make(map[int64]Run),
		lines:      make(map[int64][]Line),
		products:   make(map[int64]int64),
		parts:      make(map[int64]int64),
		components: make(map[int64][]costing.ComponentLine),
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	snapshotParts := make(map[int64]int64, len(r.parts))
	for k, v := range r.parts {
		snapshotParts[k] = v
	}
	snapshotProducts := make(map[int64]int64, len(r.products))
	for k, v := range r.products {
		snapshotProducts[k] = v
	}
	tx := &memoryTx{repo: r}
	if err := fn(ctx, tx); err != nil {
		r.parts = snapshotParts
		r.products = snapshotProducts
		return err
	}
	for _, apply := range tx.staged {
		apply()
	}
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Run, error) {
	out := make([]Run, 0, len(r.runs))
	for _, m := range r.runs {
		out = append(out, m)
	}
	return out, nil
}

func (r *memoryRepo) Lines(ctx context.Context, runID int64) ([]Line, error) {
	return r.lines[runID], nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, input UpdateInput) error {
	m, ok := r.runs[id]
	if !ok {
		return shared.ErrNotFound
	}
	m.Date, m.Note = input.Date, input.Note
	r.runs[id] = m
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	delete(r.runs, id)
	delete(r.lines, id)
	return nil
}

func (tx *memoryTx) InsertRun(ctx context.Context, date, note string) (int64, error) {
	tx.repo.nextID++
	id := tx.repo.nextID
	tx.staged = append(tx.staged, func() {
		tx.repo.runs[id] = Run{ID: id, Date: date, Note: note}
	})
	return id, nil
}

func (tx *memoryTx) InsertLine(ctx context.Context, runID, productID, qty int64) error {
	tx.staged = append(tx.staged, func() {
		tx.repo.lines[runID] = append(tx.repo.lines[runID], Line{ProductID: productID, Qty: qty})
	})
	return nil
}

func (tx *memoryTx) AddProductUnits(ctx context.Context, productID, delta int64) error {
	if _, ok := tx.repo.products[productID]; !ok {
		return shared.ErrNotFound
	}
	tx.repo.products[productID] += delta
	return nil
}

func (tx *memoryTx) ComponentLines(ctx context.Context, productID int64) ([]costing.ComponentLine, error) {
	return tx.repo.components[productID], nil
}

func (tx *memoryTx) AdjustPartUnits(ctx context.Context, partID, delta int64) (int64, error) {
	if _, ok := tx.repo.parts[partID]; !ok {
		return 0, shared.ErrNotFound
	}
	tx.repo.parts[partID] += delta
	return tx.repo.parts[partID], nil
}

func TestRecordRunMovesStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = 0
	repo.parts[10] = 20
	repo.parts[11] = 20
	repo.components[1] = []costing.ComponentLine{
		{PartID: 10, Qty: 2},
		{PartID: 11, Qty: 3},
	}
	svc := NewService(repo, slog.Default(), true)

	_, err := svc.RecordRun(context.Background(), RecordInput{
		Date:  "2026-05-01",
		Lines: []LineInput{{ProductID: 1, Qty: 4}},
	})
	require.NoError(t, err)

	require.Equal(t, int64(4), repo.products[1])
	require.Equal(t, int64(20-2*4), repo.parts[10])
	require.Equal(t, int64(20-3*4), repo.parts[11])
}

func TestRecordRunBlocksNegativeStockWhenConfigured(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = 0
	repo.parts[10] = 3
	repo.components[1] = []costing.ComponentLine{{PartID: 10, Qty: 2}}
	svc := NewService(repo, slog.Default(), false)

	_, err := svc.RecordRun(context.Background(), RecordInput{
		Date:  "2026-05-02",
		Lines: []LineInput{{ProductID: 1, Qty: 2}},
	})
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Empty(t, repo.runs)
	require.Equal(t, int64(3), repo.parts[10])
	require.Equal(t, int64(0), repo.products[1])
}

func TestRecordRunAllowsNegativeStockByDefault(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[1] = 0
	repo.parts[10] = 3
	repo.components[1] = []costing.ComponentLine{{PartID: 10, Qty: 2}}
	svc := NewService(repo, slog.Default(), true)

	_, err := svc.RecordRun(context.Background(), RecordInput{
		Date:  "2026-05-03",
		Lines: []LineInput{{ProductID: 1, Qty: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(-1), repo.parts[10])
}

func TestRecordRunRejectsBadInput(t *testing.T) {
	svc := NewService(newMemoryRepo(), slog.Default(), true)
	ctx := context.Background()

	_, err := svc.RecordRun(ctx, RecordInput{Date: "", Lines: []LineInput{{ProductID: 1, Qty: 1}}})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.RecordRun(ctx, RecordInput{Date: "2026-05-04"})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}
