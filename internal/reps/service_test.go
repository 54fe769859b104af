package reps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/internal/shared"
)

type memoryRepo struct {
	reps   map[int64]Rep
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{reps: make(map[int64]Rep)}
}

func (r *memoryRepo) List(ctx context.Context) ([]Rep, error) {
	out := make([]Rep, 0, len(r.reps))
	for _, rep := range r.reps {
		out = append(out, rep)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Rep, error) {
	rep, ok := r.reps[id]
	if !ok {
		return Rep{}, shared.ErrNotFound
	}
	return rep, nil
}

func (r *memoryRepo) Create(ctx context.Context, input Input) (int64, error) {
	r.nextID++
	r.reps[r.nextID] = Rep{ID: r.nextID, Name: input.Name, Percentage: input.Percentage}
	return r.nextID, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, input Input) error {
	rep, ok := r.reps[id]
	if !ok {
		return shared.ErrNotFound
	}
	rep.Name, rep.Percentage = input.Name, input.Percentage
	r.reps[id] = rep
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	delete(r.reps, id)
	return nil
}

func TestCreateValidatesPercentage(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Name: "Dana", Percentage: 101})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Create(ctx, Input{Name: "Dana", Percentage: -1})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	id, err := svc.Create(ctx, Input{Name: "Dana", Percentage: 10})
	require.NoError(t, err)

	rep, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(10), rep.Percentage)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), Input{Name: "  "})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}
