package parts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/internal/shared"
)

type memoryRepo struct {
	parts  map[int64]Part
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{parts: make(map[int64]Part)}
}

func (r *memoryRepo) List(ctx context.Context) ([]Part, error) {
	out := make([]Part, 0, len(r.parts))
	for _, p := range r.parts {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Part, error) {
	p, ok := r.parts[id]
	if !ok {
		return Part{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, name string) (int64, error) {
	r.nextID++
	r.parts[r.nextID] = Part{ID: r.nextID, Name: name}
	return r.nextID, nil
}

func (r *memoryRepo) Rename(ctx context.Context, id int64, name string) error {
	p, ok := r.parts[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Name = name
	r.parts[id] = p
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	delete(r.parts, id)
	return nil
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), Input{Name: "   "})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCreateAndRename(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, Input{Name: " bracket "})
	require.NoError(t, err)

	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "bracket", p.Name)
	require.EqualValues(t, 0, p.UnitsLeft)

	require.NoError(t, svc.Rename(ctx, id, Input{Name: "hinge"}))
	p, err = svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "hinge", p.Name)
}
