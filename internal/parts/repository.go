package parts

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/money"
	"github.com/stockbook/stockbook/internal/platform/db"
)

// Repository persists parts in PostgreSQL.
type Repository interface {
	List(ctx context.Context) ([]Part, error)
	Get(ctx context.Context, id int64) (Part, error)
	Create(ctx context.Context, name string) (int64, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Part, error) {
	const query = `SELECT part_id, name, units_left, cost, total_spent, total_units_purchased FROM parts ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var parts []Part
	for rows.Next() {
		var p Part
		var cost, spent float64
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitsLeft, &cost, &spent, &p.TotalUnitsPurchased); err != nil {
			return nil, db.MapError(err)
		}
		p.Cost = money.Money(cost)
		p.TotalSpent = money.Money(spent)
		parts = append(parts, p)
	}
	return parts, db.MapError(rows.Err())
}

func (r *repository) Get(ctx context.Context, id int64) (Part, error) {
	const query = `SELECT part_id, name, units_left, cost, total_spent, total_units_purchased FROM parts WHERE part_id = $1`
	var p Part
	var cost, spent float64
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.UnitsLeft, &cost, &spent, &p.TotalUnitsPurchased)
	if err != nil {
		return Part{}, db.MapError(err)
	}
	p.Cost = money.Money(cost)
	p.TotalSpent = money.Money(spent)
	return p, nil
}

func (r *repository) Create(ctx context.Context, name string) (int64, error) {
	const query = `INSERT INTO parts (name) VALUES ($1) RETURNING part_id`
	var id int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, db.MapError(err)
	}
	return id, nil
}

func (r *repository) Rename(ctx context.Context, id int64, name string) error {
	const query = `UPDATE parts SET name = $1 WHERE part_id = $2`
	_, err := r.pool.Exec(ctx, query, name, id)
	return db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM parts WHERE part_id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return db.MapError(err)
}
