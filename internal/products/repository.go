package products

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/costing"
	"github.com/stockbook/stockbook/internal/money"
	"github.com/stockbook/stockbook/internal/platform/db"
)

// Repository persists products and their bills of materials.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Components(ctx context.Context, productID int64) ([]Component, error)
	Update(ctx context.Context, id int64, input UpdateInput) error
	Delete(ctx context.Context, id int64) error
}

// TxRepository exposes the transactional operations used by orchestrators.
type TxRepository interface {
	InsertProduct(ctx context.Context, name string, msrp, cost money.Money) (int64, error)
	InsertComponent(ctx context.Context, productID, partID, qty int64, cost money.Money) error
	ListProductIDs(ctx context.Context) ([]int64, error)
	ComponentLines(ctx context.Context, productID int64) ([]costing.ComponentLine, error)
	UpdateProductCost(ctx context.Context, productID int64, cost money.Money) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	const query = `SELECT product_id, name, units, cost, msrp FROM products ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		var cost, msrp float64
		if err := rows.Scan(&p.ID, &p.Name, &p.Units, &cost, &msrp); err != nil {
			return nil, db.MapError(err)
		}
		p.Cost = money.Money(cost)
		p.MSRP = money.Money(msrp)
		out = append(out, p)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	const query = `SELECT product_id, name, units, cost, msrp FROM products WHERE product_id = $1`
	var p Product
	var cost, msrp float64
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Units, &cost, &msrp)
	if err != nil {
		return Product{}, db.MapError(err)
	}
	p.Cost = money.Money(cost)
	p.MSRP = money.Money(msrp)
	return p, nil
}

func (r *repository) Components(ctx context.Context, productID int64) ([]Component, error) {
	const query = `SELECT pp.product_part_id, pp.part_id, pa.name, pp.qty, pp.cost
		FROM product_parts pp
		JOIN parts pa ON pa.part_id = pp.part_id
		WHERE pp.product_id = $1
		ORDER BY pa.name`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []Component
	for rows.Next() {
		var c Component
		var cost float64
		if err := rows.Scan(&c.ID, &c.PartID, &c.Name, &c.Qty, &cost); err != nil {
			return nil, db.MapError(err)
		}
		c.Cost = money.Money(cost)
		out = append(out, c)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) Update(ctx context.Context, id int64, input UpdateInput) error {
	const query = `UPDATE products SET name = $1, units = $2, cost = $3, msrp = $4 WHERE product_id = $5`
	_, err := r.pool.Exec(ctx, query, input.Name, input.Units, input.Cost.Float64(), input.MSRP.Float64(), id)
	return db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM products WHERE product_id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return db.MapError(err)
}

type txRepo struct {
	tx pgx.Tx
}

func (r *txRepo) InsertProduct(ctx context.Context, name string, msrp, cost money.Money) (int64, error) {
	const query = `INSERT INTO products (name, msrp, cost) VALUES ($1, $2, $3) RETURNING product_id`
	var id int64
	if err := r.tx.QueryRow(ctx, query, name, msrp.Float64(), cost.Float64()).Scan(&id); err != nil {
		return 0, db.MapError(err)
	}
	return id, nil
}

func (r *txRepo) InsertComponent(ctx context.Context, productID, partID, qty int64, cost money.Money) error {
	const query = `INSERT INTO product_parts (product_id, part_id, qty, cost) VALUES ($1, $2, $3, $4)`
	_, err := r.tx.Exec(ctx, query, productID, partID, qty, cost.Float64())
	return db.MapError(err)
}

func (r *txRepo) ListProductIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.tx.Query(ctx, `SELECT product_id FROM products`)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, db.MapError(err)
		}
		ids = append(ids, id)
	}
	return ids, db.MapError(rows.Err())
}

func (r *txRepo) ComponentLines(ctx context.Context, productID int64) ([]costing.ComponentLine, error) {
	const query = `SELECT part_id, qty, cost FROM product_parts WHERE product_id = $1`
	rows, err := r.tx.Query(ctx, query, productID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var lines []costing.ComponentLine
	for rows.Next() {
		var l costing.ComponentLine
		var cost float64
		if err := rows.Scan(&l.PartID, &l.Qty, &cost); err != nil {
			return nil, db.MapError(err)
		}
		l.Cost = money.Money(cost)
		lines = append(lines, l)
	}
	return lines, db.MapError(rows.Err())
}

func (r *txRepo) UpdateProductCost(ctx context.Context, productID int64, cost money.Money) error {
	const query = `UPDATE products SET cost = $1 WHERE product_id = $2`
	_, err := r.tx.Exec(ctx, query, cost.Float64(), productID)
	return db.MapError(err)
}
