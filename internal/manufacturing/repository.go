package manufacturing

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/costing"
	"github.com/stockbook/stockbook/internal/money"
	"github.com/stockbook/stockbook/internal/platform/db"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context) ([]Run, error)
	Lines(ctx context.Context, runID int64) ([]Line, error)
	Update(ctx context.Context, id int64, input UpdateInput) error
	Delete(ctx context.Context, id int64) error
}

// TxRepository exposes the writes a run performs inside one transaction:
// the run rows, the finished-goods stock, and the part stock it consumes.
type TxRepository interface {
	InsertRun(ctx context.Context, date, note string) (int64, error)
	InsertLine(ctx context.Context, runID, productID, qty int64) error
	AddProductUnits(ctx context.Context, productID, delta int64) error
	ComponentLines(ctx context.Context, productID int64) ([]costing.ComponentLine, error)
	AdjustPartUnits(ctx context.Context, partID, delta int64) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *repository) List(ctx context.Context) ([]Run, error) {
	const query = `SELECT manufacture_id, manufacture_date, note FROM manufactures ORDER BY manufacture_id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var m Run
		if err := rows.Scan(&m.ID, &m.Date, &m.Note); err != nil {
			return nil, db.MapError(err)
		}
		out = append(out, m)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) Lines(ctx context.Context, runID int64) ([]Line, error) {
	const query = `
		SELECT mp.manufacture_product_id, mp.product_id, p.name, mp.qty
		FROM manufacture_products mp
		JOIN products p ON p.product_id = mp.product_id
		WHERE mp.manufacture_id = $1
		ORDER BY mp.manufacture_product_id`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.Qty); err != nil {
			return nil, db.MapError(err)
		}
		out = append(out, l)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) Update(ctx context.Context, id int64, input UpdateInput) error {
	const query = `UPDATE manufactures SET manufacture_date = $1, note = $2 WHERE manufacture_id = $3`
	tag, err := r.pool.Exec(ctx, query, input.Date, input.Note, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM manufactures WHERE manufacture_id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return db.MapError(err)
}

type txRepo struct {
	tx pgx.Tx
}

func (r *txRepo) InsertRun(ctx context.Context, date, note string) (int64, error) {
	const query = `INSERT INTO manufactures (manufacture_date, note) VALUES ($1, $2) RETURNING manufacture_id`
	var id int64
	if err := r.tx.QueryRow(ctx, query, date, note).Scan(&id); err != nil {
		return 0, db.MapError(err)
	}
	return id, nil
}

func (r *txRepo) InsertLine(ctx context.Context, runID, productID, qty int64) error {
	const query = `INSERT INTO manufacture_products (manufacture_id, product_id, qty) VALUES ($1, $2, $3)`
	_, err := r.tx.Exec(ctx, query, runID, productID, qty)
	return db.MapError(err)
}

func (r *txRepo) AddProductUnits(ctx context.Context, productID, delta int64) error {
	const query = `UPDATE products SET units = units + $1 WHERE product_id = $2`
	tag, err := r.tx.Exec(ctx, query, delta, productID)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows)
	}
	return nil
}

func (r *txRepo) ComponentLines(ctx context.Context, productID int64) ([]costing.ComponentLine, error) {
	const query = `SELECT part_id, qty, cost FROM product_parts WHERE product_id = $1`
	rows, err := r.tx.Query(ctx, query, productID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []costing.ComponentLine
	for rows.Next() {
		var l costing.ComponentLine
		var cost float64
		if err := rows.Scan(&l.PartID, &l.Qty, &cost); err != nil {
			return nil, db.MapError(err)
		}
		l.Cost = money.Money(cost)
		out = append(out, l)
	}
	return out, db.MapError(rows.Err())
}

func (r *txRepo) AdjustPartUnits(ctx context.Context, partID, delta int64) (int64, error) {
	const query = `UPDATE parts SET units_left = units_left + $1 WHERE part_id = $2 RETURNING units_left`
	var units int64
	if err := r.tx.QueryRow(ctx, query, delta, partID).Scan(&units); err != nil {
		return 0, db.MapError(err)
	}
	return units, nil
}
