package purchasing

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
	List(ctx context.Context) ([]Purchase, error)
	Lines(ctx context.Context, purchaseID int64) ([]Line, error)
	Update(ctx context.Context, id int64, input UpdateInput) error
	Delete(ctx context.Context, id int64) error
}

// TxRepository exposes the writes a purchase performs inside one
// transaction: the purchase rows themselves, the part ledgers, and the
// product cost snapshots derived from them.
type TxRepository interface {
	InsertPurchase(ctx context.Context, date, note string, total money.Money) (int64, error)
	InsertLine(ctx context.Context, purchaseID, partID, qty int64, cost money.Money) error
	PartLedger(ctx context.Context, partID int64) (costing.PartLedger, error)
	UpdatePartLedger(ctx context.Context, partID int64, ledger costing.PartLedger) error
	RefreshComponentCost(ctx context.Context, partID int64, cost money.Money) error
	ListProductIDs(ctx context.Context) ([]int64, error)
	ComponentLines(ctx context.Context, productID int64) ([]costing.ComponentLine, error)
	UpdateProductCost(ctx context.Context, productID int64, cost money.Money) error
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

func (r *repository) List(ctx context.Context) ([]Purchase, error) {
	const query = `SELECT purchase_id, purchase_date, total, note FROM purchases ORDER BY purchase_id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		var p Purchase
		var total float64
		if err := rows.Scan(&p.ID, &p.Date, &total, &p.Note); err != nil {
			return nil, db.MapError(err)
		}
		p.Total = money.Money(total)
		out = append(out, p)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) Lines(ctx context.Context, purchaseID int64) ([]Line, error) {
	const query = `
		SELECT pp.purchase_part_id, pp.part_id, pa.name, pp.qty, pp.cost
		FROM purchase_parts pp
		JOIN parts pa ON pa.part_id = pp.part_id
		WHERE pp.purchase_id = $1
		ORDER BY pp.purchase_part_id`
	rows, err := r.pool.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		var cost float64
		if err := rows.Scan(&l.ID, &l.PartID, &l.PartName, &l.Qty, &cost); err != nil {
			return nil, db.MapError(err)
		}
		l.Cost = money.Money(cost)
		out = append(out, l)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) Update(ctx context.Context, id int64, input UpdateInput) error {
	const query = `UPDATE purchases SET purchase_date = $1, note = $2 WHERE purchase_id = $3`
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
	const query = `DELETE FROM purchases WHERE purchase_id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return db.MapError(err)
}

type txRepo struct {
	tx pgx.Tx
}

func (r *txRepo) InsertPurchase(ctx context.Context, date, note string, total money.Money) (int64, error) {
	const query = `INSERT INTO purchases (purchase_date, total, note) VALUES ($1, $2, $3) RETURNING purchase_id`
	var id int64
	if err := r.tx.QueryRow(ctx, query, date, total.Float64(), note).Scan(&id); err != nil {
		return 0, db.MapError(err)
	}
	return id, nil
}

func (r *txRepo) InsertLine(ctx context.Context, purchaseID, partID, qty int64, cost money.Money) error {
	const query = `INSERT INTO purchase_parts (purchase_id, part_id, qty, cost) VALUES ($1, $2, $3, $4)`
	_, err := r.tx.Exec(ctx, query, purchaseID, partID, qty, cost.Float64())
	return db.MapError(err)
}

func (r *txRepo) PartLedger(ctx context.Context, partID int64) (costing.PartLedger, error) {
	const query = `
		SELECT units_left, cost, total_spent, total_units_purchased
		FROM parts WHERE part_id = $1 FOR UPDATE`
	var p costing.PartLedger
	var cost, spent float64
	err := r.tx.QueryRow(ctx, query, partID).Scan(&p.UnitsLeft, &cost, &spent, &p.TotalUnitsPurchased)
	if err != nil {
		return costing.PartLedger{}, db.MapError(err)
	}
	p.Cost = money.Money(cost)
	p.TotalSpent = money.Money(spent)
	return p, nil
}

func (r *txRepo) UpdatePartLedger(ctx context.Context, partID int64, ledger costing.PartLedger) error {
	const query = `
		UPDATE parts
		SET units_left = $1, cost = $2, total_spent = $3, total_units_purchased = $4
		WHERE part_id = $5`
	_, err := r.tx.Exec(ctx, query,
		ledger.UnitsLeft, ledger.Cost.Float64(), ledger.TotalSpent.Float64(), ledger.TotalUnitsPurchased, partID)
	return db.MapError(err)
}

func (r *txRepo) RefreshComponentCost(ctx context.Context, partID int64, cost money.Money) error {
	const query = `UPDATE product_parts SET cost = $1 WHERE part_id = $2`
	_, err := r.tx.Exec(ctx, query, cost.Float64(), partID)
	return db.MapError(err)
}

func (r *txRepo) ListProductIDs(ctx context.Context) ([]int64, error) {
	const query = `SELECT product_id FROM products ORDER BY product_id`
	rows, err := r.tx.Query(ctx, query)
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

func (r *txRepo) UpdateProductCost(ctx context.Context, productID int64, cost money.Money) error {
	const query = `UPDATE products SET cost = $1 WHERE product_id = $2`
	_, err := r.tx.Exec(ctx, query, cost.Float64(), productID)
	return db.MapError(err)
}
