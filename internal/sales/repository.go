package sales

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/money"
	"github.com/stockbook/stockbook/internal/platform/db"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context) ([]ListItem, error)
	Get(ctx context.Context, id int64) (ListItem, error)
	Lines(ctx context.Context, saleID int64) ([]Line, error)
	UpdateHeader(ctx context.Context, id int64, input UpdateInput) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}

// ProductSnapshot is a product's sellable state read under lock while a
// sale is being created.
type ProductSnapshot struct {
	Units int64
	Cost  money.Money
	MSRP  money.Money
}

// TxRepository exposes the writes a sale performs inside one transaction.
type TxRepository interface {
	ProductSnapshot(ctx context.Context, productID int64) (ProductSnapshot, error)
	RepPercentage(ctx context.Context, repID int64) (int64, error)
	InsertSale(ctx context.Context, s Sale) (int64, error)
	InsertLine(ctx context.Context, saleID, productID, qty int64, costAtSale, msrpAtSale money.Money) error
	AddProductUnits(ctx context.Context, productID, delta int64) (int64, error)
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

const saleColumns = `
	s.sale_id, s.sale_date, s.client_id, s.rep_id, s.status,
	s.total, s.cost, s.net, s.shipping, s.rep_cut, s.discount, s.note,
	c.name AS client_name, COALESCE(rp.name, '') AS rep_name`

const saleJoins = `
	FROM sales s
	JOIN clients c ON c.client_id = s.client_id
	LEFT JOIN reps rp ON rp.rep_id = s.rep_id`

func scanListItem(row pgx.Row) (ListItem, error) {
	var item ListItem
	var total, cost, net, shipping, repCut, discount float64
	err := row.Scan(
		&item.ID, &item.Date, &item.ClientID, &item.RepID, &item.Status,
		&total, &cost, &net, &shipping, &repCut, &discount, &item.Note,
		&item.ClientName, &item.RepName)
	if err != nil {
		return ListItem{}, err
	}
	item.Total = money.Money(total)
	item.Cost = money.Money(cost)
	item.Net = money.Money(net)
	item.Shipping = money.Money(shipping)
	item.RepCut = money.Money(repCut)
	item.Discount = money.Money(discount)
	return item, nil
}

func (r *repository) List(ctx context.Context) ([]ListItem, error) {
	query := `SELECT` + saleColumns + saleJoins + ` ORDER BY s.sale_id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		item, err := scanListItem(rows)
		if err != nil {
			return nil, db.MapError(err)
		}
		out = append(out, item)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) Get(ctx context.Context, id int64) (ListItem, error) {
	query := `SELECT` + saleColumns + saleJoins + ` WHERE s.sale_id = $1`
	item, err := scanListItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return ListItem{}, db.MapError(err)
	}
	return item, nil
}

func (r *repository) Lines(ctx context.Context, saleID int64) ([]Line, error) {
	const query = `
		SELECT sp.sale_product_id, sp.product_id, p.name, sp.qty, sp.cost_at_sale, sp.msrp_at_sale
		FROM sale_products sp
		JOIN products p ON p.product_id = sp.product_id
		WHERE sp.sale_id = $1
		ORDER BY sp.sale_product_id`
	rows, err := r.pool.Query(ctx, query, saleID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		var cost, msrp float64
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.Qty, &cost, &msrp); err != nil {
			return nil, db.MapError(err)
		}
		l.CostAtSale = money.Money(cost)
		l.MSRPAtSale = money.Money(msrp)
		out = append(out, l)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) UpdateHeader(ctx context.Context, id int64, input UpdateInput) error {
	const query = `
		UPDATE sales SET sale_date = $1, client_id = $2, discount = $3, note = $4
		WHERE sale_id = $5`
	tag, err := r.pool.Exec(ctx, query, input.Date, input.ClientID, input.Discount.Float64(), input.Note, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows)
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	const query = `UPDATE sales SET status = $1 WHERE sale_id = $2`
	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.MapError(pgx.ErrNoRows)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM sales WHERE sale_id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return db.MapError(err)
}

type txRepo struct {
	tx pgx.Tx
}

func (r *txRepo) ProductSnapshot(ctx context.Context, productID int64) (ProductSnapshot, error) {
	const query = `SELECT units, cost, msrp FROM products WHERE product_id = $1 FOR UPDATE`
	var snap ProductSnapshot
	var cost, msrp float64
	if err := r.tx.QueryRow(ctx, query, productID).Scan(&snap.Units, &cost, &msrp); err != nil {
		return ProductSnapshot{}, db.MapError(err)
	}
	snap.Cost = money.Money(cost)
	snap.MSRP = money.Money(msrp)
	return snap, nil
}

func (r *txRepo) RepPercentage(ctx context.Context, repID int64) (int64, error) {
	const query = `SELECT percentage FROM reps WHERE rep_id = $1`
	var pct int64
	if err := r.tx.QueryRow(ctx, query, repID).Scan(&pct); err != nil {
		return 0, db.MapError(err)
	}
	return pct, nil
}

func (r *txRepo) InsertSale(ctx context.Context, s Sale) (int64, error) {
	const query = `
		INSERT INTO sales (sale_date, client_id, rep_id, status, total, cost, net, shipping, rep_cut, discount, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING sale_id`
	var id int64
	err := r.tx.QueryRow(ctx, query,
		s.Date, s.ClientID, s.RepID, s.Status,
		s.Total.Float64(), s.Cost.Float64(), s.Net.Float64(),
		s.Shipping.Float64(), s.RepCut.Float64(), s.Discount.Float64(), s.Note,
	).Scan(&id)
	if err != nil {
		return 0, db.MapError(err)
	}
	return id, nil
}

func (r *txRepo) InsertLine(ctx context.Context, saleID, productID, qty int64, costAtSale, msrpAtSale money.Money) error {
	const query = `
		INSERT INTO sale_products (sale_id, product_id, qty, cost_at_sale, msrp_at_sale)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.tx.Exec(ctx, query, saleID, productID, qty, costAtSale.Float64(), msrpAtSale.Float64())
	return db.MapError(err)
}

func (r *txRepo) AddProductUnits(ctx context.Context, productID, delta int64) (int64, error) {
	const query = `UPDATE products SET units = units + $1 WHERE product_id = $2 RETURNING units`
	var units int64
	if err := r.tx.QueryRow(ctx, query, delta, productID).Scan(&units); err != nil {
		return 0, db.MapError(err)
	}
	return units, nil
}
