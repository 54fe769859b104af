package home

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/money"
	"github.com/stockbook/stockbook/internal/platform/db"
)

type Repository interface {
	DraftSales(ctx context.Context) ([]DraftSale, error)
	LowStockParts(ctx context.Context, threshold int64) ([]LowStockItem, error)
	LowStockProducts(ctx context.Context, threshold int64) ([]LowStockItem, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) DraftSales(ctx context.Context) ([]DraftSale, error) {
	const query = `
		SELECT s.sale_id, s.sale_date, c.name, s.total
		FROM sales s
		JOIN clients c ON c.client_id = s.client_id
		WHERE s.status = 'DRAFT'
		ORDER BY s.sale_id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []DraftSale
	for rows.Next() {
		var d DraftSale
		var total float64
		if err := rows.Scan(&d.ID, &d.Date, &d.ClientName, &total); err != nil {
			return nil, db.MapError(err)
		}
		d.Total = money.Money(total)
		out = append(out, d)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) LowStockParts(ctx context.Context, threshold int64) ([]LowStockItem, error) {
	const query = `SELECT part_id, name, units_left FROM parts WHERE units_left < $1 ORDER BY units_left`
	return r.lowStock(ctx, query, threshold)
}

func (r *repository) LowStockProducts(ctx context.Context, threshold int64) ([]LowStockItem, error) {
	const query = `SELECT product_id, name, units FROM products WHERE units < $1 ORDER BY units`
	return r.lowStock(ctx, query, threshold)
}

func (r *repository) lowStock(ctx context.Context, query string, threshold int64) ([]LowStockItem, error) {
	rows, err := r.pool.Query(ctx, query, threshold)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []LowStockItem
	for rows.Next() {
		var item LowStockItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Units); err != nil {
			return nil, db.MapError(err)
		}
		out = append(out, item)
	}
	return out, db.MapError(rows.Err())
}
