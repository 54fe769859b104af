package clients

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id int64) (Client, error)
	Create(ctx context.Context, input Input) (int64, error)
	Update(ctx context.Context, id int64, input Input) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Client, error) {
	const query = `SELECT client_id, name, address, email, phone FROM clients ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone); err != nil {
			return nil, db.MapError(err)
		}
		out = append(out, c)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) Get(ctx context.Context, id int64) (Client, error) {
	const query = `SELECT client_id, name, address, email, phone FROM clients WHERE client_id = $1`
	var c Client
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Address, &c.Email, &c.Phone)
	if err != nil {
		return Client{}, db.MapError(err)
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, input Input) (int64, error) {
	const query = `INSERT INTO clients (name, address, email, phone) VALUES ($1, $2, $3, $4) RETURNING client_id`
	var id int64
	if err := r.pool.QueryRow(ctx, query, input.Name, input.Address, input.Email, input.Phone).Scan(&id); err != nil {
		return 0, db.MapError(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, input Input) error {
	const query = `UPDATE clients SET name = $1, address = $2, email = $3, phone = $4 WHERE client_id = $5`
	_, err := r.pool.Exec(ctx, query, input.Name, input.Address, input.Email, input.Phone, id)
	return db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM clients WHERE client_id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return db.MapError(err)
}
