package reps

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context) ([]Rep, error)
	Get(ctx context.Context, id int64) (Rep, error)
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

func (r *repository) List(ctx context.Context) ([]Rep, error) {
	const query = `SELECT rep_id, name, percentage FROM reps ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []Rep
	for rows.Next() {
		var rep Rep
		if err := rows.Scan(&rep.ID, &rep.Name, &rep.Percentage); err != nil {
			return nil, db.MapError(err)
		}
		out = append(out, rep)
	}
	return out, db.MapError(rows.Err())
}

func (r *repository) Get(ctx context.Context, id int64) (Rep, error) {
	const query = `SELECT rep_id, name, percentage FROM reps WHERE rep_id = $1`
	var rep Rep
	if err := r.pool.QueryRow(ctx, query, id).Scan(&rep.ID, &rep.Name, &rep.Percentage); err != nil {
		return Rep{}, db.MapError(err)
	}
	return rep, nil
}

func (r *repository) Create(ctx context.Context, input Input) (int64, error) {
	const query = `INSERT INTO reps (name, percentage) VALUES ($1, $2) RETURNING rep_id`
	var id int64
	if err := r.pool.QueryRow(ctx, query, input.Name, input.Percentage).Scan(&id); err != nil {
		return 0, db.MapError(err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, input Input) error {
	const query = `UPDATE reps SET name = $1, percentage = $2 WHERE rep_id = $3`
	_, err := r.pool.Exec(ctx, query, input.Name, input.Percentage, id)
	return db.MapError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM reps WHERE rep_id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return db.MapError(err)
}
