package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amit001112/HospitalBilling/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const cols = `id, name, description, price, category, status, created_at`

func scan(row pgx.Row) (*ServiceItem, error) {
	var it ServiceItem
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Category, &it.Status, &it.CreatedAt)
	return &it, err
}

func (r *repoPG) Create(ctx context.Context, it *ServiceItem) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO service_items (name, description, price, category, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		it.Name, it.Description, it.Price, it.Category, it.Status,
	).Scan(&it.ID, &it.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert service item: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*ServiceItem, error) {
	it, err := scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM service_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service item %d: %w", id, err)
	}
	return it, nil
}

func (r *repoPG) List(ctx context.Context) ([]*ServiceItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM service_items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list service items: %w", err)
	}
	defer rows.Close()

	var out []*ServiceItem
	for rows.Next() {
		it, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, it *ServiceItem) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE service_items SET name = $2, description = $3, price = $4, category = $5, status = $6
		WHERE id = $1`,
		it.ID, it.Name, it.Description, it.Price, it.Category, it.Status)
	if err != nil {
		return fmt.Errorf("update service item %d: %w", it.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM service_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete service item %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
