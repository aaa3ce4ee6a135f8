package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getItemsQuery = `
		SELECT c.product_id, COALESCE(p.store_id, 0), p.name, p.price, p.stock, p.is_active, c.quantity
		FROM cart_lines c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at, c.product_id
	`
	getLineQuery = `
		SELECT user_id, product_id, quantity, created_at, updated_at
		FROM cart_lines
		WHERE user_id = $1 AND product_id = $2
	`
	upsertLineQuery = `
		INSERT INTO cart_lines (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
	`
	deleteLineQuery = `DELETE FROM cart_lines WHERE user_id = $1 AND product_id = $2`
	clearCartQuery  = `DELETE FROM cart_lines WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Items(ctx context.Context, userID int64) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, getItemsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.StoreID, &it.Name, &it.Price, &it.Stock, &it.IsActive, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetLine(ctx context.Context, userID, productID int64) (Line, error) {
	var l Line
	err := r.db.QueryRowContext(ctx, getLineQuery, userID, productID).
		Scan(&l.UserID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Line{}, ErrLineNotFound
		}
		return Line{}, err
	}
	return l, nil
}

func (r *PostgresRepository) Save(ctx context.Context, l Line) error {
	_, err := r.db.ExecContext(ctx, upsertLineQuery, l.UserID, l.ProductID, l.Quantity, l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, productID int64) error {
	result, err := r.db.ExecContext(ctx, deleteLineQuery, userID, productID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, clearCartQuery, userID)
	return err
}
