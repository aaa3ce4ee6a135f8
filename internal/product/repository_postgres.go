package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	productColumns = `id, store_id, name, description, price, stock, is_active, created_at, updated_at`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = 0 OR store_id = $1)
		  AND (NOT $2 OR is_active)
		ORDER BY id
		LIMIT $3 OFFSET $4
	`
	countProductsQuery = `
		SELECT COUNT(*)
		FROM products
		WHERE ($1 = 0 OR store_id = $1)
		  AND (NOT $2 OR is_active)
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	listProductsByIDsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1::bigint[])
		ORDER BY id
	`
	insertProductQuery = `
		INSERT INTO products (store_id, name, description, price, stock, is_active, created_at, updated_at)
		VALUES (NULLIF($1::bigint, 0), $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	deleteProductsQuery = `DELETE FROM products`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, countProductsQuery, f.StoreID, f.ActiveOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listProductsQuery, f.StoreID, f.ActiveOnly, f.Limit, f.offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := r.db.QueryContext(ctx, listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Reset deletes all products and inserts the provided list in a single transaction.
// Cart lines go with them through ON DELETE CASCADE; order items keep their snapshot.
func (r *PostgresRepository) Reset(ctx context.Context, products []Product) ([]Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteProductsQuery); err != nil {
		return nil, fmt.Errorf("clear products: %w", err)
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		err := tx.QueryRowContext(ctx, insertProductQuery,
			p.StoreID,
			p.Name,
			p.Description,
			p.Price,
			p.Stock,
			p.IsActive,
			p.CreatedAt,
			p.UpdatedAt,
		).Scan(&p.ID)
		if err != nil {
			return nil, fmt.Errorf("insert product %q: %w", p.Name, err)
		}
		out = append(out, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(scanner rowScanner) (Product, error) {
	var (
		p       Product
		storeID sql.NullInt64
	)
	if err := scanner.Scan(&p.ID, &storeID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	p.StoreID = storeID.Int64
	return p, nil
}
