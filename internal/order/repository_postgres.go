package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/wichananm65/arts-market-backend/internal/cart"
)

// PostgresStore implements Store on database/sql.
type PostgresStore struct {
	db *sql.DB
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	orderColumns = `id, user_id, total_price, shipping_address, status, created_at, updated_at`

	getOrderQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`
	lockOrderQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`
	countUserOrdersQuery = `
		SELECT COUNT(*)
		FROM orders
		WHERE user_id = $1 AND ($2::text = '' OR status = $2::text)
	`
	listUserOrdersQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1 AND ($2::text = '' OR status = $2::text)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	listItemsQuery = `
		SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1::bigint[])
		ORDER BY order_id, id
	`
	soldByQuery = `
		SELECT EXISTS (
			SELECT 1
			FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			JOIN stores s ON s.id = p.store_id
			WHERE oi.order_id = $1 AND s.owner_id = $2
		)
	`

	// Locks are taken in product id order so concurrent checkouts cannot deadlock.
	lockCartItemsQuery = `
		SELECT c.product_id, COALESCE(p.store_id, 0), p.name, p.price, p.stock, p.is_active, c.quantity
		FROM cart_lines c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.product_id
		FOR UPDATE OF p
	`
	insertOrderQuery = `
		INSERT INTO orders (user_id, total_price, shipping_address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	insertItemQuery = `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	decrementStockQuery = `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`
	incrementStockQuery = `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2
	`
	clearCartQuery = `DELETE FROM cart_lines WHERE user_id = $1`
	setStatusQuery = `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&pgTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "rollback failed", "error", rbErr, "cause", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Order, error) {
	return getOrder(ctx, s.db, getOrderQuery, id)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID int64, f ListFilter) ([]Order, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, countUserOrdersQuery, userID, string(f.Status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, listUserOrdersQuery, userID, string(f.Status), f.Limit, f.offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	items, err := loadItems(ctx, s.db, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = itemsOrEmpty(items[orders[i].ID])
	}
	return orders, total, nil
}

func (s *PostgresStore) SoldBy(ctx context.Context, orderID, ownerID int64) (bool, error) {
	return soldBy(ctx, s.db, orderID, ownerID)
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) CartItems(ctx context.Context, userID int64) ([]cart.Item, error) {
	rows, err := t.tx.QueryContext(ctx, lockCartItemsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	defer rows.Close()

	out := make([]cart.Item, 0)
	for rows.Next() {
		var it cart.Item
		if err := rows.Scan(&it.ProductID, &it.StoreID, &it.Name, &it.Price, &it.Stock, &it.IsActive, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	return t.tx.QueryRowContext(ctx, insertOrderQuery,
		o.UserID, o.TotalPrice, o.ShippingAddress, string(o.Status), o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
}

func (t *pgTx) InsertItems(ctx context.Context, orderID int64, items []Item) ([]Item, error) {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		it.OrderID = orderID
		err := t.tx.QueryRowContext(ctx, insertItemQuery,
			orderID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice,
		).Scan(&it.ID)
		if err != nil {
			return nil, fmt.Errorf("insert item for product %d: %w", it.ProductID, err)
		}
		out = append(out, it)
	}
	return out, nil
}

func (t *pgTx) DecrementStock(ctx context.Context, productID int64, qty int) (bool, error) {
	result, err := t.tx.ExecContext(ctx, decrementStockQuery, qty, productID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// IncrementStock is a no-op for products that no longer exist.
func (t *pgTx) IncrementStock(ctx context.Context, productID int64, qty int) error {
	_, err := t.tx.ExecContext(ctx, incrementStockQuery, qty, productID)
	return err
}

func (t *pgTx) ClearCart(ctx context.Context, userID int64) error {
	_, err := t.tx.ExecContext(ctx, clearCartQuery, userID)
	return err
}

func (t *pgTx) LockOrder(ctx context.Context, id int64) (Order, error) {
	return getOrder(ctx, t.tx, lockOrderQuery, id)
}

func (t *pgTx) SoldBy(ctx context.Context, orderID, ownerID int64) (bool, error) {
	return soldBy(ctx, t.tx, orderID, ownerID)
}

func (t *pgTx) SetStatus(ctx context.Context, id int64, status Status, at time.Time) error {
	result, err := t.tx.ExecContext(ctx, setStatusQuery, string(status), at, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func getOrder(ctx context.Context, q queryer, query string, id int64) (Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	items, err := loadItems(ctx, q, []int64{o.ID})
	if err != nil {
		return Order{}, err
	}
	o.Items = itemsOrEmpty(items[o.ID])
	return o, nil
}

func soldBy(ctx context.Context, q queryer, orderID, ownerID int64) (bool, error) {
	var sold bool
	if err := q.QueryRowContext(ctx, soldByQuery, orderID, ownerID).Scan(&sold); err != nil {
		return false, err
	}
	return sold, nil
}

func loadItems(ctx context.Context, q queryer, orderIDs []int64) (map[int64][]Item, error) {
	out := make(map[int64][]Item, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := q.QueryContext(ctx, listItemsQuery, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func scanOrder(scanner rowScanner) (Order, error) {
	var (
		o      Order
		status string
	)
	if err := scanner.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.ShippingAddress, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	return o, nil
}

func itemsOrEmpty(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
