package order

import (
	"context"
	"time"

	"github.com/wichananm65/arts-market-backend/internal/apperr"
	"github.com/wichananm65/arts-market-backend/internal/cart"
)

var (
	ErrNotFound = apperr.NotFound("Order not found")
)

// Store is the persistence boundary of the order workflow.
type Store interface {
	// WithinTx runs fn in one transaction. A non-nil error from fn rolls everything back.
	WithinTx(ctx context.Context, fn func(Tx) error) error
	Get(ctx context.Context, id int64) (Order, error)
	// ListByUser returns one page of the user's orders, newest first, with items.
	ListByUser(ctx context.Context, userID int64, f ListFilter) ([]Order, int, error)
	// SoldBy reports whether any item of the order is a product of a store owned by ownerID.
	SoldBy(ctx context.Context, orderID, ownerID int64) (bool, error)
}

// Tx is the set of writes available inside WithinTx.
type Tx interface {
	// CartItems reads the user's cart joined with products and locks those product rows.
	CartItems(ctx context.Context, userID int64) ([]cart.Item, error)
	InsertOrder(ctx context.Context, o *Order) error
	InsertItems(ctx context.Context, orderID int64, items []Item) ([]Item, error)
	// DecrementStock subtracts qty only if enough stock is left; ok is false otherwise.
	DecrementStock(ctx context.Context, productID int64, qty int) (ok bool, err error)
	IncrementStock(ctx context.Context, productID int64, qty int) error
	ClearCart(ctx context.Context, userID int64) error
	// LockOrder loads the order with its items and holds it until the transaction ends.
	LockOrder(ctx context.Context, id int64) (Order, error)
	SoldBy(ctx context.Context, orderID, ownerID int64) (bool, error)
	SetStatus(ctx context.Context, id int64, status Status, at time.Time) error
}
