package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wichananm65/arts-market-backend/internal/apperr"
	"github.com/wichananm65/arts-market-backend/internal/user"
)

var (
	ErrNotOwner      = apperr.Forbidden("You can only cancel your own orders")
	ErrNoAccess      = apperr.Forbidden("You do not have access to this order")
	ErrInvalidStatus = apperr.Validation("Invalid status. Must be one of: PENDING, PAID, SHIPPED, DELIVERED, CANCELLED")
)

// Service provides business logic for orders.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Place turns the user's cart into an order. The order header, its items, the
// stock decrements and the cart clear commit together or not at all.
func (s *Service) Place(ctx context.Context, userID int64, shippingAddress string) (Order, error) {
	addr := strings.TrimSpace(shippingAddress)
	if addr == "" {
		return Order{}, apperr.Validation("shippingAddress is required")
	}

	var placed Order
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		lines, err := tx.CartItems(ctx, userID)
		if err != nil {
			return err
		}
		draft, err := Assemble(lines)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		o := Order{
			UserID:          userID,
			TotalPrice:      draft.Total,
			ShippingAddress: addr,
			Status:          StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.InsertOrder(ctx, &o); err != nil {
			return err
		}
		items, err := tx.InsertItems(ctx, o.ID, draft.Items)
		if err != nil {
			return err
		}
		for _, it := range draft.Items {
			ok, err := tx.DecrementStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.InsufficientStock("Insufficient stock for " + it.ProductName)
			}
		}
		if err := tx.ClearCart(ctx, userID); err != nil {
			return err
		}

		o.Items = items
		placed = o
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	slog.InfoContext(ctx, "order placed",
		"order_id", placed.ID,
		"user_id", userID,
		"items", len(placed.Items),
		"total", placed.TotalPrice.String())
	return placed, nil
}

// Cancel moves a PENDING or PAID order to CANCELLED and puts its quantities back in stock.
func (s *Service) Cancel(ctx context.Context, orderID int64, requester user.Identity) (Order, error) {
	var cancelled Order
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		o, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != requester.ID {
			return ErrNotOwner
		}
		if !o.Status.Cancellable() {
			return apperr.InvalidState(fmt.Sprintf("Cannot cancel order with status %s", o.Status))
		}

		for _, it := range o.Items {
			if err := tx.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		now := s.now().UTC()
		if err := tx.SetStatus(ctx, o.ID, StatusCancelled, now); err != nil {
			return err
		}

		o.Status = StatusCancelled
		o.UpdatedAt = now
		cancelled = o
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	slog.InfoContext(ctx, "order cancelled", "order_id", orderID, "user_id", requester.ID)
	return cancelled, nil
}

// UpdateStatus sets the status directly. There is no transition graph and
// stock is left alone; only the cancel path restores stock.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, rawStatus string, actor user.Identity) (Order, error) {
	status, ok := ParseStatus(rawStatus)
	if !ok {
		return Order{}, ErrInvalidStatus
	}

	var updated Order
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		o, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			sold := false
			if actor.Role == user.RoleStoreOwner {
				if sold, err = tx.SoldBy(ctx, o.ID, actor.ID); err != nil {
					return err
				}
			}
			if !sold {
				return ErrNoAccess
			}
		}
		now := s.now().UTC()
		if err := tx.SetStatus(ctx, o.ID, status, now); err != nil {
			return err
		}
		o.Status = status
		o.UpdatedAt = now
		updated = o
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	slog.InfoContext(ctx, "order status updated",
		"order_id", orderID,
		"status", string(status),
		"actor_id", actor.ID,
		"actor_role", string(actor.Role))
	return updated, nil
}

// Get returns an order to its owner, an admin, or the owner of a store that sold into it.
func (s *Service) Get(ctx context.Context, orderID int64, caller user.Identity) (Order, error) {
	return s.authorize(ctx, orderID, caller)
}

func (s *Service) List(ctx context.Context, userID int64, f ListFilter) ([]Order, int, error) {
	f = f.normalize()
	return s.store.ListByUser(ctx, userID, f)
}

func (s *Service) authorize(ctx context.Context, orderID int64, caller user.Identity) (Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if caller.IsAdmin() || o.UserID == caller.ID {
		return o, nil
	}
	if caller.Role == user.RoleStoreOwner {
		sold, err := s.store.SoldBy(ctx, orderID, caller.ID)
		if err != nil {
			return Order{}, err
		}
		if sold {
			return o, nil
		}
	}
	return Order{}, ErrNoAccess
}
