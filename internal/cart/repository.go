package cart

import (
	"context"

	"github.com/wichananm65/arts-market-backend/internal/apperr"
)

var (
	ErrLineNotFound = apperr.NotFound("Cart item not found")
)

// Repository provides access to a user's cart lines.
type Repository interface {
	// Items returns the user's lines joined with product data, oldest first.
	Items(ctx context.Context, userID int64) ([]Item, error)
	GetLine(ctx context.Context, userID, productID int64) (Line, error)
	// Save inserts the line or overwrites the quantity of an existing one.
	Save(ctx context.Context, l Line) error
	Delete(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
}
