package product

import (
	"context"

	"github.com/wichananm65/arts-market-backend/internal/apperr"
)

var (
	ErrNotFound = apperr.NotFound("Product not found")
)

type Repository interface {
	// List returns one page of products and the total number matching f.
	List(ctx context.Context, f Filter) ([]Product, int, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	// ListByIDs skips ids that do not exist; order follows id.
	ListByIDs(ctx context.Context, ids []int64) ([]Product, error)
	// Reset replaces all products with the provided list (used for dev / seeding)
	Reset(ctx context.Context, products []Product) ([]Product, error)
}
