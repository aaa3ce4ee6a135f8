package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product maps to the `products` table. Price is an exact decimal and Stock
// never drops below zero.
type Product struct {
	ID          int64           `json:"id"`
	StoreID     int64           `json:"storeId,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Filter narrows List. Zero values mean "no filter".
type Filter struct {
	StoreID    int64
	ActiveOnly bool
	Page       int
	Limit      int
}

const (
	maxPage  = 1_000_000
	maxLimit = 100
)

// normalize applies the paging defaults and bounds.
func (f Filter) normalize() Filter {
	f.Page = min(max(f.Page, 1), maxPage)
	if f.Limit < 1 {
		f.Limit = 20
	}
	f.Limit = min(f.Limit, maxLimit)
	return f
}

func (f Filter) offset() int {
	f = f.normalize()
	return (f.Page - 1) * f.Limit
}
