package order

import (
	"github.com/shopspring/decimal"
	"github.com/wichananm65/arts-market-backend/internal/apperr"
	"github.com/wichananm65/arts-market-backend/internal/cart"
)

var ErrEmptyCart = apperr.Validation("Cart is empty")

// Draft is an order that has been priced but not written.
type Draft struct {
	Items []Item
	Total decimal.Decimal
}

// Assemble checks every cart line against the product state it was read with
// and prices the order. It fails on the first offending line.
func Assemble(lines []cart.Item) (Draft, error) {
	if len(lines) == 0 {
		return Draft{}, ErrEmptyCart
	}

	d := Draft{Items: make([]Item, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Draft{}, apperr.Validation("Invalid quantity for " + l.Name)
		}
		if !l.IsActive {
			return Draft{}, apperr.Validation("Product " + l.Name + " is no longer available")
		}
		if l.Quantity > l.Stock {
			return Draft{}, apperr.InsufficientStock("Insufficient stock for " + l.Name)
		}
		d.Items = append(d.Items, Item{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.Price,
		})
		d.Total = d.Total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return d, nil
}
