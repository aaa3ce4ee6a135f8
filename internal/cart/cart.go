package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one row of `cart_lines`: a pending user→product→quantity association.
type Line struct {
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item is a cart line joined with the product it points at, as of the read.
type Item struct {
	ProductID int64           `json:"productId"`
	StoreID   int64           `json:"storeId,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	IsActive  bool            `json:"isActive"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Cart struct {
	Items     []Item          `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
}

// NewCart fills in line totals and the aggregates.
func NewCart(items []Item) Cart {
	c := Cart{Items: make([]Item, 0, len(items)), Subtotal: decimal.Zero}
	for _, it := range items {
		it.LineTotal = it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		c.Subtotal = c.Subtotal.Add(it.LineTotal)
		c.ItemCount += it.Quantity
		c.Items = append(c.Items, it)
	}
	return c
}
