package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var allStatuses = []Status{StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus accepts any casing of the five status names.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range allStatuses {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// Cancellable reports whether the cancel path may move an order out of s.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusPaid
}

// Order represents a purchase made by a user.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ShippingAddress string          `json:"shippingAddress"`
	Status          Status          `json:"status"`
	Items           []Item          `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Item is the price and quantity of one product at the moment the order was placed.
type Item struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"orderId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type ListFilter struct {
	Status Status
	Page   int
	Limit  int
}

const (
	maxPage  = 1_000_000
	maxLimit = 100
)

// normalize applies the paging defaults and bounds.
func (f ListFilter) normalize() ListFilter {
	f.Page = min(max(f.Page, 1), maxPage)
	if f.Limit < 1 {
		f.Limit = 20
	}
	f.Limit = min(f.Limit, maxLimit)
	return f
}

func (f ListFilter) offset() int {
	f = f.normalize()
	return (f.Page - 1) * f.Limit
}
