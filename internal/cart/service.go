package cart

import (
	"context"
	"errors"
	"time"

	"github.com/wichananm65/arts-market-backend/internal/apperr"
	"github.com/wichananm65/arts-market-backend/internal/product"
)

var ErrProductUnavailable = apperr.Validation("Product is not available")

// ProductFinder is the slice of the catalogue the cart needs.
type ProductFinder interface {
	GetByID(ctx context.Context, id int64) (product.Product, error)
}

// Service orchestrates cart operations.
type Service struct {
	repo     Repository
	products ProductFinder
	now      func() time.Time
}

func NewService(repo Repository, products ProductFinder) *Service {
	return &Service{repo: repo, products: products, now: time.Now}
}

func (s *Service) Get(ctx context.Context, userID int64) (Cart, error) {
	items, err := s.repo.Items(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	return NewCart(items), nil
}

// Add puts qty units of a product in the cart, on top of whatever is already
// there. created reports whether a new line was made.
func (s *Service) Add(ctx context.Context, userID, productID int64, qty int) (line Line, created bool, err error) {
	if qty <= 0 {
		return Line{}, false, apperr.Validation("quantity must be greater than 0")
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return Line{}, false, err
	}
	if !p.IsActive {
		return Line{}, false, ErrProductUnavailable
	}

	if qty > p.Stock {
		return Line{}, false, apperr.InsufficientStock("Insufficient stock for " + p.Name)
	}

	now := s.now().UTC()
	existing, err := s.repo.GetLine(ctx, userID, productID)
	switch {
	case err == nil:
		if qty > p.Stock-existing.Quantity {
			return Line{}, false, apperr.InsufficientStock("Insufficient stock for " + p.Name)
		}
		line = existing
		line.Quantity += qty
	case errors.Is(err, ErrLineNotFound):
		created = true
		line = Line{UserID: userID, ProductID: productID, Quantity: qty, CreatedAt: now}
	default:
		return Line{}, false, err
	}

	line.UpdatedAt = now
	if err := s.repo.Save(ctx, line); err != nil {
		return Line{}, false, err
	}
	return line, created, nil
}

// SetQuantity overwrites the quantity of an existing line.
func (s *Service) SetQuantity(ctx context.Context, userID, productID int64, qty int) (Line, error) {
	if qty <= 0 {
		return Line{}, apperr.Validation("quantity must be greater than 0")
	}
	line, err := s.repo.GetLine(ctx, userID, productID)
	if err != nil {
		return Line{}, err
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return Line{}, err
	}
	if !p.IsActive {
		return Line{}, ErrProductUnavailable
	}
	if qty > p.Stock {
		return Line{}, apperr.InsufficientStock("Insufficient stock for " + p.Name)
	}

	line.Quantity = qty
	line.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, line); err != nil {
		return Line{}, err
	}
	return line, nil
}

func (s *Service) Remove(ctx context.Context, userID, productID int64) error {
	return s.repo.Delete(ctx, userID, productID)
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.repo.Clear(ctx, userID)
}
