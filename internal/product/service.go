package product

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/arts-market-backend/internal/apperr"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, int, error) {
	f = f.normalize()
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	return s.repo.ListByIDs(ctx, ids)
}

// ResetProducts replaces all products with the given list (used for dev / seeding).
// An empty list clears the catalogue.
func (s *Service) ResetProducts(ctx context.Context, products []Product) ([]Product, error) {
	now := s.now().UTC()
	for i := range products {
		p := &products[i]
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, apperr.Validation("name is required")
		}
		if p.Price.IsNegative() {
			return nil, apperr.Validation("price must be >= 0")
		}
		if p.Stock < 0 {
			return nil, apperr.Validation("stock must be >= 0")
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
	}
	return s.repo.Reset(ctx, products)
}

// DemoCatalogue is the list used when the reset endpoint gets no usable body.
func DemoCatalogue(storeID int64) []Product {
	return []Product{
		{StoreID: storeID, Name: "Khon Mask Replica", Description: "Hand-painted papier-mache mask", Price: decimal.NewFromInt(1250), Stock: 5, IsActive: true},
		{StoreID: storeID, Name: "Benjarong Tea Cup", Description: "Five-colour enamel porcelain cup", Price: decimal.RequireFromString("890.50"), Stock: 12, IsActive: true},
		{StoreID: storeID, Name: "Ranad Ek Workshop Ticket", Description: "Two-hour xylophone class", Price: decimal.NewFromInt(600), Stock: 20, IsActive: true},
		{StoreID: storeID, Name: "Mudmee Silk Scarf", Description: "Ikat-woven silk scarf", Price: decimal.NewFromInt(1490), Stock: 3, IsActive: true},
	}
}
