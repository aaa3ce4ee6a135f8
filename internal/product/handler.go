package product

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/arts-market-backend/internal/apperr"
	"github.com/wichananm65/arts-market-backend/internal/interface/presenter"
)

type Handler struct {
	service    *Service
	allowReset bool
	demoStore  int64
}

type resetItem struct {
	StoreID     int64           `json:"storeId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsActive    *bool           `json:"isActive"`
}

// NewHandler wires the catalogue endpoints. allowReset enables POST /dev/reset-products;
// demoStore is the store the demo catalogue is attached to.
func NewHandler(service *Service, allowReset bool, demoStore int64) *Handler {
	return &Handler{service: service, allowReset: allowReset, demoStore: demoStore}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/api/products", h.getProducts)
	r.Get("/api/products/:id", h.getProduct)

	// dev-only endpoint to reset products
	r.Post("/dev/reset-products", h.resetProducts)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	if raw := c.Query("ids"); raw != "" {
		ids, err := parseIDs(raw)
		if err != nil {
			return err
		}
		products, err := h.service.ListByIDs(c.UserContext(), ids)
		if err != nil {
			return err
		}
		return presenter.OK(c, products)
	}

	page, limit := presenter.PageParams(c)
	f := Filter{
		ActiveOnly: c.QueryBool("active", false),
		Page:       page,
		Limit:      limit,
	}
	if sid := c.Query("storeId"); sid != "" {
		v, err := strconv.ParseInt(sid, 10, 64)
		if err != nil || v <= 0 {
			return apperr.Validation("invalid storeId")
		}
		f.StoreID = v
	}

	products, total, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return presenter.Paginated(c, products, presenter.NewPagination(page, limit, total))
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperr.Validation("invalid product id")
	}

	p, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.OK(c, p)
}

// resetProducts clears the product table and inserts the provided list (or the demo list).
// If body parsing fails the demo list is used; an empty array clears the catalogue.
func (h *Handler) resetProducts(c *fiber.Ctx) error {
	if !h.allowReset {
		return apperr.Forbidden("reset not allowed")
	}

	var items []resetItem
	var products []Product
	if err := c.BodyParser(&items); err != nil {
		products = DemoCatalogue(h.demoStore)
	} else {
		products = make([]Product, 0, len(items))
		for _, it := range items {
			active := true
			if it.IsActive != nil {
				active = *it.IsActive
			}
			products = append(products, Product{
				StoreID:     it.StoreID,
				Name:        it.Name,
				Description: it.Description,
				Price:       it.Price,
				Stock:       it.Stock,
				IsActive:    active,
			})
		}
	}

	out, err := h.service.ResetProducts(c.UserContext(), products)
	if err != nil {
		return err
	}
	return presenter.OK(c, out)
}

func parseIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil || v <= 0 {
			return nil, apperr.Validation("invalid ids")
		}
		ids = append(ids, v)
	}
	return ids, nil
}
