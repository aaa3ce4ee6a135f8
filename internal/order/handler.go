package order

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/arts-market-backend/internal/apperr"
	"github.com/wichananm65/arts-market-backend/internal/interface/presenter"
	"github.com/wichananm65/arts-market-backend/internal/user"
)

// Handler delegates order operations to the order service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Post("/api/orders", h.createOrder)
	r.Get("/api/orders", h.getOrders)
	r.Get("/api/orders/:id", h.getOrder)
	r.Put("/api/orders/:id/cancel", h.cancelOrder)
	r.Put("/api/orders/:id/status", user.RequireRole(user.RoleStoreOwner, user.RoleAdmin), h.updateStatus)
}

type createOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return err
	}

	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperr.Validation("invalid request body")
	}

	created, err := h.service.Place(c.UserContext(), ident.ID, payload.ShippingAddress)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusCreated, "Order placed", created)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return err
	}

	page, limit := presenter.PageParams(c)
	f := ListFilter{Page: page, Limit: limit}
	if raw := c.Query("status"); raw != "" {
		status, ok := ParseStatus(raw)
		if !ok {
			return ErrInvalidStatus
		}
		f.Status = status
	}

	orders, total, err := h.service.List(c.UserContext(), ident.ID, f)
	if err != nil {
		return err
	}
	return presenter.Paginated(c, orders, presenter.NewPagination(page, limit, total))
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	o, err := h.service.Get(c.UserContext(), id, ident)
	if err != nil {
		return err
	}
	return presenter.OK(c, o)
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	o, err := h.service.Cancel(c.UserContext(), id, ident)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Order cancelled", o)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperr.Validation("invalid request body")
	}

	o, err := h.service.UpdateStatus(c.UserContext(), id, payload.Status, ident)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Order status updated", o)
}

func orderIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid order id")
	}
	return id, nil
}
