package cart

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/arts-market-backend/internal/apperr"
	"github.com/wichananm65/arts-market-backend/internal/interface/presenter"
	"github.com/wichananm65/arts-market-backend/internal/user"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/cart", h.getCart)
	r.Post("/api/cart", h.addToCart)
	r.Put("/api/cart/:productId", h.updateLine)
	r.Delete("/api/cart/:productId", h.removeLine)
	r.Delete("/api/cart", h.clearCart)
}

type addRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  *int  `json:"quantity"`
}

type updateRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return err
	}

	cart, err := h.service.Get(c.UserContext(), ident.ID)
	if err != nil {
		return err
	}
	return presenter.OK(c, cart)
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return err
	}

	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperr.Validation("invalid request body")
	}
	if payload.ProductID <= 0 {
		return apperr.Validation("productId is required")
	}
	qty := 1
	if payload.Quantity != nil {
		qty = *payload.Quantity
	}

	line, created, err := h.service.Add(c.UserContext(), ident.ID, payload.ProductID, qty)
	if err != nil {
		return err
	}
	if created {
		return presenter.Message(c, fiber.StatusCreated, "Added to cart", line)
	}
	return presenter.Message(c, fiber.StatusOK, "Cart updated", line)
}

func (h *Handler) updateLine(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	payload := new(updateRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperr.Validation("invalid request body")
	}

	line, err := h.service.SetQuantity(c.UserContext(), ident.ID, productID, payload.Quantity)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Cart updated", line)
}

func (h *Handler) removeLine(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.UserContext(), ident.ID, productID); err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Removed from cart", nil)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	if err := h.service.Clear(c.UserContext(), ident.ID); err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Cart cleared", nil)
}

func productIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("productId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid product id")
	}
	return id, nil
}
