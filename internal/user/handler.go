package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/arts-market-backend/internal/apperr"
	"github.com/wichananm65/arts-market-backend/internal/interface/presenter"
)

type Handler struct {
	service *Service
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Post("/api/auth/register", h.register)
	r.Post("/api/auth/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/api/auth/me", h.me)
	r.Post("/api/auth/logout", h.logout)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperr.Validation("invalid request body")
	}

	token, u, err := h.service.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return presenter.Message(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user":  sanitizeUser(u),
	})
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperr.Validation("invalid request body")
	}

	created, err := h.service.Register(c.UserContext(), RegisterInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		return err
	}
	return presenter.Created(c, sanitizeUser(created))
}

// me returns the user record for the currently authenticated caller.
func (h *Handler) me(c *fiber.Ctx) error {
	ident, err := IdentityFromCtx(c)
	if err != nil {
		return err
	}
	u, err := h.service.GetByID(c.UserContext(), ident.ID)
	if err != nil {
		return err
	}
	return presenter.OK(c, sanitizeUser(u))
}

func (h *Handler) logout(c *fiber.Ctx) error {
	jti, exp, err := tokenMetaFromCtx(c)
	if err != nil {
		return err
	}
	if err := h.service.Logout(c.UserContext(), jti, exp); err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Logged out", nil)
}
