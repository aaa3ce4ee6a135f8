package router

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/wichananm65/arts-market-backend/internal/cart"
	"github.com/wichananm65/arts-market-backend/internal/interface/presenter"
	"github.com/wichananm65/arts-market-backend/internal/order"
	"github.com/wichananm65/arts-market-backend/internal/product"
	"github.com/wichananm65/arts-market-backend/internal/user"
)

// Deps is everything the HTTP layer needs; cmd/* builds it.
type Deps struct {
	JWTSecret        string
	CORSAllowOrigins string
	Denylist         user.Denylist

	Users    *user.Handler
	Products *product.Handler
	Carts    *cart.Handler
	Orders   *order.Handler
}

// New builds the fiber app: middleware, public routes, the JWT guard, then protected routes.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "arts-market",
		ErrorHandler: presenter.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger)
	setupCORS(app, d.CORSAllowOrigins)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	d.Users.RegisterPublicRoutes(app)
	d.Products.RegisterPublicRoutes(app)

	app.Use(user.Protect(d.JWTSecret, d.Denylist))

	d.Users.RegisterProtectedRoutes(app)
	d.Carts.RegisterProtectedRoutes(app)
	d.Orders.RegisterProtectedRoutes(app)

	return app
}

func setupCORS(app *fiber.App, origins string) {
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// requestLogger writes one line per request once the final status is known.
// Errors are rendered here so the logged status matches what the client got.
func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	level := slog.LevelInfo
	if status >= fiber.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(c.UserContext(), level, "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", time.Since(start),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID))
	return nil
}
