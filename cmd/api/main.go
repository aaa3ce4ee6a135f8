package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/wichananm65/arts-market-backend/internal/cart"
	"github.com/wichananm65/arts-market-backend/internal/config"
	"github.com/wichananm65/arts-market-backend/internal/infrastructure/database/inmemory"
	"github.com/wichananm65/arts-market-backend/internal/interface/http/router"
	"github.com/wichananm65/arts-market-backend/internal/order"
	"github.com/wichananm65/arts-market-backend/internal/product"
	"github.com/wichananm65/arts-market-backend/internal/user"
)

const devSecret = "arts-market-dev-secret"

var demoUsers = []user.User{
	{Email: "admin@arts.local", Password: "admin123", FirstName: "Ada", LastName: "Admin", Role: user.RoleAdmin},
	{Email: "owner@arts.local", Password: "owner123", FirstName: "Somchai", LastName: "Gallery", Role: user.RoleStoreOwner},
	{Email: "buyer@arts.local", Password: "buyer123", FirstName: "Pim", LastName: "Buyer", Role: user.RoleUser},
}

// main wires the in-memory stack and starts a self-contained demo server.
func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	for _, w := range cfg.Warnings {
		slog.Warn("config", "warning", w)
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set, using the demo secret")
		cfg.JWTSecret = devSecret
	}
	ctx := context.Background()

	store := inmemory.NewStore()
	denylist := user.NewInMemoryDenylist()
	userService := user.NewService(user.NewInMemoryRepository(nil), user.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), denylist)

	var ownerID int64
	for _, u := range demoUsers {
		created, err := userService.Create(ctx, u)
		if err != nil {
			slog.Error("seed user failed", "email", u.Email, "error", err)
			os.Exit(1)
		}
		if created.Role == user.RoleStoreOwner {
			ownerID = created.ID
		}
	}
	storeID := store.AddStore(ownerID, "Siam Craft Gallery")

	productService := product.NewService(store)
	if _, err := productService.ResetProducts(ctx, product.DemoCatalogue(storeID)); err != nil {
		slog.Error("seed products failed", "error", err)
		os.Exit(1)
	}

	app := router.New(router.Deps{
		JWTSecret:        cfg.JWTSecret,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Denylist:         denylist,
		Users:            user.NewHandler(userService),
		Products:         product.NewHandler(productService, cfg.AllowResetProducts, storeID),
		Carts:            cart.NewHandler(cart.NewService(store, productService)),
		Orders:           order.NewHandler(order.NewService(store)),
	})

	slog.Info("starting demo server", "addr", cfg.Addr, "users", len(demoUsers))
	if err := app.Listen(cfg.Addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
