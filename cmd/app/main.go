package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/wichananm65/arts-market-backend/internal/cart"
	"github.com/wichananm65/arts-market-backend/internal/config"
	"github.com/wichananm65/arts-market-backend/internal/infrastructure/cache"
	"github.com/wichananm65/arts-market-backend/internal/infrastructure/database/postgres"
	"github.com/wichananm65/arts-market-backend/internal/interface/http/router"
	"github.com/wichananm65/arts-market-backend/internal/order"
	"github.com/wichananm65/arts-market-backend/internal/product"
	"github.com/wichananm65/arts-market-backend/internal/user"
)

const demoOwnerEmail = "demo-owner@arts.local"

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	for _, w := range cfg.Warnings {
		slog.Warn("config", "warning", w)
	}
	if cfg.JWTSecret == "" {
		fatal("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := mustOpenDB(ctx, cfg.DatabaseURL)
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		fatal("migrate failed", "error", err)
	}

	denylist, closeDenylist := mustDenylist(cfg.RedisURL)
	defer closeDenylist()

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, user.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), denylist)
	productService := product.NewService(product.NewPostgresRepository(db))
	cartService := cart.NewService(cart.NewPostgresRepository(db), productService)
	orderService := order.NewService(order.NewPostgresStore(db))

	var demoStore int64
	if cfg.AllowResetProducts {
		demoStore = mustDemoStore(ctx, db, userRepo, userService)
	}

	app := router.New(router.Deps{
		JWTSecret:        cfg.JWTSecret,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Denylist:         denylist,
		Users:            user.NewHandler(userService),
		Products:         product.NewHandler(productService, cfg.AllowResetProducts, demoStore),
		Carts:            cart.NewHandler(cartService),
		Orders:           order.NewHandler(orderService),
	})

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		fatal("server stopped", "error", err)
	}
}

func mustOpenDB(ctx context.Context, url string) *sql.DB {
	if url == "" {
		fatal("DATABASE_URL is not set")
	}
	db, err := postgres.Open(ctx, url)
	if err != nil {
		fatal("database unavailable", "error", err)
	}
	return db
}

// mustDenylist uses Redis when REDIS_URL is set and falls back to process memory otherwise.
func mustDenylist(redisURL string) (user.Denylist, func()) {
	if redisURL == "" {
		slog.Warn("REDIS_URL is not set, revoked tokens are kept in memory")
		return user.NewInMemoryDenylist(), func() {}
	}
	d, err := cache.NewRedisDenylist(redisURL)
	if err != nil {
		fatal("redis unavailable", "error", err)
	}
	return d, func() { _ = d.Close() }
}

// mustDemoStore finds or creates the store that /dev/reset-products attaches the demo catalogue to.
// The demo owner gets a random password, so it cannot sign in.
func mustDemoStore(ctx context.Context, db *sql.DB, repo user.Repository, users *user.Service) int64 {
	owner, err := repo.GetByEmail(ctx, demoOwnerEmail)
	if errors.Is(err, user.ErrNotFound) {
		owner, err = users.Create(ctx, user.User{
			Email:     demoOwnerEmail,
			Password:  uuid.NewString(),
			FirstName: "Demo",
			LastName:  "Gallery",
			Role:      user.RoleStoreOwner,
		})
	}
	if err != nil {
		fatal("demo store owner unavailable", "error", err)
	}
	id, err := postgres.EnsureStore(ctx, db, owner.ID, "Demo Gallery")
	if err != nil {
		fatal("demo store unavailable", "error", err)
	}
	slog.Warn("ALLOW_RESET_PRODUCTS is enabled", "demo_store_id", id)
	return id
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
