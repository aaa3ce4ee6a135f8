package user

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/arts-market-backend/internal/interface/presenter"
)

func protectedApp(secret string, deny Denylist) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: presenter.ErrorHandler})
	app.Use(Protect(secret, deny))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		ident, err := IdentityFromCtx(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": ident.ID, "role": ident.Role})
	})
	app.Get("/admin", RequireRole(RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestProtect_ValidAndInvalidTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	deny := NewInMemoryDenylist()
	app := protectedApp("secret", deny)

	token, _, err := issuer.Issue(User{ID: 3, Email: "x@y.z", Role: RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", res.StatusCode)
	}

	res2, _ := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	if res2.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res2.StatusCode)
	}

	forged, _, _ := NewTokenIssuer("other-secret", time.Hour).Issue(User{ID: 3, Role: RoleAdmin})
	req3 := httptest.NewRequest("GET", "/whoami", nil)
	req3.Header.Set("Authorization", "Bearer "+forged)
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 with forged token, got %d", res3.StatusCode)
	}

	expiredIssuer := NewTokenIssuer("secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, _ := expiredIssuer.Issue(User{ID: 3, Role: RoleUser})
	req4 := httptest.NewRequest("GET", "/whoami", nil)
	req4.Header.Set("Authorization", "Bearer "+expired)
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 with expired token, got %d", res4.StatusCode)
	}
}

func TestProtect_RevokedToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	deny := NewInMemoryDenylist()
	app := protectedApp("secret", deny)

	token, exp, _ := issuer.Issue(User{ID: 4, Role: RoleUser})
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	jti := parsed.Claims.(jwt.MapClaims)["jti"].(string)
	if err := deny.Revoke(context.Background(), jti, exp); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked token, got %d", res.StatusCode)
	}
}

func TestRequireRole(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	app := protectedApp("secret", NewInMemoryDenylist())

	userToken, _, _ := issuer.Issue(User{ID: 1, Role: RoleUser})
	adminToken, _, _ := issuer.Issue(User{ID: 2, Role: RoleAdmin})

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for plain user, got %d", res.StatusCode)
	}

	req2 := httptest.NewRequest("GET", "/admin", nil)
	req2.Header.Set("Authorization", "Bearer "+adminToken)
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 for admin, got %d", res2.StatusCode)
	}
}

func TestInMemoryDenylist_Expiry(t *testing.T) {
	d := NewInMemoryDenylist()
	now := time.Now()
	d.now = func() time.Time { return now }
	ctx := context.Background()

	_ = d.Revoke(ctx, "a", now.Add(time.Minute))
	if ok, _ := d.IsRevoked(ctx, "a"); !ok {
		t.Fatalf("expected a revoked")
	}
	d.now = func() time.Time { return now.Add(2 * time.Minute) }
	if ok, _ := d.IsRevoked(ctx, "a"); ok {
		t.Fatalf("expected a to expire from the denylist")
	}
}
