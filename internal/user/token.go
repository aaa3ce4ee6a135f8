package user

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenIssuer signs HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(u User) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"role":    string(u.Role),
		"email":   u.Email,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	u := c.Locals("user")
	if u == nil {
		return nil, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// IdentityFromCtx extracts the user_id and role claims from the JWT stored in
// c.Locals("user") by the auth middleware.
func IdentityFromCtx(c *fiber.Ctx) (Identity, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}
	raw, ok := claims["user_id"]
	if !ok {
		return Identity{}, ErrUnauthorized
	}

	var id int64
	switch v := raw.(type) {
	case float64:
		id = int64(v)
	case int:
		id = int64(v)
	case int64:
		id = v
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Identity{}, ErrUnauthorized
		}
		id = parsed
	default:
		return Identity{}, ErrUnauthorized
	}
	if id <= 0 {
		return Identity{}, ErrUnauthorized
	}

	role := RoleUser
	if r, ok := claims["role"].(string); ok && Role(r).Valid() {
		role = Role(r)
	}
	return Identity{ID: id, Role: role}, nil
}

// tokenMetaFromCtx returns the jti and expiry of the presented token.
func tokenMetaFromCtx(c *fiber.Ctx) (string, time.Time, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", time.Time{}, ErrUnauthorized
	}
	jti, _ := claims["jti"].(string)
	var exp time.Time
	if v, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(v), 0)
	}
	return jti, exp, nil
}
