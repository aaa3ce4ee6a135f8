package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/arts-market-backend/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

func TestService_RegisterHashesPassword(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{
		Email:     "  Buyer@Example.com ",
		Password:  "secret1",
		FirstName: "Ann",
		LastName:  "Lee",
	})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", created.Email)
	assert.Equal(t, RoleUser, created.Role)
	assert.NotEqual(t, "secret1", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret1")))
	assert.False(t, created.CreatedAt.IsZero())
}

func TestService_RegisterValidation(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"missing names": {Email: "a@b.c", Password: "secret1"},
		"bad email":     {Email: "nope", Password: "secret1", FirstName: "A", LastName: "B"},
		"short pass":    {Email: "a@b.c", Password: "123", FirstName: "A", LastName: "B"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestService_RegisterDuplicate(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	in := RegisterInput{Email: "dup@example.com", Password: "secret1", FirstName: "A", LastName: "B"}

	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	in.Email = "DUP@example.com"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestService_LoginAndLogout(t *testing.T) {
	svc, deny := newTestService(nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, User{Email: "owner@example.com", Password: "gallery", FirstName: "O", LastName: "W", Role: RoleStoreOwner})
	require.NoError(t, err)

	token, u, err := svc.Login(ctx, "owner@example.com", "gallery")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, RoleStoreOwner, u.Role)

	_, _, err = svc.Login(ctx, "owner@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "ghost@example.com", "gallery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.Logout(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := deny.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	err = svc.Logout(ctx, "", time.Now())
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestService_CreateKeepsExistingHash(t *testing.T) {
	svc, _ := newTestService(nil)
	hash, err := bcrypt.GenerateFromPassword([]byte("pw1234"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), User{Email: "h@example.com", Password: string(hash), Role: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, string(hash), created.Password)
	assert.Equal(t, RoleUser, created.Role)
}
