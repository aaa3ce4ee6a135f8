package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wichananm65/arts-market-backend/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type Service struct {
	repo     Repository
	tokens   *TokenIssuer
	denylist Denylist
	now      func() time.Time
}

func NewService(repo Repository, tokens *TokenIssuer, denylist Denylist) *Service {
	return &Service{repo: repo, tokens: tokens, denylist: denylist, now: time.Now}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a user with any role; plain passwords are hashed first. Used for seeding.
func (s *Service) Create(ctx context.Context, u User) (User, error) {
	if u.Password != "" && !looksLikeBcrypt(u.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		u.Password = string(hashed)
	}
	if !u.Role.Valid() {
		u.Role = RoleUser
	}
	now := s.now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return s.repo.Create(ctx, u)
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if email == "" || in.Password == "" || first == "" || last == "" {
		return User{}, apperr.Validation("email, password, firstName and lastName are required")
	}
	if !strings.Contains(email, "@") {
		return User{}, apperr.Validation("invalid email")
	}
	if len(in.Password) < minPasswordLength {
		return User{}, apperr.Validation("password must be at least 6 characters")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	return s.Create(ctx, User{
		Email:     email,
		Password:  in.Password,
		FirstName: first,
		LastName:  last,
		Role:      RoleUser,
	})
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", User{}, err
	}
	token, _, err := s.tokens.Issue(u)
	if err != nil {
		return "", User{}, apperr.Internal(err)
	}
	return token, u, nil
}

func (s *Service) Logout(ctx context.Context, jti string, exp time.Time) error {
	if jti == "" {
		return apperr.Validation("token has no id")
	}
	return s.denylist.Revoke(ctx, jti, exp)
}

func looksLikeBcrypt(value string) bool {
	return len(value) > 4 && value[0:2] == "$2"
}
