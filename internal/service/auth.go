// Package service contains application services for authentication,
// licensing, activation requests and the program catalog.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	pkgcrypto "github.com/licensegate/licensegate/internal/crypto"
	"github.com/licensegate/licensegate/internal/errs"
	"github.com/licensegate/licensegate/internal/limiter"
	"github.com/licensegate/licensegate/internal/model"
	"github.com/licensegate/licensegate/internal/repository"
)

// Claims is the JWT payload for the authenticated surface. The role claim
// is what the admin-only middleware checks; the core never reads ambient
// session state.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService defines authentication and account operations.
type AuthService interface {
	// Register creates a new guest user with secure password hashing.
	Register(ctx context.Context, username, password string) (userID string, err error)
	// LoginWithIP applies rate-limiting and authenticates the user.
	LoginWithIP(ctx context.Context, username, password, ip string) (tokens model.Tokens, user model.User, err error)
	// EnsureAdmin creates the admin account on first run; no-op when the
	// username already exists.
	EnsureAdmin(ctx context.Context, username, password string) error
	// ListUsers returns all accounts for the admin view.
	ListUsers(ctx context.Context) ([]model.User, error)
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, signKey: signKey, accessTTL: accessTTL, lim: lim}
}

// Register creates a new guest user record with a per-user salt.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) (string, error) {
	return s.createUser(ctx, username, password, model.RoleGuest)
}

// EnsureAdmin creates the admin account when it does not exist yet.
// Credentials come from the environment at startup, never from source.
func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	_, err = s.createUser(ctx, username, password, model.RoleAdmin)
	if errors.Is(err, errs.ErrAlreadyExists) {
		// lost a bootstrap race, the account is there
		return nil
	}
	return err
}

func (s *AuthServiceImpl) createUser(ctx context.Context, username, password string, role model.Role) (string, error) {
	if username == "" || password == "" {
		return "", errs.ErrInvalidRequest
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	saltAuth, err := pkgcrypto.RandBytes(16)
	if err != nil {
		return "", err
	}
	u := &model.User{
		ID:       uid,
		Username: username,
		PwdHash:  pkgcrypto.HashPassword([]byte(password), saltAuth),
		SaltAuth: saltAuth,
		Role:     role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}
	return uid.String(), nil
}

// LoginWithIP authenticates with rate limiting by (username, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, username, password, ip string) (model.Tokens, model.User, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	if !allowed {
		return model.Tokens{}, model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.User{}, errs.ErrRateLimited
		}
		// hide whether the user exists
		return model.Tokens{}, model.User{}, errs.ErrUnauthorized
	}

	_ = s.lim.Success(ctx, username, ipHash)

	access, exp, err := s.issueAccessToken(u)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, *u, nil
}

// ListUsers returns all accounts for the admin view.
func (s *AuthServiceImpl) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// issueAccessToken creates a signed HS256 JWT carrying the user's role.
func (s *AuthServiceImpl) issueAccessToken(u *model.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := Claims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}
