package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smart-campus-api/internal/domain"
	"github.com/smart-campus-api/internal/pkg/clock"
	"golang.org/x/crypto/bcrypt"
)

type LoginResult struct {
	Token string          `json:"token"`
	User  domain.UserView `json:"user"`
}

type Service interface {
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
}

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

type tokenSigner interface {
	Sign(userID, role string) (string, error)
}

type service struct {
	users  userStore
	tokens tokenSigner
	clock  clock.Clock
}

func NewService(users userStore, tokens tokenSigner, c clock.Clock) Service {
	if c == nil {
		c = clock.Real()
	}
	return &service{users: users, tokens: tokens, clock: c}
}

// Login accepts a username or an email as the identifier.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	u, err := s.lookup(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if u.Status == domain.StatusDisabled {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if s.tokens == nil {
		return nil, fmt.Errorf("token signing not configured: %w", domain.ErrInternal)
	}

	now := s.clock.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, u.UserID, now); err != nil {
		slog.Warn("failed to record last login", "user_id", u.UserID, "err", err)
	} else {
		u.LastLoginAt = &now
	}
	token, err := s.tokens.Sign(u.UserID, u.Role)
	if err != nil {
		slog.Error("sign token failed", "user_id", u.UserID, "err", err)
		return nil, fmt.Errorf("sign token: %w", domain.ErrInternal)
	}
	return &LoginResult{Token: token, User: u.View()}, nil
}

func (s *service) lookup(ctx context.Context, identifier string) (*domain.User, error) {
	u, err := s.users.GetByUsername(ctx, identifier)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", domain.ErrInternal)
	}
	u, err = s.users.GetByEmail(ctx, identifier)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", domain.ErrInternal)
	}
	return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
}
