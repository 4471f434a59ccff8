package user

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/smart-campus-api/internal/application/verification"
	"github.com/smart-campus-api/internal/domain"
	"github.com/smart-campus-api/internal/pkg/clock"
	"github.com/smart-campus-api/internal/pkg/id"
	"github.com/smart-campus-api/internal/pkg/ratelimit"
	"github.com/smart-campus-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// DefaultRegisterCooldown is the minimum gap between registrations from one client IP.
const DefaultRegisterCooldown = 30 * time.Second

// registerKeyPrefix namespaces per-IP registration cooldowns in the shared limiter.
const registerKeyPrefix = "register:"

// DynamoDB attribute names used in partial update maps.
const (
	fieldAvatarURL = "avatar_url"
)

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest, clientIP string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	UploadAvatar(ctx context.Context, userID string, r io.Reader, contentType string) (*domain.User, error)
	List(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type userStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	// Create persists u and reports domain.ErrConflict when a unique field is taken.
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type codeVerifier interface {
	VerifyCode(ctx context.Context, email, code string) verification.VerifyResult
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	repo             userStore
	verifier         codeVerifier
	limiter          *ratelimit.Limiter
	avatars          objectStore
	clock            clock.Clock
	registerCooldown time.Duration
	passwordCost     int
}

type ServiceDeps struct {
	UserRepo         userStore
	Verifier         codeVerifier
	Limiter          *ratelimit.Limiter
	AvatarStore      objectStore
	Clock            clock.Clock
	RegisterCooldown time.Duration
	// PasswordCost overrides bcrypt.DefaultCost; tests lower it.
	PasswordCost int
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		repo:             deps.UserRepo,
		verifier:         deps.Verifier,
		limiter:          deps.Limiter,
		avatars:          deps.AvatarStore,
		clock:            deps.Clock,
		registerCooldown: deps.RegisterCooldown,
		passwordCost:     deps.PasswordCost,
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.registerCooldown <= 0 {
		s.registerCooldown = DefaultRegisterCooldown
	}
	if s.passwordCost == 0 {
		s.passwordCost = bcrypt.DefaultCost
	}
	return s
}

// Register gates account creation. The client IP cooldown is charged first
// and is not refunded when a later step fails.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest, clientIP string) (*domain.User, error) {
	if d := s.limiter.TryAcquire(registerKeyPrefix+clientIP, s.registerCooldown); !d.Allowed {
		return nil, &domain.RateLimitError{Scope: "registration", Remaining: d.RemainingSeconds()}
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Var(req.Username, "campus_username"); err != nil {
		return nil, domain.ErrInvalidUsername
	}
	if err := validate.Var(req.Password, "campus_password"); err != nil {
		return nil, domain.ErrInvalidPassword
	}
	if err := validate.Var(req.Email, "has_at"); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if res := s.verifier.VerifyCode(ctx, req.Email, req.VerifyCode); res != verification.VerifyValid {
		return nil, fmt.Errorf("code %s: %w", res, domain.ErrInvalidCode)
	}
	if err := s.checkUnique(ctx, req); err != nil {
		return nil, err
	}

	u, err := s.newUser(req, clientIP)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			return nil, err
		}
		slog.Error("create user failed", "username", u.Username, "err", err)
		return nil, fmt.Errorf("create user: %w", domain.ErrInternal)
	}
	slog.Info("user registered", "user_id", u.UserID, "username", u.Username, "ip", clientIP)
	return u, nil
}

type uniqueCheck struct {
	field  string
	value  string
	exists func(context.Context, string) (bool, error)
}

func (s *service) checkUnique(ctx context.Context, req domain.RegisterRequest) error {
	checks := []uniqueCheck{
		{"username", req.Username, s.repo.ExistsByUsername},
		{"email", req.Email, s.repo.ExistsByEmail},
	}
	if sid := trimmed(req.StudentID); sid != "" {
		checks = append(checks, uniqueCheck{"student id", sid, s.repo.ExistsByStudentID})
	}
	for _, c := range checks {
		exists, err := c.exists(ctx, c.value)
		if err != nil {
			slog.Error("uniqueness check failed", "field", c.field, "err", err)
			return fmt.Errorf("check %s: %w", c.field, domain.ErrInternal)
		}
		if exists {
			return fmt.Errorf("%s already registered: %w", c.field, domain.ErrConflict)
		}
	}
	return nil
}

func (s *service) newUser(req domain.RegisterRequest, clientIP string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", domain.ErrInternal)
	}
	now := s.clock.Now().UTC()
	gender := domain.GenderUnknown
	if req.Gender != nil {
		gender = *req.Gender
	}
	return &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Gender:       gender,
		Status:       domain.StatusActive,
		Role:         domain.RoleUser,
		StudentID:    trimmed(req.StudentID),
		Major:        trimmed(req.Major),
		College:      trimmed(req.College),
		Grade:        trimmed(req.Grade),
		Metadata: map[string]any{
			"theme":             "light",
			"notifications":     true,
			"registered_via":    "web",
			"registration_time": now.Format(time.RFC3339),
			"register_ip":       clientIP,
		},
		CreatedAt: now,
	}, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) UploadAvatar(ctx context.Context, userID string, r io.Reader, contentType string) (*domain.User, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported avatar type %q: %w", contentType, domain.ErrBadRequest)
	}
	if s.avatars == nil {
		return nil, fmt.Errorf("avatar storage not configured: %w", domain.ErrInternal)
	}
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("avatars/%s/%s%s", userID, id.New(), ext)
	url, err := s.avatars.Upload(ctx, key, r, contentType)
	if err != nil {
		slog.Error("avatar upload failed", "user_id", userID, "err", err)
		return nil, fmt.Errorf("upload avatar: %w", domain.ErrInternal)
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{fieldAvatarURL: url}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func (s *service) List(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return s.repo.ScanPage(ctx, limit, cursor)
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
