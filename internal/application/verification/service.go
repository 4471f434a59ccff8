package verification

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smart-campus-api/internal/domain"
	"github.com/smart-campus-api/internal/pkg/code"
	"github.com/smart-campus-api/internal/pkg/ratelimit"
	"github.com/smart-campus-api/internal/pkg/ttlstore"
)

const (
	DefaultCodeTTL      = 10 * time.Minute
	DefaultSendCooldown = 60 * time.Second

	codeKeyPrefix     = "email:"
	cooldownKeyPrefix = "verify:"
)

// VerifyResult is the outcome of checking a submitted code.
type VerifyResult int

const (
	VerifyInvalid VerifyResult = iota
	VerifyValid
	// VerifyExpired covers both expired and never-issued codes.
	VerifyExpired
)

func (r VerifyResult) String() string {
	switch r {
	case VerifyValid:
		return "valid"
	case VerifyExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// IssueResult describes a committed code issuance.
type IssueResult struct {
	Email     string `json:"email"`
	ExpiresIn int    `json:"expiresIn"`
	// MailDelivered is false when the mail collaborator failed. The code is
	// still active; the caller decides whether to surface Warning.
	MailDelivered bool   `json:"mailDelivered"`
	Warning       string `json:"warning,omitempty"`
}

type Service interface {
	IssueCode(ctx context.Context, email string) (*IssueResult, error)
	VerifyCode(ctx context.Context, email, submitted string) VerifyResult
}

type userStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	users        userStore
	mailer       mailer
	codes        *ttlstore.Store[string]
	limiter      *ratelimit.Limiter
	generator    code.Generator
	codeTTL      time.Duration
	sendCooldown time.Duration
}

type ServiceDeps struct {
	UserRepo     userStore
	Mailer       mailer // nil disables delivery; codes are still issued
	Codes        *ttlstore.Store[string]
	Limiter      *ratelimit.Limiter
	Generator    code.Generator
	CodeTTL      time.Duration
	SendCooldown time.Duration
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		users:        deps.UserRepo,
		mailer:       deps.Mailer,
		codes:        deps.Codes,
		limiter:      deps.Limiter,
		generator:    deps.Generator,
		codeTTL:      deps.CodeTTL,
		sendCooldown: deps.SendCooldown,
	}
	if s.generator == nil {
		s.generator = code.Digits{Length: code.DefaultLength}
	}
	if s.codeTTL <= 0 {
		s.codeTTL = DefaultCodeTTL
	}
	if s.sendCooldown <= 0 {
		s.sendCooldown = DefaultSendCooldown
	}
	return s
}

func (s *service) IssueCode(ctx context.Context, email string) (*IssueResult, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email %q: %w", email, domain.ErrInvalidEmail)
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		slog.Error("email lookup failed", "email", email, "err", err)
		return nil, fmt.Errorf("check email: %w", domain.ErrInternal)
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}
	if d := s.limiter.TryAcquire(cooldownKeyPrefix+email, s.sendCooldown); !d.Allowed {
		return nil, &domain.RateLimitError{Scope: "verification code", Remaining: d.RemainingSeconds()}
	}

	c, err := s.generator.Generate()
	if err != nil {
		slog.Error("verification code generation failed", "err", err)
		return nil, fmt.Errorf("generate code: %w", domain.ErrInternal)
	}
	s.codes.Put(codeKeyPrefix+email, c, s.codeTTL)

	res := &IssueResult{
		Email:         email,
		ExpiresIn:     int(s.codeTTL / time.Second),
		MailDelivered: true,
	}
	if err := s.deliver(email, c); err != nil {
		slog.Warn("verification mail not delivered, code remains active", "email", email, "err", err)
		res.MailDelivered = false
		res.Warning = "verification email could not be delivered; request a new code shortly"
	} else {
		slog.Info("verification code issued", "email", email, "expires_in", res.ExpiresIn)
	}
	return res, nil
}

func (s *service) deliver(email, c string) error {
	if s.mailer == nil {
		return fmt.Errorf("mail service not configured")
	}
	body, err := renderEmail(c, s.codeTTL)
	if err != nil {
		return err
	}
	return s.mailer.SendEmail(email, emailSubject, body)
}

// VerifyCode consumes the stored code for email. The read is destructive
// whether or not the code matches: a wrong guess forces a new issuance.
func (s *service) VerifyCode(_ context.Context, email, submitted string) VerifyResult {
	email = strings.TrimSpace(email)
	if email == "" || submitted == "" {
		return VerifyInvalid
	}
	stored, ok := s.codes.Take(codeKeyPrefix + email)
	if !ok {
		return VerifyExpired
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) != 1 {
		slog.Info("verification code mismatch, code consumed", "email", email)
		return VerifyInvalid
	}
	return VerifyValid
}
