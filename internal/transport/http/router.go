package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/smart-campus-api/internal/application/session"
	"github.com/smart-campus-api/internal/application/user"
	"github.com/smart-campus-api/internal/application/verification"
	"github.com/smart-campus-api/internal/config"
	"github.com/smart-campus-api/internal/domain"
	jwtinfra "github.com/smart-campus-api/internal/infrastructure/jwt"
	"github.com/smart-campus-api/internal/infrastructure/smtp"
	"github.com/smart-campus-api/internal/pkg/clock"
	"github.com/smart-campus-api/internal/pkg/code"
	"github.com/smart-campus-api/internal/pkg/ratelimit"
	"github.com/smart-campus-api/internal/pkg/ttlstore"
	"github.com/smart-campus-api/internal/transport/http/handler"
	appmiddleware "github.com/smart-campus-api/internal/transport/http/middleware"
)

// Deps holds the collaborators the router wires into services. Codes,
// Limiter and BurstGuard are shared with the process sweeper.
type Deps struct {
	UserRepo    UserRepository
	AvatarStore ObjectStore
	Mailer      smtp.Mailer
	JWTProvider *jwtinfra.Provider
	Clock       clock.Clock
	Codes       *ttlstore.Store[string]
	Limiter     *ratelimit.Limiter
	BurstGuard  *appmiddleware.RateLimiter
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	var signer interface {
		Sign(userID, role string) (string, error)
	}
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
		signer = deps.JWTProvider
	} else {
		authMw = func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"authentication unavailable","kind":"Unauthorized"}` + "\n"))
			})
		}
	}

	verifySvc := verification.NewService(verification.ServiceDeps{
		UserRepo:     deps.UserRepo,
		Mailer:       deps.Mailer,
		Codes:        deps.Codes,
		Limiter:      deps.Limiter,
		Generator:    code.Digits{Length: cfg.Verification.CodeLength},
		CodeTTL:      cfg.Verification.CodeTTL,
		SendCooldown: cfg.Verification.SendCooldown,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:         deps.UserRepo,
		Verifier:         verifySvc,
		Limiter:          deps.Limiter,
		AvatarStore:      deps.AvatarStore,
		Clock:            deps.Clock,
		RegisterCooldown: cfg.RegisterCooldown,
	})
	sessionSvc := session.NewService(deps.UserRepo, signer, deps.Clock)

	healthH := handler.NewHealthHandler(deps.UserRepo, deps.Mailer != nil, deps.Clock)
	verifyH := handler.NewVerificationHandler(verifySvc)
	userH := handler.NewUserHandler(userSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)

	r.Route("/v1", func(r chi.Router) {
		// public
		r.Get("/test", healthH.Test)
		r.Group(func(r chi.Router) {
			r.Use(deps.BurstGuard.Limit)
			r.Post("/verify/email", verifyH.SendEmailCode)
			r.Post("/register", userH.Register)
			r.Post("/login", sessionH.Login)
		})

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users/me", userH.Me)
			r.Put("/users/me/avatar", userH.UploadAvatar)

			r.With(appmiddleware.RequireRole(domain.RoleAdmin)).Get("/users", userH.List)
		})
	})

	return r
}
