package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/smart-campus-api/internal/config"
	"github.com/smart-campus-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/smart-campus-api/internal/infrastructure/jwt"
	s3infra "github.com/smart-campus-api/internal/infrastructure/s3"
	"github.com/smart-campus-api/internal/infrastructure/smtp"
	"github.com/smart-campus-api/internal/pkg/clock"
	"github.com/smart-campus-api/internal/pkg/ratelimit"
	"github.com/smart-campus-api/internal/pkg/sweeper"
	"github.com/smart-campus-api/internal/pkg/ttlstore"
	transporthttp "github.com/smart-campus-api/internal/transport/http"
	appmiddleware "github.com/smart-campus-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	setupLogger(cfg)
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	if err := run(cfg); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(h))
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(awsCfg, cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	avatars := s3infra.NewAvatarStore(s3infra.NewClient(awsCfg, cfg), cfg.S3BucketName, cfg.S3PublicBaseURL)
	if cfg.AWSEndpointURL != "" {
		avatars.EnsureBucket(ctx)
	}

	// JWT provider (optional: login and profile routes answer 401 without it).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		slog.Warn("JWT provider not available", "err", err)
	}

	var mailer smtp.Mailer
	if cfg.SMTPHost != "" {
		mailer = smtp.NewMailer(cfg)
	} else {
		slog.Warn("SMTP_HOST not set, verification mail disabled")
	}

	clk := clock.Real()
	codes := ttlstore.New[string](clk)
	limiter := ratelimit.New(clk)
	// 5 requests/second, burst of 10, in front of the per-action cooldowns.
	burst := appmiddleware.NewRateLimiter(rate.Limit(5), 10, clk)

	sw, err := sweeper.New(cfg.SweepInterval)
	if err != nil {
		return err
	}
	for name, fn := range map[string]sweeper.SweepFunc{
		"verification_codes": codes.Sweep,
		"cooldowns":          limiter.Sweep,
		"burst_buckets":      burst.Sweep,
	} {
		if err := sw.Register(name, fn); err != nil {
			return err
		}
	}
	sw.Start()

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users, cfg.DynamoTables.UserUniques),
		AvatarStore: avatars,
		Mailer:      mailer,
		JWTProvider: jwtProvider,
		Clock:       clk,
		Codes:       codes,
		Limiter:     limiter,
		BurstGuard:  burst,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	sw.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
