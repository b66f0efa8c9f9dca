// Copyright 2026 The OpenLMS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

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

	"github.com/redis/go-redis/v9"

	"github.com/openlms/openlms/internal/audit"
	"github.com/openlms/openlms/internal/auth"
	"github.com/openlms/openlms/internal/client"
	"github.com/openlms/openlms/internal/config"
	"github.com/openlms/openlms/internal/course"
	"github.com/openlms/openlms/internal/identity"
	"github.com/openlms/openlms/internal/instructor"
	"github.com/openlms/openlms/internal/isolation"
	"github.com/openlms/openlms/internal/notification"
	"github.com/openlms/openlms/internal/observability/logger"
	"github.com/openlms/openlms/internal/observability/metrics"
	"github.com/openlms/openlms/internal/observability/tracing"
	"github.com/openlms/openlms/internal/realtime"
	"github.com/openlms/openlms/internal/specialization"
	"github.com/openlms/openlms/internal/store/postgres"
	"github.com/openlms/openlms/internal/student"
	"github.com/openlms/openlms/internal/tenant"
	transportHTTP "github.com/openlms/openlms/internal/transport/http"
)

// userResolver resolves notification recipients to their account's
// email address. Lookups run in the caller's tenant scope.
type userResolver struct {
	identity *identity.Service
}

func (r *userResolver) Resolve(ctx context.Context, recipientID string) (*notification.Recipient, error) {
	u, err := r.identity.GetUser(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &notification.Recipient{Email: u.Email, FullName: u.FullName}, nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting openlms server")

	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}

	// Initialize database
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", logger.Error(err))
		os.Exit(1)
	}

	// Every repository below routes through this dispatcher, so tenant
	// scoping and soft deletes apply uniformly.
	chain := isolation.NewDefaultChain(cfg.Isolation.FailOpen)
	dispatcher := postgres.NewDispatcher(db, chain, meter)

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepository(dispatcher)
	clientRepo := postgres.NewClientRepository(dispatcher)
	userRepo := postgres.NewUserRepository(dispatcher)
	specializationRepo := postgres.NewSpecializationRepository(dispatcher)
	courseRepo := postgres.NewCourseRepository(dispatcher)
	instructorRepo := postgres.NewInstructorRepository(dispatcher)
	studentRepo := postgres.NewStudentRepository(dispatcher)
	enrollmentRepo := postgres.NewEnrollmentRepository(dispatcher)
	notificationRepo := postgres.NewNotificationRepository(dispatcher)

	// Initialize helpers
	auditLogger := audit.NewSlogLogger()
	passwordHasher := identity.NewPasswordHasher(
		cfg.Auth.Argon2Memory,
		cfg.Auth.Argon2Iterations,
		cfg.Auth.Argon2Parallelism,
		cfg.Auth.Argon2SaltLength,
		cfg.Auth.Argon2KeyLength,
	)

	// Token revocation store: Redis when configured, in-process otherwise.
	var revoker auth.Revoker
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect to redis", logger.Error(err))
			os.Exit(1)
		}
		defer redisClient.Close()
		revoker = auth.NewRedisRevoker(redisClient)
		slog.Info("connected to redis")
	}

	tokenService := auth.NewTokenService(
		[]byte(cfg.Auth.SigningKey),
		cfg.Auth.Issuer,
		cfg.Auth.AccessTokenTTL,
		revoker,
	)

	// Initialize services
	identityService := identity.NewService(
		userRepo,
		passwordHasher,
		auditLogger,
		cfg.Auth.LockoutMaxAttempt,
		cfg.Auth.LockoutDuration,
	)
	// Seed the first super admin when configured. Idempotent: an existing
	// account is left alone.
	if cfg.Bootstrap.AdminEmail != "" {
		bootstrapCtx := isolation.WithoutIsolation(ctx)
		_, err := identityService.Register(bootstrapCtx, "",
			cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminName,
			identity.RoleSuperAdmin, cfg.Bootstrap.AdminPassword)
		switch {
		case err == nil:
			slog.Info("bootstrapped super admin account", logger.Email(cfg.Bootstrap.AdminEmail))
		case errors.Is(err, identity.ErrUserAlreadyExists):
			// Already seeded on a previous start.
		default:
			slog.Error("bootstrap failed", logger.Error(err))
			os.Exit(1)
		}
	}

	tenantService := tenant.NewService(tenantRepo, auditLogger)
	clientService := client.NewService(clientRepo, auditLogger)
	specializationService := specialization.NewService(specializationRepo, auditLogger)
	courseService := course.NewService(courseRepo, auditLogger)
	instructorService := instructor.NewService(instructorRepo, auditLogger)
	studentService := student.NewService(studentRepo, enrollmentRepo, courseRepo, auditLogger)

	// Notification fanout: persistence always, websocket push via the hub,
	// email only when Sendgrid is configured.
	hub := realtime.NewHub(0)
	var emailSender notification.EmailSender
	if cfg.Email.SendgridAPIKey != "" {
		emailSender = notification.NewSendgridSender(
			cfg.Email.SendgridAPIKey,
			cfg.Email.FromName,
			cfg.Email.FromAddress,
			cfg.Email.SubjectPrefix,
		)
		slog.Info("email delivery enabled")
	}
	notificationService := notification.NewService(
		notificationRepo,
		hub,
		emailSender,
		&userResolver{identity: identityService},
		auditLogger,
	)

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		tokenService,
		identityService,
		tenantService,
		clientService,
		specializationService,
		courseService,
		instructorService,
		studentService,
		notificationService,
		hub,
		auditLogger,
	)

	// Create router
	router := transportHTTP.NewRouter(handler, rateLimiter)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", logger.Error(err))
	}

	slog.Info("server stopped")
}
