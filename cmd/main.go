package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/S1mon009/auth-service/config"
	"github.com/S1mon009/auth-service/db"
	"github.com/S1mon009/auth-service/internal/audit"
	"github.com/S1mon009/auth-service/internal/auth/handler"
	repo "github.com/S1mon009/auth-service/internal/auth/repository/postgres"
	"github.com/S1mon009/auth-service/internal/auth/service"
	"github.com/S1mon009/auth-service/internal/email"
	"github.com/S1mon009/auth-service/internal/logging"
	"github.com/S1mon009/auth-service/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logging.Setup(os.Stdout, cfg.LogLevel)

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer dbPool.Close()

	if err := db.Migrate(cfg.DBURL); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	userRepo := repo.NewPostgresRepository(dbPool)
	auditRepo := repo.NewAuditRepository(dbPool)

	dispatcher := audit.NewDispatcher(audit.NewRepositorySink(auditRepo), cfg.AuditBufferSize)
	defer dispatcher.Close()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	mailer := email.New(email.Config{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		User:        cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		From:        cfg.EmailFrom,
		FrontendURL: cfg.FrontendURL,
	})

	userService := service.NewUserService(userRepo, tokenService, hasher, mailer, dispatcher, collector, cfg)
	usersService := service.NewUsersService(userRepo, auditRepo, userService, dispatcher)

	authHandler := handler.NewAuthHandler(userService, cfg)
	userHandler := handler.NewUserHandler(usersService)

	app := fiber.New()
	app.Use(handler.NewRequestLogger(slog.Default()))
	handler.RegisterRoutes(app, authHandler, userHandler, tokenService, reg)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	slog.Info("server started", slog.String("port", cfg.Port), slog.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		slog.Error("shutdown failed", slog.String("error", err.Error()))
	}
}
