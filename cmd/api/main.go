package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/sla-service/internal/api/http"
	"github.com/spec-kit/sla-service/internal/api/http/handlers"
	"github.com/spec-kit/sla-service/internal/auth"
	"github.com/spec-kit/sla-service/internal/config"
	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/events"
	"github.com/spec-kit/sla-service/internal/observability"
	"github.com/spec-kit/sla-service/internal/persistence"
	"github.com/spec-kit/sla-service/internal/repository"
	"github.com/spec-kit/sla-service/internal/service"
	"github.com/spec-kit/sla-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()

	var trackingRepo repository.TrackingRepository
	var adminRepo repository.AdminRepository
	var resetRepo repository.PasswordResetRepository
	if pool != nil {
		trackingRepo = repository.NewTrackingRepository(pool)
		adminRepo = repository.NewAdminRepository(pool)
		resetRepo = repository.NewPasswordResetRepository(pool)
	} else {
		trackingRepo = repository.NewMemoryTrackingRepository()
		adminRepo = repository.NewMemoryAdminRepository()
		resetRepo = repository.NewMemoryPasswordResetRepository()
		seedBootstrapAdmin(ctx, adminRepo, cfg.Auth, logger)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	configService := service.NewConfigService(ctx, repository.NewRedisConfigRepository(redis.Client), dispatcher, logger)
	trackingService := service.NewTrackingService(service.TrackingDependencies{
		TrackingRepo: trackingRepo,
		Config:       configService,
		Dispatcher:   dispatcher,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo:         adminRepo,
		PasswordResetRepo: resetRepo,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Trackings:      handlers.NewTrackingsHandler(trackingService),
		Dashboard:      handlers.NewDashboardHandler(trackingService),
		Config:         handlers.NewConfigHandler(configService),
		AuthMiddleware: authMiddleware,
	})

	var scanner *worker.EscalationScanner
	if cfg.Scheduler.Enabled {
		scanner = worker.NewEscalationScanner(trackingService, configService, dispatcher, cfg.Scheduler.CronSpec, logger)
		if err := scanner.Start(); err != nil {
			logger.Fatal("failed to start escalation scanner", zap.Error(err))
		}
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if scanner != nil {
		scanner.Stop()
	}
	_ = app.Shutdown()
}

func seedBootstrapAdmin(ctx context.Context, admins repository.AdminRepository, cfg config.AuthConfig, logger *zap.Logger) {
	hash, err := auth.HashPassword(cfg.BootstrapPassword, cfg.BcryptCost)
	if err != nil {
		logger.Warn("failed to seed bootstrap admin", zap.Error(err))
		return
	}
	admin := &domain.Admin{
		Name:         "Bootstrap Admin",
		Email:        cfg.BootstrapEmail,
		PasswordHash: hash,
		Role:         domain.AdminRoleAdmin,
		Active:       true,
	}
	if err := admins.Create(ctx, admin); err != nil {
		logger.Warn("failed to seed bootstrap admin", zap.Error(err))
		return
	}
	logger.Info("seeded bootstrap admin", zap.String("email", admin.Email))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
