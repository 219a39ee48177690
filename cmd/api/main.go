package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/nexus-hrm/hrm-service/internal/api/http"
	"github.com/nexus-hrm/hrm-service/internal/api/http/handlers"
	"github.com/nexus-hrm/hrm-service/internal/auth"
	"github.com/nexus-hrm/hrm-service/internal/config"
	"github.com/nexus-hrm/hrm-service/internal/events"
	"github.com/nexus-hrm/hrm-service/internal/insight"
	"github.com/nexus-hrm/hrm-service/internal/observability"
	"github.com/nexus-hrm/hrm-service/internal/persistence"
	"github.com/nexus-hrm/hrm-service/internal/repository"
	"github.com/nexus-hrm/hrm-service/internal/roblox"
	"github.com/nexus-hrm/hrm-service/internal/service"
	"github.com/nexus-hrm/hrm-service/internal/worker"
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
	staffRepo := repository.NewStaffRepository(pool)
	groupRepo := repository.NewGroupRepository(pool)

	sessions := persistence.NewSessionStore(redis, cfg.Auth.SessionTTL())
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	robloxClient := roblox.NewClient(cfg.Roblox, logger)
	geminiClient := insight.NewClient(cfg.Gemini, logger)

	authService := service.NewAuthService(cfg.Auth, tokens, sessions, logger)
	groupService := service.NewGroupService(service.GroupDependencies{
		Source:     robloxClient,
		Inferrer:   geminiClient,
		GroupRepo:  groupRepo,
		StaffRepo:  staffRepo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	}, cfg.Roblox.MemberPageSize)
	staffService := service.NewStaffService(staffRepo, dispatcher, logger)
	insightService := service.NewInsightService(geminiClient, staffRepo, metrics, logger)

	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), sessions)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Group:          handlers.NewGroupHandler(groupService),
		Staff:          handlers.NewStaffHandler(staffService),
		Insight:        handlers.NewInsightHandler(insightService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
