package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	httptransport "github.com/supportdesk/inquiry-service/internal/api/http"
	"github.com/supportdesk/inquiry-service/internal/api/http/handlers"
	"github.com/supportdesk/inquiry-service/internal/auth"
	"github.com/supportdesk/inquiry-service/internal/classifier"
	"github.com/supportdesk/inquiry-service/internal/config"
	"github.com/supportdesk/inquiry-service/internal/events"
	"github.com/supportdesk/inquiry-service/internal/ingest"
	"github.com/supportdesk/inquiry-service/internal/mail"
	"github.com/supportdesk/inquiry-service/internal/observability"
	"github.com/supportdesk/inquiry-service/internal/persistence"
	"github.com/supportdesk/inquiry-service/internal/repository"
	"github.com/supportdesk/inquiry-service/internal/service"
	"github.com/supportdesk/inquiry-service/internal/worker"
	"github.com/supportdesk/inquiry-service/internal/ws"
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
	userRepo := repository.NewUserRepository(pool)
	inquiryRepo := repository.NewInquiryRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	hub := ws.NewHub(logger)
	worker.StartFanout(dispatcher, hub)

	inquiryClassifier := classifier.NewOpenAIClassifier(cfg.Classifier, redis.Client, logger)
	mailer := mail.NewSMTPSender(cfg.Mail)
	fetcher := mail.NewIMAPFetcher(cfg.Mail, logger)

	assigner := service.NewAssignmentService(userRepo, logger)
	inquiryService := service.NewInquiryService(service.InquiryDependencies{
		DB:          pool,
		InquiryRepo: inquiryRepo,
		MessageRepo: messageRepo,
		UserRepo:    userRepo,
		Assigner:    assigner,
		Classifier:  inquiryClassifier,
		Mailer:      mailer,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	processor := ingest.NewProcessor(fetcher, inquiryService, cfg.Mail, logger)
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if err := worker.StartEmailPoller(scheduler, cfg.Mail.PollInterval, processor, logger); err != nil {
		logger.Fatal("failed to schedule email poller", zap.Error(err))
	}
	scheduler.Start()

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Inquiries:      handlers.NewInquiriesHandler(inquiryService),
		Users:          handlers.NewUsersHandler(userService),
		WS:             handlers.NewWSHandler(hub, logger),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
