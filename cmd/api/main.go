package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/pardismasoud-hue/pishgam/internal/api/http"
	"github.com/pardismasoud-hue/pishgam/internal/api/http/handlers"
	"github.com/pardismasoud-hue/pishgam/internal/auth"
	"github.com/pardismasoud-hue/pishgam/internal/config"
	"github.com/pardismasoud-hue/pishgam/internal/events"
	"github.com/pardismasoud-hue/pishgam/internal/observability"
	"github.com/pardismasoud-hue/pishgam/internal/persistence"
	"github.com/pardismasoud-hue/pishgam/internal/repository"
	"github.com/pardismasoud-hue/pishgam/internal/repository/memstore"
	"github.com/pardismasoud-hue/pishgam/internal/service"
	"github.com/pardismasoud-hue/pishgam/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	var store repository.Store
	if pg.Enabled() {
		store = pg.Store()
	} else {
		store = memstore.New()
	}

	redisConn := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redisConn.Close()

	// Keep both nil interfaces when redis is off; a typed nil would look configured.
	var (
		redisClient redis.UniversalClient
		redisProbe  handlers.Pinger
	)
	if redisConn.Client != nil {
		redisClient = redisConn.Client
		redisProbe = redisConn
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, dispatcher, redisClient, cfg.Notification.EventsChannel, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:       store,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
		SLADefaults: cfg.SLA,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redisProbe, metrics),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
