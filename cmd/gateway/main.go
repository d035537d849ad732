package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/edge-fabric/api-gateway/internal/api/http"
	"github.com/edge-fabric/api-gateway/internal/api/http/handlers"
	"github.com/edge-fabric/api-gateway/internal/auth"
	"github.com/edge-fabric/api-gateway/internal/config"
	"github.com/edge-fabric/api-gateway/internal/events"
	"github.com/edge-fabric/api-gateway/internal/observability"
	"github.com/edge-fabric/api-gateway/internal/proxy"
	"github.com/edge-fabric/api-gateway/internal/worker"
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

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes)
	authMiddleware := auth.NewMiddleware(tokens, logger)

	timeout := cfg.Gateway.DownstreamTimeout()
	usersClient := proxy.NewClient(cfg.Gateway.UsersServiceURL, timeout, logger)
	ordersClient := proxy.NewClient(cfg.Gateway.OrdersServiceURL, timeout, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, dispatcher)

	httptransport.RegisterGatewayRoutes(app, httptransport.GatewayRouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		Auth:           handlers.NewAuthHandler(usersClient, tokens, dispatcher, logger),
		Users:          handlers.NewUsersProxyHandler(usersClient, dispatcher, logger),
		Orders:         handlers.NewOrdersProxyHandler(ordersClient, dispatcher, logger),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.GatewayAddr()); err != nil {
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
