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
	"github.com/edge-fabric/api-gateway/internal/config"
	"github.com/edge-fabric/api-gateway/internal/observability"
	"github.com/edge-fabric/api-gateway/internal/persistence"
	"github.com/edge-fabric/api-gateway/internal/repository"
	"github.com/edge-fabric/api-gateway/internal/service"
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

	store := persistence.NewStore(cfg.Store.OrdersFile, logger)
	logger.Info("orders store ready", zap.String("path", store.Path()))
	orderRepo := repository.NewOrderRepository(store, logger)
	orderService := service.NewOrderService(orderRepo, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, nil)
	httptransport.RegisterOrdersServiceRoutes(app,
		handlers.NewHealthHandler("orders-service", cfg.App.Version),
		handlers.NewOrdersServiceHandler(orderService),
	)

	go func() {
		if err := app.Listen(cfg.App.OrdersServiceAddr()); err != nil {
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
