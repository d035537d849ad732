package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edge-fabric/api-gateway/internal/api/http/handlers"
	"github.com/edge-fabric/api-gateway/internal/auth"
	"github.com/edge-fabric/api-gateway/internal/domain"
)

// GatewayRouteConfig bundles dependencies for gateway route registration.
type GatewayRouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersProxyHandler
	Orders         *handlers.OrdersProxyHandler
	AuthMiddleware *auth.Middleware
}

// RegisterGatewayRoutes wires the gateway HTTP surface.
func RegisterGatewayRoutes(app *fiber.App, cfg GatewayRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)

	api := app.Group("/api")
	api.Post("/login", cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/admin/users", auth.RequireRole(domain.RoleAdmin), cfg.Users.ListAll)

	protected.Get("/users", cfg.Users.List)
	protected.Post("/users", cfg.Users.Create)
	protected.Get("/users/:id", cfg.Users.Get)
	protected.Put("/users/:id", cfg.Users.Update)
	protected.Delete("/users/:id", cfg.Users.Delete)

	protected.Get("/orders", cfg.Orders.List)
	protected.Post("/orders", cfg.Orders.Create)
	protected.Get("/orders/:id", cfg.Orders.Get)
	protected.Put("/orders/:id", cfg.Orders.Update)
	protected.Delete("/orders/:id", cfg.Orders.Delete)
}

// RegisterUsersServiceRoutes wires the users backend HTTP surface.
func RegisterUsersServiceRoutes(app *fiber.App, health *handlers.HealthHandler, users *handlers.UsersServiceHandler) {
	app.Get("/health/live", health.Live)

	api := app.Group("/api")
	api.Post("/login", users.Login)
	api.Get("/users", users.List)
	api.Post("/users", users.Create)
	api.Get("/users/:id", users.Get)
	api.Put("/users/:id", users.Update)
	api.Delete("/users/:id", users.Delete)
}

// RegisterOrdersServiceRoutes wires the orders backend HTTP surface.
func RegisterOrdersServiceRoutes(app *fiber.App, health *handlers.HealthHandler, orders *handlers.OrdersServiceHandler) {
	app.Get("/health/live", health.Live)

	api := app.Group("/api")
	api.Get("/orders", orders.List)
	api.Post("/orders", orders.Create)
	api.Get("/orders/:id", orders.Get)
	api.Put("/orders/:id", orders.Update)
	api.Delete("/orders/:id", orders.Delete)
}
