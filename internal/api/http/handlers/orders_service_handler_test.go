package handlers_test

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/edge-fabric/api-gateway/internal/api/http"
	"github.com/edge-fabric/api-gateway/internal/api/http/handlers"
	"github.com/edge-fabric/api-gateway/internal/observability"
	"github.com/edge-fabric/api-gateway/internal/persistence"
	"github.com/edge-fabric/api-gateway/internal/repository"
	"github.com/edge-fabric/api-gateway/internal/service"
)

func newOrdersServiceApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	store := persistence.NewStore(filepath.Join(t.TempDir(), "orders_db.json"), logger)
	repo := repository.NewOrderRepository(store, logger)
	svc := service.NewOrderService(repo, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), nil)
	httptransport.RegisterOrdersServiceRoutes(app, handlers.NewHealthHandler("orders-service", "test"), handlers.NewOrdersServiceHandler(svc))
	return app
}

func TestOrdersServiceList(t *testing.T) {
	app := newOrdersServiceApp(t)

	t.Run("unscoped call returns the full seed", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodGet, "/api/orders", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var orders []map[string]any
		decodeInto(t, resp, &orders)
		assert.Len(t, orders, 2)
	})

	t.Run("scoped call filters to the owner", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodGet, "/api/orders", "2", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var orders []map[string]any
		decodeInto(t, resp, &orders)
		require.Len(t, orders, 1)
		assert.Equal(t, float64(2), orders[0]["user_id"])
	})

	t.Run("malformed scope header", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodGet, "/api/orders", "not-a-number", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestOrdersServiceGet(t *testing.T) {
	app := newOrdersServiceApp(t)

	t.Run("owner reads its order", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodGet, "/api/orders/2", "2", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("scope mismatch is denied", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodGet, "/api/orders/1", "2", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body errorBody
		decodeInto(t, resp, &body)
		assert.Equal(t, "access denied", body.Detail)
	})

	t.Run("unscoped call reads any order", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodGet, "/api/orders/1", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing order", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodGet, "/api/orders/99", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestOrdersServiceCreate(t *testing.T) {
	app := newOrdersServiceApp(t)

	t.Run("scoped create for another owner is denied", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodPost, "/api/orders", "2",
			map[string]any{"user_id": 1, "total_amount": 5, "products": []map[string]any{{"name": "Widget", "price": 5, "quantity": 1}}})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("status defaults to pending", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodPost, "/api/orders", "2",
			map[string]any{"user_id": 2, "total_amount": 5, "products": []map[string]any{{"name": "Widget", "price": 5, "quantity": 1}}})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var order map[string]any
		decodeInto(t, resp, &order)
		assert.Equal(t, "pending", order["status"])
		assert.Equal(t, float64(3), order["id"])
	})

	t.Run("missing owner is rejected", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodPost, "/api/orders", "",
			map[string]any{"total_amount": 5})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestOrdersServiceMutations(t *testing.T) {
	app := newOrdersServiceApp(t)

	t.Run("scoped update of a foreign order is denied", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodPut, "/api/orders/1", "2",
			map[string]any{"status": "completed"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner updates its order", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodPut, "/api/orders/2", "2",
			map[string]any{"status": "completed"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var order map[string]any
		decodeInto(t, resp, &order)
		assert.Equal(t, "completed", order["status"])
	})

	t.Run("scoped delete of a foreign order is denied", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodDelete, "/api/orders/1", "2", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner deletes its order", func(t *testing.T) {
		resp := serviceRequest(t, app, http.MethodDelete, "/api/orders/2", "2", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeInto(t, resp, &body)
		assert.Equal(t, "order deleted successfully", body["message"])
	})
}
