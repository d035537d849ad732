package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/edge-fabric/api-gateway/internal/api/http"
	"github.com/edge-fabric/api-gateway/internal/api/http/handlers"
	"github.com/edge-fabric/api-gateway/internal/auth"
	"github.com/edge-fabric/api-gateway/internal/domain"
	"github.com/edge-fabric/api-gateway/internal/events"
	"github.com/edge-fabric/api-gateway/internal/observability"
	"github.com/edge-fabric/api-gateway/internal/proxy"
)

// gatewayApp assembles the full gateway surface against fake backend URLs.
type gatewayApp struct {
	app        *fiber.App
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
}

func newGatewayApp(t *testing.T, usersURL, ordersURL string) *gatewayApp {
	t.Helper()
	logger := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", 30)
	dispatcher := events.NewInMemoryDispatcher()

	usersClient := proxy.NewClient(usersURL, 0, logger)
	ordersClient := proxy.NewClient(ordersURL, 0, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), dispatcher)
	httptransport.RegisterGatewayRoutes(app, httptransport.GatewayRouteConfig{
		Health:         handlers.NewHealthHandler("gateway", "test"),
		Auth:           handlers.NewAuthHandler(usersClient, tokens, dispatcher, logger),
		Users:          handlers.NewUsersProxyHandler(usersClient, dispatcher, logger),
		Orders:         handlers.NewOrdersProxyHandler(ordersClient, dispatcher, logger),
		AuthMiddleware: auth.NewMiddleware(tokens, logger),
	})
	return &gatewayApp{app: app, tokens: tokens, dispatcher: dispatcher}
}

func (g *gatewayApp) tokenFor(t *testing.T, subjectID string, role domain.Role) string {
	t.Helper()
	token, _, err := g.tokens.Issue(subjectID, role)
	require.NoError(t, err)
	return token
}

func (g *gatewayApp) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := g.app.Test(req)
	require.NoError(t, err)
	return resp
}

// errorBody mirrors the gateway error envelope.
type errorBody struct {
	Detail string `json:"detail"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// deadBackend returns a URL with nothing listening behind it.
func deadBackend(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	return server.URL
}
