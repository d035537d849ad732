package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edge-fabric/api-gateway/internal/api/dto"
	"github.com/edge-fabric/api-gateway/internal/domain"
)

func TestGatewayLogin(t *testing.T) {
	t.Run("valid admin credentials yield an admin token", func(t *testing.T) {
		users := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/login", r.URL.Path)

			var req dto.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "admin", req.Username)
			require.Equal(t, "admin123", req.Password)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": 1, "username": "admin", "role": "admin"}`))
		}))
		defer users.Close()

		gw := newGatewayApp(t, users.URL, deadBackend(t))
		resp := gw.request(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "admin", Password: "admin123"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.TokenResponse
		decodeInto(t, resp, &body)
		assert.Equal(t, "bearer", body.TokenType)

		identity, err := gw.tokens.Verify(body.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "1", identity.SubjectID)
		assert.Equal(t, domain.RoleAdmin, identity.Role)
	})

	t.Run("missing role claim from backend defaults to user", func(t *testing.T) {
		users := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": 2, "username": "user"}`))
		}))
		defer users.Close()

		gw := newGatewayApp(t, users.URL, deadBackend(t))
		resp := gw.request(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "user", Password: "user123"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.TokenResponse
		decodeInto(t, resp, &body)
		identity, err := gw.tokens.Verify(body.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, identity.Role)
	})

	t.Run("wrong password relays the backend detail as 401", func(t *testing.T) {
		users := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "invalid username or password"}`))
		}))
		defer users.Close()

		gw := newGatewayApp(t, users.URL, deadBackend(t))
		resp := gw.request(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "admin", Password: "wrongpass"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))

		var body errorBody
		decodeInto(t, resp, &body)
		assert.Equal(t, "invalid username or password", body.Detail)
	})

	t.Run("backend error without detail falls back to generic message", func(t *testing.T) {
		users := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer users.Close()

		gw := newGatewayApp(t, users.URL, deadBackend(t))
		resp := gw.request(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "admin", Password: "wrongpass"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body errorBody
		decodeInto(t, resp, &body)
		assert.Equal(t, "incorrect username or password", body.Detail)
	})

	t.Run("unreachable users service yields generic 500", func(t *testing.T) {
		gw := newGatewayApp(t, deadBackend(t), deadBackend(t))
		resp := gw.request(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "admin", Password: "admin123"})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body errorBody
		decodeInto(t, resp, &body)
		assert.Equal(t, "internal server error", body.Detail)
	})

	t.Run("missing credentials rejected locally", func(t *testing.T) {
		gw := newGatewayApp(t, deadBackend(t), deadBackend(t))
		resp := gw.request(t, http.MethodPost, "/api/login", "", dto.LoginRequest{Username: "admin"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
