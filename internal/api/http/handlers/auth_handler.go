package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/edge-fabric/api-gateway/internal/api/dto"
	gwauth "github.com/edge-fabric/api-gateway/internal/auth"
	"github.com/edge-fabric/api-gateway/internal/domain"
	"github.com/edge-fabric/api-gateway/internal/events"
	"github.com/edge-fabric/api-gateway/internal/proxy"
	apperrors "github.com/edge-fabric/api-gateway/pkg/util"
)

// AuthHandler exposes the gateway login endpoint. Credentials are verified by
// the users service; the gateway only issues the token.
type AuthHandler struct {
	users      *proxy.Client
	tokens     *gwauth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(users *proxy.Client, tokens *gwauth.TokenManager, dispatcher events.Dispatcher, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, dispatcher: dispatcher, logger: logger}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	payload, _, err := h.users.Do(c.UserContext(), fiber.MethodPost, "/login", req, forwardHeaders(c, nil))
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		publishEvent(c, h.dispatcher, events.EventLoginFailed, req.Username, domainErr.Message)
		if apperrors.IsCode(err, apperrors.CodeUpstreamError) {
			message := domainErr.Message
			if message == apperrors.GenericUpstreamMessage {
				message = "incorrect username or password"
			}
			return apperrors.NewUnauthorized(message)
		}
		return err
	}

	var result dto.LoginResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return apperrors.NewInternalError(err)
	}

	role := domain.Role(result.Role)
	if role == "" {
		role = domain.RoleUser
	}

	token, expiresAt, err := h.tokens.Issue(strconv.Itoa(result.ID), role)
	if err != nil {
		h.logger.Error("token issuance failed", zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	publishEvent(c, h.dispatcher, events.EventLoginSucceeded, strconv.Itoa(result.ID), "")
	return c.JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}
