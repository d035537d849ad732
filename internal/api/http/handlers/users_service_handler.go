package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/edge-fabric/api-gateway/internal/api/dto"
	"github.com/edge-fabric/api-gateway/internal/domain"
	"github.com/edge-fabric/api-gateway/internal/service"
	apperrors "github.com/edge-fabric/api-gateway/pkg/util"
)

// UsersServiceHandler exposes the users backend CRUD surface. The service
// trusts the gateway; the identity propagation header is accepted but not
// enforced here.
type UsersServiceHandler struct {
	svc *service.UserService
}

// NewUsersServiceHandler constructs handler.
func NewUsersServiceHandler(svc *service.UserService) *UsersServiceHandler {
	return &UsersServiceHandler{svc: svc}
}

// Login handles POST /api/login.
func (h *UsersServiceHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	user, err := h.svc.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResult{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	})
}

// List handles GET /api/users.
func (h *UsersServiceHandler) List(c *fiber.Ctx) error {
	users, err := h.svc.List(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(out)
}

// Get handles GET /api/users/:id.
func (h *UsersServiceHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "user id")
	if err != nil {
		return err
	}
	user, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Create handles POST /api/users.
func (h *UsersServiceHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, password required", nil)
	}

	user, err := h.svc.Create(c.Context(), service.UserCreateInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     domain.Role(req.Role),
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Update handles PUT /api/users/:id.
func (h *UsersServiceHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "user id")
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" {
		return apperrors.NewValidationError("username and email required", nil)
	}

	user, err := h.svc.Update(c.Context(), id, service.UserUpdateInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/:id.
func (h *UsersServiceHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "user id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted successfully"})
}

func parseID(c *fiber.Ctx, name string) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, apperrors.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}
