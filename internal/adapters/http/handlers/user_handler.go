package handlers

import (
	"errors"

	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/services"
	"geomaqui-os/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles staff management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles staff registration
// @Summary Register staff account
// @Description Create a new staff account (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateUserInput true "Staff data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyUsed):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, domain.ErrInvalidRole):
			return response.BadRequest(c, "Role must be ADMIN, TECHNICIAN or ATTENDANT")
		case errors.Is(err, domain.ErrMissingFields):
			return response.BadRequest(c, "Name, email and password are required")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created successfully", user)
}

// ListUsers handles user listing
// @Summary List staff accounts
// @Description List all staff, optionally filtered by role
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users := h.userService.List(c.Query("role"))
	return response.Success(c, "", fiber.Map{"users": users})
}

// ListTechnicians handles technician listing for booking screens
// @Summary List technicians
// @Description List technician accounts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/technicians [get]
func (h *UserHandler) ListTechnicians(c *fiber.Ctx) error {
	return response.Success(c, "", fiber.Map{"technicians": h.userService.Technicians()})
}

// GetUser handles fetching a single user
// @Summary Get staff account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.Params("id"))
	if err != nil {
		return response.NotFound(c, "User not found")
	}
	return response.Success(c, "", user)
}

// DeleteUser handles staff removal
// @Summary Remove staff account
// @Description Remove a staff account. The main administrator cannot be removed.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	err := h.userService.Delete(c.Context(), actor.ID, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeedAdminImmutable):
			return response.Forbidden(c, "The main administrator cannot be removed")
		case errors.Is(err, domain.ErrCannotDeleteSelf):
			return response.Conflict(c, "You cannot remove your own account")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to remove user")
		}
	}

	return response.Success(c, "User removed successfully", nil)
}
