package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/S1mon009/auth-service/internal/auth/authz"
	"github.com/S1mon009/auth-service/internal/auth/domain"
	"github.com/S1mon009/auth-service/internal/auth/dto"
	"github.com/S1mon009/auth-service/internal/auth/service"
	autherror "github.com/S1mon009/auth-service/internal/errors"
)

type UserHandler struct {
	usersService *service.UsersService
}

func NewUserHandler(usersService *service.UsersService) *UserHandler {
	return &UserHandler{usersService: usersService}
}

// Add creates a user on behalf of an admin.
func (h *UserHandler) Add(c *fiber.Ctx) error {
	claims, ok := ClaimsFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var input dto.AddUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := h.usersService.AddUser(c.UserContext(), input, claims.UserID, c.IP())
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
	})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	claims, ok := ClaimsFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	users, err := h.usersService.ListUsers(c.UserContext(), claims.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(users)
}

// Me returns the caller's own identity record.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	claims, ok := ClaimsFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	user, err := h.usersService.GetUser(c.UserContext(), claims.UserID, claims.UserID, false)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	claims, ok := ClaimsFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	user, err := h.usersService.GetUser(c.UserContext(), c.Params("id"), claims.UserID, true)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// GetProfile serves a profile to its owner or an admin.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims, ok := ClaimsFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	targetID := c.Params("id")
	if !authz.OwnerOrAdmin(claims.UserID, domain.Role(claims.Role), targetID) {
		return fail(c, autherror.ErrForbidden)
	}

	byAdmin := domain.Role(claims.Role) == domain.RoleAdmin && claims.UserID != targetID

	profile, err := h.usersService.GetProfile(c.UserContext(), targetID, claims.UserID, byAdmin)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

// UpdateProfile lets a user edit their own profile; admins can edit anyone's.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	claims, ok := ClaimsFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	targetID := c.Params("id")
	if !authz.OwnerOrAdmin(claims.UserID, domain.Role(claims.Role), targetID) {
		return fail(c, autherror.ErrForbidden)
	}

	var input dto.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	profile, err := h.usersService.UpdateProfile(c.UserContext(), targetID, input, claims.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	claims, ok := ClaimsFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var input dto.UpdateRoleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := h.usersService.UpdateRole(c.UserContext(), c.Params("id"), domain.Role(input.Role), claims.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// Logs lists the audit trail. Admin only.
func (h *UserHandler) Logs(c *fiber.Ctx) error {
	entries, err := h.usersService.ListAuditLogs(c.UserContext())
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(entries)
}
