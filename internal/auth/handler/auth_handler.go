package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/S1mon009/auth-service/config"
	"github.com/S1mon009/auth-service/internal/auth/dto"
	"github.com/S1mon009/auth-service/internal/auth/service"
)

type AuthHandler struct {
	userService *service.UserService
	cfg         *config.Config
}

func NewAuthHandler(userService *service.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{userService: userService, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	input.IPAddress = c.IP()

	if _, err := h.userService.Register(c.UserContext(), input); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully, verification email sent",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := h.userService.ValidateUser(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return fail(c, err)
	}

	tokenPair, err := h.userService.Login(c.UserContext(), user, c.IP())
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	input.IPAddress = c.IP()

	tokens, err := h.userService.Refresh(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing token"})
	}

	alreadyVerified, err := h.userService.VerifyEmail(c.UserContext(), token)
	if err != nil {
		return fail(c, err)
	}

	if alreadyVerified {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Email is already verified"})
	}

	if h.cfg.FrontendURL != "" {
		return c.Redirect(h.cfg.FrontendURL+"/auth/verify-email", fiber.StatusFound)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Email verified successfully"})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	input.IPAddress = c.IP()

	if err := h.userService.ForgotPassword(c.UserContext(), input); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Reset link sent to email"})
}

func (h *AuthHandler) VerifyResetToken(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing token"})
	}

	if err := h.userService.VerifyResetToken(c.UserContext(), token); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Token is valid"})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	input.IPAddress = c.IP()

	if err := h.userService.ResetPassword(c.UserContext(), input); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password has been successfully reset"})
}

// Profile returns the authenticated caller's identity claims.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims, ok := ClaimsFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"userId": claims.UserID,
		"email":  claims.Email,
		"role":   claims.Role,
	})
}
