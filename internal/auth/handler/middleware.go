package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/S1mon009/auth-service/internal/auth/authz"
	"github.com/S1mon009/auth-service/internal/auth/domain"
	"github.com/S1mon009/auth-service/internal/auth/service"
)

const claimsLocalKey = "auth_claims"

// RequireAuth authenticates the request from the Authorization bearer token
// and stores the verified claims for downstream handlers.
func RequireAuth(tokens service.TokenGenerator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		claims, err := tokens.VerifyAccessToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		c.Locals(claimsLocalKey, claims)

		return c.Next()
	}
}

// RequireRoles evaluates the authorization gate against the authenticated
// caller's role. Mount after RequireAuth.
func RequireRoles(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c)

		var callerRole domain.Role
		if ok {
			callerRole = domain.Role(claims.Role)
		}

		if !authz.Decide(roles, callerRole, ok) {
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}

		return c.Next()
	}
}

// ClaimsFromCtx returns the claims stored by RequireAuth.
func ClaimsFromCtx(c *fiber.Ctx) (*service.JWTCustomClaims, bool) {
	claims, ok := c.Locals(claimsLocalKey).(*service.JWTCustomClaims)
	return claims, ok
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

// NewRequestLogger logs one structured line per request.
func NewRequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("duration_ms", float64(time.Since(start).Nanoseconds())/float64(time.Millisecond)),
		}
		if claims, ok := ClaimsFromCtx(c); ok {
			attrs = append(attrs, slog.String("user_id", claims.UserID))
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		logger.Log(c.UserContext(), level, "http_request", attrs...)

		return err
	}
}
