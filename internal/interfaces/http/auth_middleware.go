package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/pkg/jwt"
)

// Locals keys para el principal y el sujeto resuelto en Fiber.
const (
	LocalUserID  = "user_id"
	LocalEmail   = "email"
	LocalSubject = "subject"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y Email a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Kind: "Unauthenticated", Message: "Authorization header requerido"})
		}
		if !parseBearer(c, jwtSecret, authHeader) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Kind: "Unauthenticated", Message: "token inválido o expirado"})
		}
		return c.Next()
	}
}

// OptionalAuth como AuthMiddleware pero deja pasar peticiones sin header.
// Un header presente e inválido sigue siendo 401.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		if !parseBearer(c, jwtSecret, authHeader) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Kind: "Unauthenticated", Message: "token inválido o expirado"})
		}
		return c.Next()
	}
}

func parseBearer(c *fiber.Ctx, jwtSecret, authHeader string) bool {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return false
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return false
	}
	userID, email, err := jwt.Parse(jwtSecret, tokenString)
	if err != nil {
		return false
	}
	c.Locals(LocalUserID, userID)
	c.Locals(LocalEmail, email)
	return true
}

// SubjectMiddleware resuelve el rol vigente del principal en cada petición.
// Sin UserID en Locals (ruta con OptionalAuth) continúa como anónimo.
func SubjectMiddleware(authz *access.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Next()
		}
		sub, err := authz.Resolve(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalSubject, sub)
		return c.Next()
	}
}

// RequireOperation corta la petición si el sujeto no puede ejecutar op.
// Los casos de uso vuelven a comprobarlo; esto solo evita trabajo en rutas administrativas.
func RequireOperation(op policy.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := GetSubject(c).Require(op); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetEmail devuelve el email del token.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

// GetSubject devuelve el sujeto resuelto o nil si la petición es anónima.
func GetSubject(c *fiber.Ctx) *access.Subject {
	sub, _ := c.Locals(LocalSubject).(*access.Subject)
	return sub
}
