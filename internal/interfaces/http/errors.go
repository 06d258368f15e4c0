package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
)

var errorStatus = map[domain.Kind]int{
	domain.KindUnauthenticated:  fiber.StatusUnauthorized,
	domain.KindForbidden:        fiber.StatusForbidden,
	domain.KindNotFound:         fiber.StatusNotFound,
	domain.KindConflict:         fiber.StatusConflict,
	domain.KindValidationFailed: fiber.StatusBadRequest,
	domain.KindUpstreamFailure:  fiber.StatusBadGateway,
}

var errorCode = map[domain.Kind]string{
	domain.KindUnauthenticated:  "UNAUTHENTICATED",
	domain.KindForbidden:        "FORBIDDEN",
	domain.KindNotFound:         "NOT_FOUND",
	domain.KindConflict:         "CONFLICT",
	domain.KindValidationFailed: "VALIDATION",
	domain.KindUpstreamFailure:  "UPSTREAM",
}

// respondError traduce un error de dominio a su respuesta HTTP.
// Las fallas externas no exponen la causa al cliente.
func respondError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	msg := err.Error()
	switch kind {
	case domain.KindUpstreamFailure:
		msg = "falla en servicio externo"
	case domain.KindConflict:
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Kind: string(kind), Message: msg})
		}
	}
	return c.Status(errorStatus[kind]).JSON(dto.ErrorResponse{Code: errorCode[kind], Kind: string(kind), Message: msg})
}

// ErrorHandler manejador global de Fiber para errores no traducidos por los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Kind: string(domain.KindValidationFailed), Message: "cuerpo inválido"})
}
