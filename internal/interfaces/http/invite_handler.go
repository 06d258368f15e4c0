package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
)

// InviteHandler invitaciones: emisión y reenvío (admin) y activación del propio usuario.
type InviteHandler struct {
	uc *access.InvitationUseCase
}

// NewInviteHandler construye el handler.
func NewInviteHandler(uc *access.InvitationUseCase) *InviteHandler {
	return &InviteHandler{uc: uc}
}

// Create godoc
// @Summary      Invitar usuario
// @Tags         invites
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInviteRequest  true  "email, full_name, role"
// @Success      201   {object}  dto.InviteResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invites [post]
func (h *InviteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInviteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetSubject(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Resend godoc
// @Summary      Reenviar invitación pendiente
// @Tags         invites
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResendInviteRequest  true  "email"
// @Success      200   {object}  dto.InviteResult
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invites/resend [post]
func (h *InviteHandler) Resend(c *fiber.Ctx) error {
	var in dto.ResendInviteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Resend(c.UserContext(), GetSubject(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListPending GET /api/invites/pending
func (h *InviteHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(c.UserContext(), GetSubject(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Activate activa la invitación pendiente del usuario autenticado.
// POST /api/invites/activate
func (h *InviteHandler) Activate(c *fiber.Ctx) error {
	sub := GetSubject(c)
	if sub == nil {
		return respondError(c, domain.ErrUnauthenticated)
	}
	out, err := h.uc.Activate(c.UserContext(), sub.UserID, sub.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
