package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/crm"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
)

// AppointmentHandler citas: envío público y revisión de staff.
type AppointmentHandler struct {
	uc *crm.AppointmentUseCase
}

// NewAppointmentHandler construye el handler.
func NewAppointmentHandler(uc *crm.AppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// Submit godoc
// @Summary      Solicitar una cita (público)
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppointmentRequest  true  "Datos de la cita"
// @Success      201  {object}  dto.AppointmentReceipt
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/public/appointments [post]
func (h *AppointmentHandler) Submit(c *fiber.Ctx) error {
	var in dto.AppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Submit(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/appointments?status=
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSubject(c), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/appointments/:id
func (h *AppointmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetSubject(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetStatus PUT /api/appointments/:id/status
func (h *AppointmentHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetStatus(c.UserContext(), GetSubject(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PendingCount GET /api/appointments/pending-count
func (h *AppointmentHandler) PendingCount(c *fiber.Ctx) error {
	out, err := h.uc.PendingCount(c.UserContext(), GetSubject(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
