package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/logistics"
)

// ShipmentHandler envíos, sus eventos de seguimiento y la consulta pública.
type ShipmentHandler struct {
	shipments *logistics.ShipmentUseCase
	tracking  *logistics.TrackingUseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(shipments *logistics.ShipmentUseCase, tracking *logistics.TrackingUseCase) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments, tracking: tracking}
}

// Create godoc
// @Summary      Crear envío (asigna número de guía)
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShipmentRequest  true  "envío"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.ShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.shipments.Create(c.UserContext(), GetSubject(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/shipments/:id
func (h *ShipmentHandler) Update(c *fiber.Ctx) error {
	var in dto.ShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.shipments.Update(c.UserContext(), GetSubject(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus PUT /api/shipments/:id/status
func (h *ShipmentHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.SetStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.shipments.UpdateStatus(c.UserContext(), GetSubject(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/shipments/:id
func (h *ShipmentHandler) Delete(c *fiber.Ctx) error {
	out, err := h.shipments.SoftDelete(c.UserContext(), GetSubject(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/shipments/:id
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.shipments.Get(c.UserContext(), GetSubject(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/shipments?customer_id=
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	out, err := h.shipments.List(c.UserContext(), GetSubject(c), c.Query("customer_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddEvent POST /api/shipments/:id/events
func (h *ShipmentHandler) AddEvent(c *fiber.Ctx) error {
	var in dto.TrackingEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.tracking.Add(c.UserContext(), GetSubject(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListEvents GET /api/shipments/:id/events
func (h *ShipmentHandler) ListEvents(c *fiber.Ctx) error {
	out, err := h.tracking.ListByShipment(c.UserContext(), GetSubject(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteEvent DELETE /api/tracking-events/:id
func (h *ShipmentHandler) DeleteEvent(c *fiber.Ctx) error {
	out, err := h.tracking.Delete(c.UserContext(), GetSubject(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PublicTracking godoc
// @Summary      Consulta pública por número de guía
// @Tags         public
// @Produce      json
// @Param        number  path  string  true  "número de guía"
// @Success      200     {object}  dto.PublicTrackingResponse
// @Failure      429     {object}  dto.ErrorResponse
// @Router       /api/public/tracking/{number} [get]
func (h *ShipmentHandler) PublicTracking(c *fiber.Ctx) error {
	out, err := h.shipments.PublicLookup(c.UserContext(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
