package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentRequest body para POST /api/shipments y PUT /api/shipments/:id.
type ShipmentRequest struct {
	CustomerID       string           `json:"customer_id"`
	Type             string           `json:"type"`
	Origin           string           `json:"origin"`
	Destination      string           `json:"destination"`
	CargoDescription string           `json:"cargo_description,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	ETADate          *time.Time       `json:"eta_date,omitempty"`
	WeightKg         *decimal.Decimal `json:"weight_kg,omitempty"`
	LengthCm         *decimal.Decimal `json:"length_cm,omitempty"`
	WidthCm          *decimal.Decimal `json:"width_cm,omitempty"`
	HeightCm         *decimal.Decimal `json:"height_cm,omitempty"`
	VolumeCBM        *decimal.Decimal `json:"volume_cbm,omitempty"`
	ContainerType    string           `json:"container_type,omitempty"`
	VehicleType      string           `json:"vehicle_type,omitempty"`
}

// SetStatusRequest body para los endpoints de cambio de estado.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// ShipmentResponse envío en respuestas.
type ShipmentResponse struct {
	ID               string           `json:"id"`
	TrackingNumber   string           `json:"tracking_number"`
	CustomerID       string           `json:"customer_id"`
	Type             string           `json:"type"`
	Origin           string           `json:"origin"`
	Destination      string           `json:"destination"`
	CargoDescription string           `json:"cargo_description,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	Status           string           `json:"status"`
	ETADate          *time.Time       `json:"eta_date,omitempty"`
	WeightKg         *decimal.Decimal `json:"weight_kg,omitempty"`
	LengthCm         *decimal.Decimal `json:"length_cm,omitempty"`
	WidthCm          *decimal.Decimal `json:"width_cm,omitempty"`
	HeightCm         *decimal.Decimal `json:"height_cm,omitempty"`
	VolumeCBM        *decimal.Decimal `json:"volume_cbm,omitempty"`
	ContainerType    string           `json:"container_type,omitempty"`
	VehicleType      string           `json:"vehicle_type,omitempty"`
	CreatedBy        string           `json:"created_by,omitempty"`
	UpdatedBy        string           `json:"updated_by,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// TrackingEventRequest body para POST /api/shipments/:id/events.
type TrackingEventRequest struct {
	EventTime   time.Time `json:"event_time"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Status      string    `json:"status,omitempty"`
}

// TrackingEventResponse evento de seguimiento en respuestas.
type TrackingEventResponse struct {
	ID          string    `json:"id"`
	ShipmentID  string    `json:"shipment_id"`
	EventTime   time.Time `json:"event_time"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Status      string    `json:"status,omitempty"`
}

// PublicTrackingResponse consulta pública por tracking number (sin datos del cliente).
// Found=false cuando no hay envío con ese número.
type PublicTrackingResponse struct {
	Found          bool                    `json:"found"`
	Message        string                  `json:"message,omitempty"`
	TrackingNumber string                  `json:"tracking_number,omitempty"`
	Status         string                  `json:"status,omitempty"`
	Type           string                  `json:"type,omitempty"`
	Origin         string                  `json:"origin,omitempty"`
	Destination    string                  `json:"destination,omitempty"`
	ETADate        *time.Time              `json:"eta_date,omitempty"`
	Events         []TrackingEventResponse `json:"events,omitempty"`
}
