package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de envío. Se aceptan en cualquier orden.
const (
	ShipmentStatusPending   = "pending"
	ShipmentStatusReceived  = "received"
	ShipmentStatusWarehouse = "warehouse"
	ShipmentStatusInTransit = "in_transit"
	ShipmentStatusArrived   = "arrived"
	ShipmentStatusDelivered = "delivered"
)

// Tipos de envío.
const (
	ShipmentTypeAir  = "air"
	ShipmentTypeSea  = "sea"
	ShipmentTypeLand = "land"
)

// Tipos de contenedor. Vacío significa sin contenedor.
const (
	Container20ft = "20ft"
	Container40ft = "40ft"
	ContainerLCL  = "LCL"
)

// ValidContainerType informa si t es un contenedor conocido o vacío.
func ValidContainerType(t string) bool {
	switch t {
	case "", Container20ft, Container40ft, ContainerLCL:
		return true
	}
	return false
}

// ValidShipmentType informa si t es un tipo de envío conocido.
func ValidShipmentType(t string) bool {
	return t == ShipmentTypeAir || t == ShipmentTypeSea || t == ShipmentTypeLand
}

// ValidShipmentStatus informa si s es un estado de envío conocido.
func ValidShipmentStatus(s string) bool {
	switch s {
	case ShipmentStatusPending, ShipmentStatusReceived, ShipmentStatusWarehouse,
		ShipmentStatusInTransit, ShipmentStatusArrived, ShipmentStatusDelivered:
		return true
	}
	return false
}

// Shipment envío de un cliente.
type Shipment struct {
	ID               string
	TrackingNumber   string // único, generado
	CustomerID       string
	Type             string // air, sea, land
	Origin           string
	Destination      string
	CargoDescription string
	Notes            string
	Status           string
	ETADate          *time.Time
	WeightKg         *decimal.Decimal
	LengthCm         *decimal.Decimal
	WidthCm          *decimal.Decimal
	HeightCm         *decimal.Decimal
	VolumeCBM        *decimal.Decimal
	ContainerType    string
	VehicleType      string
	IsDeleted        bool
	CreatedBy        string
	UpdatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TrackingEvent evento de seguimiento. Solo se agrega o se borra, nunca se actualiza.
type TrackingEvent struct {
	ID          string
	ShipmentID  string
	EventTime   time.Time
	Location    string
	Description string
	Status      string // opcional
	CreatedBy   string
	CreatedAt   time.Time
}
