package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// ShipmentRepository puerto de persistencia para Shipment.
// Create devuelve domain.ErrDuplicate si el tracking number ya existe.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Shipment, error)
	Update(ctx context.Context, shipment *entity.Shipment) error
	UpdateStatus(ctx context.Context, id, status, updatedBy string) error
	SoftDelete(ctx context.Context, id, updatedBy string) error
	List(ctx context.Context, customerID string) ([]*entity.Shipment, error)
}
