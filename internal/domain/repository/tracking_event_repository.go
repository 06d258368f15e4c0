package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// TrackingEventRepository puerto append/delete para eventos de seguimiento.
type TrackingEventRepository interface {
	Create(ctx context.Context, event *entity.TrackingEvent) error
	GetByID(ctx context.Context, id string) (*entity.TrackingEvent, error)
	Delete(ctx context.Context, id string) error
	// ListByShipment ordena por event_time descendente.
	ListByShipment(ctx context.Context, shipmentID string) ([]*entity.TrackingEvent, error)
}
