package logistics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// TrackingUseCase eventos de seguimiento: solo alta y baja.
type TrackingUseCase struct {
	events    repository.TrackingEventRepository
	shipments repository.ShipmentRepository
	log       zerolog.Logger
}

// NewTrackingUseCase construye el caso de uso.
func NewTrackingUseCase(events repository.TrackingEventRepository, shipments repository.ShipmentRepository, log zerolog.Logger) *TrackingUseCase {
	return &TrackingUseCase{events: events, shipments: shipments, log: log}
}

// Add agrega un evento al envío.
func (uc *TrackingUseCase) Add(ctx context.Context, sub *access.Subject, shipmentID string, in dto.TrackingEventRequest) (*dto.TrackingEventResponse, error) {
	if err := sub.Require(policy.OpTrackingCreate); err != nil {
		return nil, err
	}
	if _, err := uc.shipment(ctx, shipmentID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Location) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, domain.Invalid("location y description son obligatorios")
	}
	if in.Status != "" && !entity.ValidShipmentStatus(in.Status) {
		return nil, domain.Invalid("estado desconocido %q", in.Status)
	}
	now := time.Now()
	eventTime := in.EventTime
	if eventTime.IsZero() {
		eventTime = now
	}
	ev := &entity.TrackingEvent{
		ID:          uuid.New().String(),
		ShipmentID:  shipmentID,
		EventTime:   eventTime,
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
		Status:      in.Status,
		CreatedBy:   sub.UserID,
		CreatedAt:   now,
	}
	if err := uc.events.Create(ctx, ev); err != nil {
		return nil, domain.Upstream("tracking.create", err)
	}
	out := toTrackingEventResponse(ev)
	return &out, nil
}

// Delete borra un evento.
func (uc *TrackingUseCase) Delete(ctx context.Context, sub *access.Subject, id string) (*dto.SuccessResponse, error) {
	if err := sub.Require(policy.OpTrackingDelete); err != nil {
		return nil, err
	}
	if err := uc.events.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Upstream("tracking.delete", err)
	}
	return &dto.SuccessResponse{Success: true, Message: "evento eliminado"}, nil
}

// ListByShipment eventos del envío, del más reciente al más antiguo.
func (uc *TrackingUseCase) ListByShipment(ctx context.Context, sub *access.Subject, shipmentID string) ([]dto.TrackingEventResponse, error) {
	if err := sub.Require(policy.OpTrackingRead); err != nil {
		return nil, err
	}
	s, err := uc.shipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if !sub.CanSeeCustomer(s.CustomerID) {
		return nil, domain.ErrNotFound
	}
	list, err := uc.events.ListByShipment(ctx, shipmentID)
	if err != nil {
		return nil, domain.Upstream("tracking.list", err)
	}
	out := make([]dto.TrackingEventResponse, 0, len(list))
	for _, ev := range list {
		out = append(out, toTrackingEventResponse(ev))
	}
	return out, nil
}

func (uc *TrackingUseCase) shipment(ctx context.Context, id string) (*entity.Shipment, error) {
	s, err := uc.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("shipments.get", err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func toTrackingEventResponse(ev *entity.TrackingEvent) dto.TrackingEventResponse {
	return dto.TrackingEventResponse{
		ID:          ev.ID,
		ShipmentID:  ev.ShipmentID,
		EventTime:   ev.EventTime,
		Location:    ev.Location,
		Description: ev.Description,
		Status:      ev.Status,
	}
}
