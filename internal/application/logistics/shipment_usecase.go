package logistics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// maxTrackingAttempts reintentos ante colisión del número de seguimiento.
const maxTrackingAttempts = 5

// ShipmentUseCase ciclo de vida de envíos.
type ShipmentUseCase struct {
	shipments repository.ShipmentRepository
	customers repository.CustomerRepository
	events    repository.TrackingEventRepository
	newNumber TrackingNumberGenerator
	log       zerolog.Logger
}

// NewShipmentUseCase construye el caso de uso. gen nil usa NewTrackingNumber.
func NewShipmentUseCase(
	shipments repository.ShipmentRepository,
	customers repository.CustomerRepository,
	events repository.TrackingEventRepository,
	gen TrackingNumberGenerator,
	log zerolog.Logger,
) *ShipmentUseCase {
	if gen == nil {
		gen = NewTrackingNumber
	}
	return &ShipmentUseCase{shipments: shipments, customers: customers, events: events, newNumber: gen, log: log}
}

// Create registra un envío en estado pending. Si el número de seguimiento choca
// con uno existente se regenera hasta maxTrackingAttempts veces.
func (uc *ShipmentUseCase) Create(ctx context.Context, sub *access.Subject, in dto.ShipmentRequest) (*dto.ShipmentResponse, error) {
	if err := sub.Require(policy.OpShipmentCreate); err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}
	now := time.Now()
	s := &entity.Shipment{
		ID:        uuid.New().String(),
		Status:    entity.ShipmentStatusPending,
		CreatedBy: sub.UserID,
		UpdatedBy: sub.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyShipment(s, in)

	for attempt := 1; ; attempt++ {
		s.TrackingNumber = uc.newNumber()
		err := uc.shipments.Create(ctx, s)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Upstream("shipments.create", err)
		}
		if attempt == maxTrackingAttempts {
			return nil, domain.Conflict("no se pudo generar un número de seguimiento único")
		}
		uc.log.Warn().Str("tracking_number", s.TrackingNumber).Int("attempt", attempt).Msg("colisión de número de seguimiento")
	}
	uc.log.Info().Str("shipment_id", s.ID).Str("tracking_number", s.TrackingNumber).Msg("envío creado")
	return toShipmentResponse(s), nil
}

// Update modifica los datos del envío (no el estado).
func (uc *ShipmentUseCase) Update(ctx context.Context, sub *access.Subject, id string, in dto.ShipmentRequest) (*dto.ShipmentResponse, error) {
	if err := sub.Require(policy.OpShipmentUpdate); err != nil {
		return nil, err
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}
	applyShipment(s, in)
	s.UpdatedBy = sub.UserID
	if err := uc.shipments.Update(ctx, s); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Upstream("shipments.update", err)
	}
	return toShipmentResponse(s), nil
}

// UpdateStatus acepta cualquier estado del enumerado, en cualquier orden, y registra quién lo cambió.
func (uc *ShipmentUseCase) UpdateStatus(ctx context.Context, sub *access.Subject, id string, in dto.SetStatusRequest) (*dto.ShipmentResponse, error) {
	if err := sub.Require(policy.OpShipmentSetStatus); err != nil {
		return nil, err
	}
	if !entity.ValidShipmentStatus(in.Status) {
		return nil, domain.Invalid("estado de envío desconocido %q", in.Status)
	}
	if err := uc.shipments.UpdateStatus(ctx, id, in.Status, sub.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Upstream("shipments.update_status", err)
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("shipment_id", id).Str("status", in.Status).Str("by", sub.UserID).Msg("estado de envío actualizado")
	return toShipmentResponse(s), nil
}

// SoftDelete marca el envío como borrado (solo admin).
func (uc *ShipmentUseCase) SoftDelete(ctx context.Context, sub *access.Subject, id string) (*dto.SuccessResponse, error) {
	if err := sub.Require(policy.OpShipmentDelete); err != nil {
		return nil, err
	}
	if err := uc.shipments.SoftDelete(ctx, id, sub.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Upstream("shipments.soft_delete", err)
	}
	uc.log.Info().Str("shipment_id", id).Str("by", sub.UserID).Msg("envío borrado")
	return &dto.SuccessResponse{Success: true, Message: "envío eliminado"}, nil
}

// Get un envío. Un usuario sin rol de staff solo ve los envíos de su cliente.
func (uc *ShipmentUseCase) Get(ctx context.Context, sub *access.Subject, id string) (*dto.ShipmentResponse, error) {
	if err := sub.Require(policy.OpShipmentRead); err != nil {
		return nil, err
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.CanSeeCustomer(s.CustomerID) {
		return nil, domain.ErrNotFound
	}
	return toShipmentResponse(s), nil
}

// List envíos visibles para el sujeto; customerID filtra para staff.
func (uc *ShipmentUseCase) List(ctx context.Context, sub *access.Subject, customerID string) ([]dto.ShipmentResponse, error) {
	if err := sub.Require(policy.OpShipmentRead); err != nil {
		return nil, err
	}
	if !sub.IsStaff {
		own := sub.CustomerID()
		if own == nil {
			return []dto.ShipmentResponse{}, nil
		}
		customerID = *own
	}
	list, err := uc.shipments.List(ctx, customerID)
	if err != nil {
		return nil, domain.Upstream("shipments.list", err)
	}
	out := make([]dto.ShipmentResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toShipmentResponse(s))
	}
	return out, nil
}

// PublicLookup consulta anónima por número de seguimiento: estado, ruta y eventos.
func (uc *ShipmentUseCase) PublicLookup(ctx context.Context, trackingNumber string) (*dto.PublicTrackingResponse, error) {
	trackingNumber = strings.ToUpper(strings.TrimSpace(trackingNumber))
	if trackingNumber == "" {
		return nil, domain.Invalid("tracking_number es obligatorio")
	}
	s, err := uc.shipments.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, domain.Upstream("shipments.get_by_tracking", err)
	}
	if s == nil {
		return &dto.PublicTrackingResponse{Found: false, Message: "No se encontró ningún envío con ese número"}, nil
	}
	events, err := uc.events.ListByShipment(ctx, s.ID)
	if err != nil {
		return nil, domain.Upstream("tracking.list", err)
	}
	out := &dto.PublicTrackingResponse{
		Found:          true,
		TrackingNumber: s.TrackingNumber,
		Status:         s.Status,
		Type:           s.Type,
		Origin:         s.Origin,
		Destination:    s.Destination,
		ETADate:        s.ETADate,
		Events:         make([]dto.TrackingEventResponse, 0, len(events)),
	}
	for _, ev := range events {
		out.Events = append(out.Events, toTrackingEventResponse(ev))
	}
	return out, nil
}

func (uc *ShipmentUseCase) get(ctx context.Context, id string) (*entity.Shipment, error) {
	s, err := uc.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("shipments.get", err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (uc *ShipmentUseCase) validate(ctx context.Context, in dto.ShipmentRequest) error {
	if !entity.ValidShipmentType(in.Type) {
		return domain.Invalid("tipo de envío desconocido %q", in.Type)
	}
	if strings.TrimSpace(in.Origin) == "" || strings.TrimSpace(in.Destination) == "" {
		return domain.Invalid("origin y destination son obligatorios")
	}
	measures := []struct {
		name string
		v    *decimal.Decimal
	}{
		{"weight_kg", in.WeightKg}, {"length_cm", in.LengthCm}, {"width_cm", in.WidthCm},
		{"height_cm", in.HeightCm}, {"volume_cbm", in.VolumeCBM},
	}
	for _, m := range measures {
		if m.v != nil && m.v.IsNegative() {
			return domain.Invalid("%s no puede ser negativo", m.name)
		}
	}
	if !entity.ValidContainerType(in.ContainerType) {
		return domain.Invalid("tipo de contenedor desconocido %q", in.ContainerType)
	}
	if in.CustomerID == "" {
		return domain.Invalid("customer_id es obligatorio")
	}
	c, err := uc.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return domain.Upstream("customers.get", err)
	}
	if c == nil {
		return domain.Invalid("cliente %s no existe", in.CustomerID)
	}
	return nil
}

func applyShipment(s *entity.Shipment, in dto.ShipmentRequest) {
	s.CustomerID = in.CustomerID
	s.Type = in.Type
	s.Origin = strings.TrimSpace(in.Origin)
	s.Destination = strings.TrimSpace(in.Destination)
	s.CargoDescription = in.CargoDescription
	s.Notes = in.Notes
	s.ETADate = in.ETADate
	s.WeightKg = in.WeightKg
	s.LengthCm = in.LengthCm
	s.WidthCm = in.WidthCm
	s.HeightCm = in.HeightCm
	s.VolumeCBM = in.VolumeCBM
	s.ContainerType = in.ContainerType
	s.VehicleType = strings.TrimSpace(in.VehicleType)
}

func toShipmentResponse(s *entity.Shipment) *dto.ShipmentResponse {
	return &dto.ShipmentResponse{
		ID:               s.ID,
		TrackingNumber:   s.TrackingNumber,
		CustomerID:       s.CustomerID,
		Type:             s.Type,
		Origin:           s.Origin,
		Destination:      s.Destination,
		CargoDescription: s.CargoDescription,
		Notes:            s.Notes,
		Status:           s.Status,
		ETADate:          s.ETADate,
		WeightKg:         s.WeightKg,
		LengthCm:         s.LengthCm,
		WidthCm:          s.WidthCm,
		HeightCm:         s.HeightCm,
		VolumeCBM:        s.VolumeCBM,
		ContainerType:    s.ContainerType,
		VehicleType:      s.VehicleType,
		CreatedBy:        s.CreatedBy,
		UpdatedBy:        s.UpdatedBy,
		UpdatedAt:        s.UpdatedAt,
	}
}
