package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación de ShipmentRepository. Los borrados lógicos no se devuelven.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

const shipmentColumns = `id, tracking_number, customer_id, type, origin, destination, cargo_description, notes,
	status, eta_date, weight_kg, length_cm, width_cm, height_cm, volume_cbm, container_type, vehicle_type,
	is_deleted, created_by, updated_by, created_at, updated_at`

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var s entity.Shipment
	var createdBy, updatedBy, container, vehicle *string
	err := row.Scan(
		&s.ID, &s.TrackingNumber, &s.CustomerID, &s.Type, &s.Origin, &s.Destination, &s.CargoDescription, &s.Notes,
		&s.Status, &s.ETADate, &s.WeightKg, &s.LengthCm, &s.WidthCm, &s.HeightCm, &s.VolumeCBM, &container, &vehicle,
		&s.IsDeleted, &createdBy, &updatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.ContainerType = emptyIfNull(container)
	s.VehicleType = emptyIfNull(vehicle)
	s.CreatedBy = emptyIfNull(createdBy)
	s.UpdatedBy = emptyIfNull(updatedBy)
	return &s, nil
}

// Create domain.ErrDuplicate si el tracking number ya existe.
func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shipments (id, tracking_number, customer_id, type, origin, destination, cargo_description, notes,
			status, eta_date, weight_kg, length_cm, width_cm, height_cm, volume_cbm, container_type, vehicle_type,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		s.ID, s.TrackingNumber, s.CustomerID, s.Type, s.Origin, s.Destination, s.CargoDescription, s.Notes,
		s.Status, s.ETADate, s.WeightKg, s.LengthCm, s.WidthCm, s.HeightCm, s.VolumeCBM,
		nullIfEmpty(s.ContainerType), nullIfEmpty(s.VehicleType),
		nullIfEmpty(s.CreatedBy), nullIfEmpty(s.UpdatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1 AND NOT is_deleted`, id)
}

func (r *ShipmentRepo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Shipment, error) {
	return r.getOne(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE tracking_number = $1 AND NOT is_deleted`, trackingNumber)
}

// Update reescribe los campos editables. tracking_number y created_by no cambian.
func (r *ShipmentRepo) Update(ctx context.Context, s *entity.Shipment) error {
	if !validUUID(s.ID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE shipments
		SET customer_id = $2, type = $3, origin = $4, destination = $5, cargo_description = $6,
		    notes = $7, eta_date = $8, weight_kg = $9, length_cm = $10, width_cm = $11, height_cm = $12,
		    volume_cbm = $13, container_type = $14, vehicle_type = $15, updated_by = $16, updated_at = now()
		WHERE id = $1 AND NOT is_deleted`,
		s.ID, s.CustomerID, s.Type, s.Origin, s.Destination, s.CargoDescription,
		s.Notes, s.ETADate, s.WeightKg, s.LengthCm, s.WidthCm, s.HeightCm,
		s.VolumeCBM, nullIfEmpty(s.ContainerType), nullIfEmpty(s.VehicleType), nullIfEmpty(s.UpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("update shipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ShipmentRepo) UpdateStatus(ctx context.Context, id, status, updatedBy string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE shipments SET status = $2, updated_by = $3, updated_at = now()
		WHERE id = $1 AND NOT is_deleted`, id, status, nullIfEmpty(updatedBy))
	if err != nil {
		return fmt.Errorf("update shipment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ShipmentRepo) SoftDelete(ctx context.Context, id, updatedBy string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE shipments SET is_deleted = true, updated_by = $2, updated_at = now()
		WHERE id = $1 AND NOT is_deleted`, id, nullIfEmpty(updatedBy))
	if err != nil {
		return fmt.Errorf("soft delete shipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List envíos no borrados; customerID vacío los trae todos.
func (r *ShipmentRepo) List(ctx context.Context, customerID string) ([]*entity.Shipment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+shipmentColumns+` FROM shipments
		WHERE NOT is_deleted AND ($1 = '' OR customer_id::text = $1)
		ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Shipment, 0)
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *ShipmentRepo) getOne(ctx context.Context, query string, arg string) (*entity.Shipment, error) {
	s, err := scanShipment(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return s, nil
}
