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

var _ repository.TrackingEventRepository = (*TrackingEventRepo)(nil)

// TrackingEventRepo eventos de seguimiento: solo insert y delete.
type TrackingEventRepo struct {
	q Querier
}

// NewTrackingEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTrackingEventRepository(q Querier) *TrackingEventRepo {
	return &TrackingEventRepo{q: q}
}

const trackingEventColumns = `id, shipment_id, event_time, location, description, status, created_by, created_at`

func scanTrackingEvent(row pgx.Row) (*entity.TrackingEvent, error) {
	var ev entity.TrackingEvent
	var createdBy *string
	if err := row.Scan(&ev.ID, &ev.ShipmentID, &ev.EventTime, &ev.Location, &ev.Description, &ev.Status, &createdBy, &ev.CreatedAt); err != nil {
		return nil, err
	}
	ev.CreatedBy = emptyIfNull(createdBy)
	return &ev, nil
}

func (r *TrackingEventRepo) Create(ctx context.Context, ev *entity.TrackingEvent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO tracking_events (id, shipment_id, event_time, location, description, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID, ev.ShipmentID, ev.EventTime, ev.Location, ev.Description, ev.Status, nullIfEmpty(ev.CreatedBy), ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tracking event: %w", err)
	}
	return nil
}

func (r *TrackingEventRepo) GetByID(ctx context.Context, id string) (*entity.TrackingEvent, error) {
	if !validUUID(id) {
		return nil, nil
	}
	ev, err := scanTrackingEvent(r.q.QueryRow(ctx, `SELECT `+trackingEventColumns+` FROM tracking_events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tracking event: %w", err)
	}
	return ev, nil
}

func (r *TrackingEventRepo) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM tracking_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tracking event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByShipment más recientes primero.
func (r *TrackingEventRepo) ListByShipment(ctx context.Context, shipmentID string) ([]*entity.TrackingEvent, error) {
	if !validUUID(shipmentID) {
		return []*entity.TrackingEvent{}, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+trackingEventColumns+` FROM tracking_events
		WHERE shipment_id = $1
		ORDER BY event_time DESC`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list tracking events: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.TrackingEvent, 0)
	for rows.Next() {
		ev, err := scanTrackingEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tracking event: %w", err)
		}
		list = append(list, ev)
	}
	return list, rows.Err()
}
