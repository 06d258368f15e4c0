package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// ShipmentRepo envíos en memoria; tracking_number único.
type ShipmentRepo struct {
	faults
	mu   sync.RWMutex
	byID map[string]*entity.Shipment
}

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// NewShipmentRepo construye el repositorio vacío.
func NewShipmentRepo() *ShipmentRepo {
	return &ShipmentRepo{byID: make(map[string]*entity.Shipment)}
}

func (r *ShipmentRepo) Create(_ context.Context, s *entity.Shipment) error {
	if err := r.fault("create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.byID {
		if cur.TrackingNumber == s.TrackingNumber {
			return domain.ErrDuplicate
		}
	}
	c := *s
	r.byID[s.ID] = &c
	return nil
}

func (r *ShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok || s.IsDeleted {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *ShipmentRepo) GetByTrackingNumber(_ context.Context, trackingNumber string) (*entity.Shipment, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.byID {
		if s.TrackingNumber == trackingNumber && !s.IsDeleted {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ShipmentRepo) Update(_ context.Context, s *entity.Shipment) error {
	if err := r.fault("update"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[s.ID]
	if !ok || cur.IsDeleted {
		return domain.ErrNotFound
	}
	cur.CustomerID = s.CustomerID
	cur.Type = s.Type
	cur.Origin = s.Origin
	cur.Destination = s.Destination
	cur.CargoDescription = s.CargoDescription
	cur.Notes = s.Notes
	cur.ETADate = s.ETADate
	cur.WeightKg = s.WeightKg
	cur.LengthCm = s.LengthCm
	cur.WidthCm = s.WidthCm
	cur.HeightCm = s.HeightCm
	cur.VolumeCBM = s.VolumeCBM
	cur.ContainerType = s.ContainerType
	cur.VehicleType = s.VehicleType
	cur.UpdatedBy = s.UpdatedBy
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *ShipmentRepo) UpdateStatus(_ context.Context, id, status, updatedBy string) error {
	if err := r.fault("update_status"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[id]
	if !ok || cur.IsDeleted {
		return domain.ErrNotFound
	}
	cur.Status = status
	cur.UpdatedBy = updatedBy
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *ShipmentRepo) SoftDelete(_ context.Context, id, updatedBy string) error {
	if err := r.fault("soft_delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[id]
	if !ok || cur.IsDeleted {
		return domain.ErrNotFound
	}
	cur.IsDeleted = true
	cur.UpdatedBy = updatedBy
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *ShipmentRepo) List(_ context.Context, customerID string) ([]*entity.Shipment, error) {
	if err := r.fault("list"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Shipment, 0)
	for _, s := range r.byID {
		if s.IsDeleted || (customerID != "" && s.CustomerID != customerID) {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// TrackingEventRepo eventos de seguimiento en memoria.
type TrackingEventRepo struct {
	faults
	mu   sync.RWMutex
	byID map[string]*entity.TrackingEvent
}

var _ repository.TrackingEventRepository = (*TrackingEventRepo)(nil)

// NewTrackingEventRepo construye el repositorio vacío.
func NewTrackingEventRepo() *TrackingEventRepo {
	return &TrackingEventRepo{byID: make(map[string]*entity.TrackingEvent)}
}

func (r *TrackingEventRepo) Create(_ context.Context, ev *entity.TrackingEvent) error {
	if err := r.fault("create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *ev
	r.byID[ev.ID] = &c
	return nil
}

func (r *TrackingEventRepo) GetByID(_ context.Context, id string) (*entity.TrackingEvent, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *ev
	return &c, nil
}

func (r *TrackingEventRepo) Delete(_ context.Context, id string) error {
	if err := r.fault("delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *TrackingEventRepo) ListByShipment(_ context.Context, shipmentID string) ([]*entity.TrackingEvent, error) {
	if err := r.fault("list"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.TrackingEvent, 0)
	for _, ev := range r.byID {
		if ev.ShipmentID == shipmentID {
			c := *ev
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventTime.After(out[j].EventTime) })
	return out, nil
}
