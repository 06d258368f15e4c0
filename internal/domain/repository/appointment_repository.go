package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// AppointmentRepository puerto de persistencia para citas.
type AppointmentRepository interface {
	Create(ctx context.Context, a *entity.Appointment) error
	GetByID(ctx context.Context, id string) (*entity.Appointment, error)
	// UpdateStatus domain.ErrNotFound si la cita no existe.
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, status string) ([]*entity.Appointment, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}
