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

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

// AppointmentRepo implementación de AppointmentRepository.
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

const appointmentColumns = `id, name, email, phone, company, preferred_date, preferred_time, language, service,
	message, status, customer_id, lead_id, created_at, updated_at`

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	var message *string
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.Company, &a.PreferredDate, &a.PreferredTime, &a.Language, &a.Service,
		&message, &a.Status, &a.CustomerID, &a.LeadID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Message = emptyIfNull(message)
	return &a, nil
}

func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO appointments (id, name, email, phone, company, preferred_date, preferred_time, language, service,
			message, status, customer_id, lead_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		a.ID, a.Name, a.Email, a.Phone, a.Company, a.PreferredDate, a.PreferredTime, a.Language, a.Service,
		nullIfEmpty(a.Message), a.Status, a.CustomerID, a.LeadID, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	if !validUUID(id) {
		return nil, nil
	}
	a, err := scanAppointment(r.q.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepo) List(ctx context.Context, status string) ([]*entity.Appointment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AppointmentRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM appointments WHERE status = $1`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}
