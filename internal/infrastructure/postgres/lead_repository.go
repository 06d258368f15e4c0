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

var _ repository.LeadRepository = (*LeadRepo)(nil)

// LeadRepo implementación de LeadRepository.
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

const leadColumns = `id, name, email, phone, company, status, notes, customer_id, created_at, updated_at`

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	if err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Status, &l.Notes, &l.CustomerID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO leads (id, name, email, phone, company, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Status, lead.Notes, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	if !validUUID(id) {
		return nil, nil
	}
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// Update no toca leads convertidos: domain.ErrConflict.
func (r *LeadRepo) Update(ctx context.Context, lead *entity.Lead) error {
	if !validUUID(lead.ID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE leads SET name = $2, email = $3, phone = $4, company = $5, notes = $6, status = $7, updated_at = now()
		WHERE id = $1 AND status <> 'converted'`,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Notes, lead.Status,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, lead.ID)
	}
	return nil
}

// MarkConverted escribe status y customer_id en un único UPDATE condicionado.
func (r *LeadRepo) MarkConverted(ctx context.Context, id, customerID string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE leads SET status = 'converted', customer_id = $2, updated_at = now()
		WHERE id = $1 AND status <> 'converted'`, id, customerID)
	if err != nil {
		return fmt.Errorf("mark lead converted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

func (r *LeadRepo) List(ctx context.Context, status string) ([]*entity.Lead, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LeadRepo) missOrConflict(ctx context.Context, id string) error {
	l, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}
