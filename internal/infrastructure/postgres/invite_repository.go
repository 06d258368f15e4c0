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

var _ repository.InviteRepository = (*InviteRepo)(nil)

// InviteRepo implementación de InviteRepository (usable con pool o tx).
type InviteRepo struct {
	q Querier
}

// NewInviteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInviteRepository(q Querier) *InviteRepo {
	return &InviteRepo{q: q}
}

const inviteColumns = `id, email, full_name, role, status, created_at, updated_at`

func scanInvite(row pgx.Row) (*entity.Invite, error) {
	var inv entity.Invite
	var role string
	if err := row.Scan(&inv.ID, &inv.Email, &inv.FullName, &role, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	inv.Role = entity.Role(role)
	return &inv, nil
}

// GetByEmail obtiene la invitación del email normalizado.
func (r *InviteRepo) GetByEmail(ctx context.Context, email string) (*entity.Invite, error) {
	inv, err := scanInvite(r.q.QueryRow(ctx, `SELECT `+inviteColumns+` FROM invites WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

// Create inserta la invitación. domain.ErrDuplicate si el email ya tiene fila.
func (r *InviteRepo) Create(ctx context.Context, invite *entity.Invite) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invites (id, email, full_name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		invite.ID, invite.Email, invite.FullName, string(invite.Role), invite.Status, invite.CreatedAt, invite.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invite: %w", err)
	}
	return nil
}

// Update reescribe full_name, role y status.
func (r *InviteRepo) Update(ctx context.Context, invite *entity.Invite) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invites SET full_name = $2, role = $3, status = $4, updated_at = now()
		WHERE id = $1`,
		invite.ID, invite.FullName, string(invite.Role), invite.Status,
	)
	if err != nil {
		return fmt.Errorf("update invite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertByEmail inserta o actualiza sobre la restricción única de email.
// Devuelve en invite el id y created_at de la fila resultante.
func (r *InviteRepo) UpsertByEmail(ctx context.Context, invite *entity.Invite) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO invites (id, email, full_name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    role      = EXCLUDED.role,
		    status    = EXCLUDED.status,
		    updated_at = now()
		RETURNING id, created_at`,
		invite.ID, invite.Email, invite.FullName, string(invite.Role), invite.Status, invite.CreatedAt, invite.UpdatedAt,
	).Scan(&invite.ID, &invite.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert invite: %w", err)
	}
	return nil
}

// MarkActive idempotente: sobre una fila activa no cambia nada.
func (r *InviteRepo) MarkActive(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE invites SET status = 'active', updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark invite active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStatus lista invitaciones; status vacío las trae todas.
func (r *InviteRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Invite, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+inviteColumns+` FROM invites
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Invite, 0)
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
