package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo filas de user_roles. La columna role es el enum app_role.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

func (r *RoleRepo) Upsert(ctx context.Context, userID string, role entity.Role) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_roles (id, user_id, role) VALUES ($1, $2, $3::app_role)
		ON CONFLICT (user_id, role) DO NOTHING`,
		uuid.New().String(), userID, string(role),
	)
	if err != nil {
		return fmt.Errorf("upsert role: %w", err)
	}
	return nil
}

func (r *RoleRepo) DeleteOthers(ctx context.Context, userID string, keep entity.Role) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role <> $2::app_role`, userID, string(keep)); err != nil {
		return fmt.Errorf("delete other roles: %w", err)
	}
	return nil
}

func (r *RoleRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete roles: %w", err)
	}
	return nil
}

func (r *RoleRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.RoleAssignment, error) {
	if !validUUID(userID) {
		return []*entity.RoleAssignment{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id, user_id, role::text FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.RoleAssignment, 0, 1)
	for rows.Next() {
		var a entity.RoleAssignment
		var role string
		if err := rows.Scan(&a.ID, &a.UserID, &role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		a.Role = entity.Role(role)
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *RoleRepo) ExistsWithRole(ctx context.Context, role entity.Role) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_roles WHERE role = $1::app_role)`, string(role)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists role: %w", err)
	}
	return exists, nil
}
