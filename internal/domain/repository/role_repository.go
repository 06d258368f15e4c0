package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// RoleRepository puerto de persistencia para user_roles (clave única user_id, role).
type RoleRepository interface {
	Upsert(ctx context.Context, userID string, role entity.Role) error
	// DeleteOthers borra las filas del usuario cuyo rol sea distinto de keep.
	DeleteOthers(ctx context.Context, userID string, keep entity.Role) error
	DeleteByUserID(ctx context.Context, userID string) error
	ListByUserID(ctx context.Context, userID string) ([]*entity.RoleAssignment, error)
	// ExistsWithRole informa si algún usuario tiene el rol (bootstrap del primer admin).
	ExistsWithRole(ctx context.Context, role entity.Role) (bool, error)
}
