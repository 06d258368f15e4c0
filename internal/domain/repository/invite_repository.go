package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// InviteRepository puerto de persistencia para Invite, indexado por email normalizado.
// GetByEmail devuelve (nil, nil) si no existe.
type InviteRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.Invite, error)
	Create(ctx context.Context, invite *entity.Invite) error
	// Update reescribe full_name, role y status de la fila existente (por ID).
	Update(ctx context.Context, invite *entity.Invite) error
	// UpsertByEmail inserta o actualiza usando la restricción única sobre email.
	UpsertByEmail(ctx context.Context, invite *entity.Invite) error
	// MarkActive pone status=active. Sobre una fila ya activa no es error.
	MarkActive(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, status string) ([]*entity.Invite, error)
}
