package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// LeadRepository puerto de persistencia para Lead.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	// MarkConverted escribe status=converted y customer_id solo si el lead no estaba convertido.
	// Devuelve domain.ErrConflict si ya lo estaba.
	MarkConverted(ctx context.Context, id, customerID string) error
	List(ctx context.Context, status string) ([]*entity.Lead, error)
}
