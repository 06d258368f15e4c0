package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// ProfileRepository puerto de persistencia para Profile (clave única user_id).
type ProfileRepository interface {
	// UpsertByUserID inserta o actualiza name, email e is_active con conflicto en user_id.
	UpsertByUserID(ctx context.Context, profile *entity.Profile) error
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	// SetActive devuelve domain.ErrNotFound si no hay perfil para el usuario.
	SetActive(ctx context.Context, userID string, active bool) error
	DeleteByUserID(ctx context.Context, userID string) error
	List(ctx context.Context) ([]*entity.Profile, error)
}
