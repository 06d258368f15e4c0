package repository

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Create y Update devuelven domain.ErrDuplicate si el email ya existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Customer, error)
}
