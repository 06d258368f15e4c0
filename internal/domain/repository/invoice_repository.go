package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	// Create inserta la factura y asigna proforma_no o commercial_no desde la secuencia del tipo.
	// Si ConvertedFromInvoiceID ya tiene una comercial, devuelve domain.ErrDuplicate.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// UpdateDraft reescribe líneas y montos solo si la factura sigue en draft;
	// si no, devuelve domain.ErrConflict.
	UpdateDraft(ctx context.Context, invoice *entity.Invoice) error
	// UpdateStatus cambia el estado; sentAt/paidAt nil no modifican la columna.
	UpdateStatus(ctx context.Context, id, status string, sentAt, paidAt *time.Time) error
	// GetByConvertedFrom devuelve la comercial generada desde la proforma, o nil.
	GetByConvertedFrom(ctx context.Context, sourceID string) (*entity.Invoice, error)
	List(ctx context.Context, status string) ([]*entity.Invoice, error)
}
