package billing

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// InvoicePDFGenerator puerto para generar la representación PDF de una factura.
// shipment es nil si la factura no está asociada a un envío.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, customer *entity.Customer, shipment *entity.Shipment) ([]byte, error)
}
