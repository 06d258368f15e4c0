package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// PDFUseCase genera la representación PDF de una factura.
type PDFUseCase struct {
	invoices  *InvoiceUseCase
	customers repository.CustomerRepository
	shipments repository.ShipmentRepository
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoices *InvoiceUseCase,
	customers repository.CustomerRepository,
	shipments repository.ShipmentRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{invoices: invoices, customers: customers, shipments: shipments, generator: generator}
}

// Render carga factura, cliente y envío y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe o no es visible para el sujeto.
//   - domain.ErrForbidden        si el rol no alcanza.
func (uc *PDFUseCase) Render(ctx context.Context, sub *access.Subject, invoiceID string) (pdfBytes []byte, filename string, err error) {
	if err := sub.Require(policy.OpInvoicePDF); err != nil {
		return nil, "", err
	}
	// ── 1. Factura (con control de visibilidad) ──────────────────────────────
	inv, err := uc.invoices.visible(ctx, sub, invoiceID)
	if err != nil {
		return nil, "", err
	}

	// ── 2. Cliente ───────────────────────────────────────────────────────────
	customer, err := uc.customers.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, "", domain.Upstream("customers.get", err)
	}
	if customer == nil {
		return nil, "", fmt.Errorf("pdf: cliente %s de la factura: %w", inv.CustomerID, domain.ErrNotFound)
	}

	// ── 3. Envío (opcional) ──────────────────────────────────────────────────
	var shipment *entity.Shipment
	if inv.ShipmentID != nil {
		if shipment, err = uc.shipments.GetByID(ctx, *inv.ShipmentID); err != nil {
			return nil, "", domain.Upstream("shipments.get", err)
		}
	}

	// ── 4. Generar PDF ───────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, customer, shipment)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("%s_%s.pdf", inv.Type, inv.Number())
	return pdfBytes, filename, nil
}
