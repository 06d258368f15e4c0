package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Las líneas viven en la columna JSONB items.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_type, proforma_no, commercial_no, status, customer_id, shipment_id, currency, items,
	subtotal, tax, discount, total, converted_from_invoice_id, converted_at, sent_at, paid_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var proformaNo, commercialNo *string
	err := row.Scan(
		&inv.ID, &inv.Type, &proformaNo, &commercialNo, &inv.Status, &inv.CustomerID, &inv.ShipmentID, &inv.Currency, &inv.Items,
		&inv.Subtotal, &inv.Tax, &inv.Discount, &inv.Total, &inv.ConvertedFromInvoiceID, &inv.ConvertedAt, &inv.SentAt, &inv.PaidAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.ProformaNo = emptyIfNull(proformaNo)
	inv.CommercialNo = emptyIfNull(commercialNo)
	return &inv, nil
}

// Create toma el siguiente valor de invoice_sequences e inserta en la misma sentencia:
// si el INSERT falla, el consecutivo no se consume.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	items := invoice.Items
	if items == nil {
		items = []entity.LineItem{}
	}
	var number string
	err := r.q.QueryRow(ctx, `
		WITH seq AS (
			UPDATE invoice_sequences SET last_value = last_value + 1
			WHERE invoice_type = $2
			RETURNING $3::text || lpad(last_value::text, 6, '0') AS number
		)
		INSERT INTO invoices (id, invoice_type, proforma_no, commercial_no, status, customer_id, shipment_id, currency, items,
			subtotal, tax, discount, total, converted_from_invoice_id, converted_at, created_at, updated_at)
		SELECT $1, $2,
			CASE WHEN $2 = 'proforma' THEN seq.number END,
			CASE WHEN $2 = 'commercial' THEN seq.number END,
			$4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		FROM seq
		RETURNING COALESCE(proforma_no, commercial_no)`,
		invoice.ID, invoice.Type, entity.InvoiceNumberPrefix(invoice.Type),
		invoice.Status, invoice.CustomerID, invoice.ShipmentID, invoice.Currency, items,
		invoice.Subtotal, invoice.Tax, invoice.Discount, invoice.Total,
		invoice.ConvertedFromInvoiceID, invoice.ConvertedAt, invoice.CreatedAt, invoice.UpdatedAt,
	).Scan(&number)
	if err != nil {
		if isUniqueViolationOn(err, "uq_invoices_converted_from") {
			return domain.ErrDuplicate
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("insert invoice: sin secuencia para el tipo %q", invoice.Type)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	invoice.SetNumber(number)
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if !validUUID(id) {
		return nil, nil
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// UpdateDraft reescribe líneas y montos solo si la fila sigue en draft.
func (r *InvoiceRepo) UpdateDraft(ctx context.Context, invoice *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET customer_id = $2, shipment_id = $3, currency = $4, items = $5,
		    subtotal = $6, tax = $7, discount = $8, total = $9, updated_at = now()
		WHERE id = $1 AND status = 'draft'`,
		invoice.ID, invoice.CustomerID, invoice.ShipmentID, invoice.Currency, invoice.Items,
		invoice.Subtotal, invoice.Tax, invoice.Discount, invoice.Total,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		cur, err := r.GetByID(ctx, invoice.ID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// UpdateStatus sentAt y paidAt nil conservan el valor de la columna.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status string, sentAt, paidAt *time.Time) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET status = $2, sent_at = COALESCE($3, sent_at), paid_at = COALESCE($4, paid_at), updated_at = now()
		WHERE id = $1`, id, status, sentAt, paidAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) GetByConvertedFrom(ctx context.Context, sourceID string) (*entity.Invoice, error) {
	if !validUUID(sourceID) {
		return nil, nil
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE converted_from_invoice_id = $1`, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by converted_from: %w", err)
	}
	return inv, nil
}

// List facturas por estado; vacío las trae todas.
func (r *InvoiceRepo) List(ctx context.Context, status string) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
