package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// InvoiceUseCase facturas proforma y comerciales.
type InvoiceUseCase struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	shipments repository.ShipmentRepository
	log       zerolog.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	shipments repository.ShipmentRepository,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices, customers: customers, shipments: shipments, log: log}
}

// Create crea la factura en draft. El número lo asigna la persistencia al insertar
// y los montos se recalculan aquí a partir de las líneas.
func (uc *InvoiceUseCase) Create(ctx context.Context, sub *access.Subject, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := sub.Require(policy.OpInvoiceCreate); err != nil {
		return nil, err
	}
	invoiceType := in.InvoiceType
	if invoiceType == "" {
		invoiceType = entity.InvoiceTypeProforma
	}
	if !entity.ValidInvoiceType(invoiceType) {
		return nil, domain.Invalid("tipo de factura desconocido %q", in.InvoiceType)
	}
	now := time.Now()
	inv := &entity.Invoice{
		ID:        uuid.New().String(),
		Type:      invoiceType,
		Status:    entity.InvoiceStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.apply(ctx, inv, in); err != nil {
		return nil, err
	}
	if err := uc.invoices.Create(ctx, inv); err != nil {
		return nil, domain.Upstream("invoices.create", err)
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("number", inv.Number()).Str("by", sub.UserID).Msg("factura creada")
	return toInvoiceResponse(inv), nil
}

// Update reemplaza líneas y montos. Solo mientras la factura está en draft.
func (uc *InvoiceUseCase) Update(ctx context.Context, sub *access.Subject, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := sub.Require(policy.OpInvoiceUpdate); err != nil {
		return nil, err
	}
	inv, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsDraft() {
		return nil, domain.Conflict("solo se editan facturas en draft (estado actual: %s)", inv.Status)
	}
	if in.InvoiceType != "" && in.InvoiceType != inv.Type {
		return nil, domain.Invalid("el tipo de factura no se puede cambiar")
	}
	if err := uc.apply(ctx, inv, in); err != nil {
		return nil, err
	}
	if err := uc.invoices.UpdateDraft(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Upstream("invoices.update", err)
	}
	return toInvoiceResponse(inv), nil
}

// SetStatus acepta cualquier estado del enumerado. sent fija sent_at y paid fija paid_at.
func (uc *InvoiceUseCase) SetStatus(ctx context.Context, sub *access.Subject, id string, in dto.SetStatusRequest) (*dto.InvoiceResponse, error) {
	if err := sub.Require(policy.OpInvoiceSetStatus); err != nil {
		return nil, err
	}
	if !entity.ValidInvoiceStatus(in.Status) {
		return nil, domain.Invalid("estado de factura desconocido %q", in.Status)
	}
	var sentAt, paidAt *time.Time
	now := time.Now()
	switch in.Status {
	case entity.InvoiceStatusSent:
		sentAt = &now
	case entity.InvoiceStatusPaid:
		paidAt = &now
	}
	if err := uc.invoices.UpdateStatus(ctx, id, in.Status, sentAt, paidAt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Upstream("invoices.update_status", err)
	}
	inv, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", id).Str("status", in.Status).Str("by", sub.UserID).Msg("estado de factura actualizado")
	return toInvoiceResponse(inv), nil
}

// ConvertToCommercial crea una factura comercial a partir de una proforma sent o paid,
// copiando líneas y montos. La proforma no se modifica y solo admite una conversión.
func (uc *InvoiceUseCase) ConvertToCommercial(ctx context.Context, sub *access.Subject, id string) (*dto.InvoiceResponse, error) {
	if err := sub.Require(policy.OpInvoiceConvertToCommercial); err != nil {
		return nil, err
	}
	src, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if src.Type != entity.InvoiceTypeProforma {
		return nil, domain.Invalid("solo las proformas se convierten en comerciales")
	}
	if !src.CanConvertToCommercial() {
		return nil, domain.Conflict("solo proformas sent o paid se convierten (estado actual: %s)", src.Status)
	}
	prev, err := uc.invoices.GetByConvertedFrom(ctx, src.ID)
	if err != nil {
		return nil, domain.Upstream("invoices.get_by_converted_from", err)
	}
	if prev != nil {
		return nil, domain.Conflict("la proforma ya fue convertida en %s", prev.Number())
	}

	now := time.Now()
	srcID := src.ID
	commercial := &entity.Invoice{
		ID:                     uuid.New().String(),
		Type:                   entity.InvoiceTypeCommercial,
		Status:                 entity.InvoiceStatusDraft,
		CustomerID:             src.CustomerID,
		ShipmentID:             src.ShipmentID,
		Currency:               src.Currency,
		Items:                  append([]entity.LineItem(nil), src.Items...),
		Subtotal:               src.Subtotal,
		Tax:                    src.Tax,
		Discount:               src.Discount,
		Total:                  src.Total,
		ConvertedFromInvoiceID: &srcID,
		ConvertedAt:            &now,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := uc.invoices.Create(ctx, commercial); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("la proforma ya fue convertida")
		}
		return nil, domain.Upstream("invoices.create", err)
	}
	uc.log.Info().Str("source_id", src.ID).Str("invoice_id", commercial.ID).Str("number", commercial.Number()).Msg("proforma convertida a comercial")
	return toInvoiceResponse(commercial), nil
}

// Get una factura. Un usuario sin rol de staff solo ve las de su cliente.
func (uc *InvoiceUseCase) Get(ctx context.Context, sub *access.Subject, id string) (*dto.InvoiceResponse, error) {
	if err := sub.Require(policy.OpInvoiceRead); err != nil {
		return nil, err
	}
	inv, err := uc.visible(ctx, sub, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// List facturas visibles para el sujeto, opcionalmente por estado.
func (uc *InvoiceUseCase) List(ctx context.Context, sub *access.Subject, status string) ([]dto.InvoiceResponse, error) {
	if err := sub.Require(policy.OpInvoiceRead); err != nil {
		return nil, err
	}
	if status != "" && !entity.ValidInvoiceStatus(status) {
		return nil, domain.Invalid("estado de factura desconocido %q", status)
	}
	list, err := uc.invoices.List(ctx, status)
	if err != nil {
		return nil, domain.Upstream("invoices.list", err)
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		if sub.CanSeeCustomer(inv.CustomerID) {
			out = append(out, *toInvoiceResponse(inv))
		}
	}
	return out, nil
}

func (uc *InvoiceUseCase) visible(ctx context.Context, sub *access.Subject, id string) (*entity.Invoice, error) {
	inv, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.CanSeeCustomer(inv.CustomerID) {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (uc *InvoiceUseCase) get(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("invoices.get", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// apply valida la entrada, copia cliente, envío, moneda y líneas, y recalcula montos.
func (uc *InvoiceUseCase) apply(ctx context.Context, inv *entity.Invoice, in dto.InvoiceRequest) error {
	if in.CustomerID == "" {
		return domain.Invalid("customer_id es obligatorio")
	}
	c, err := uc.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return domain.Upstream("customers.get", err)
	}
	if c == nil {
		return domain.Invalid("cliente %s no existe", in.CustomerID)
	}
	if in.ShipmentID != nil && *in.ShipmentID != "" {
		s, err := uc.shipments.GetByID(ctx, *in.ShipmentID)
		if err != nil {
			return domain.Upstream("shipments.get", err)
		}
		if s == nil {
			return domain.Invalid("envío %s no existe", *in.ShipmentID)
		}
		inv.ShipmentID = in.ShipmentID
	} else {
		inv.ShipmentID = nil
	}
	if len(in.Items) == 0 {
		return domain.Invalid("la factura necesita al menos una línea")
	}
	if in.Tax.IsNegative() || in.Discount.IsNegative() {
		return domain.Invalid("tax y discount no pueden ser negativos")
	}
	items := make([]entity.LineItem, 0, len(in.Items))
	for i, it := range in.Items {
		if strings.TrimSpace(it.Description) == "" {
			return domain.Invalid("línea %d: description es obligatoria", i+1)
		}
		if !it.Quantity.IsPositive() {
			return domain.Invalid("línea %d: quantity debe ser mayor que cero", i+1)
		}
		if it.UnitPrice.IsNegative() {
			return domain.Invalid("línea %d: unit_price no puede ser negativo", i+1)
		}
		items = append(items, entity.LineItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	inv.CustomerID = in.CustomerID
	inv.Currency = currency
	inv.Items = items
	inv.Tax = in.Tax
	inv.Discount = in.Discount
	inv.Recalculate()
	if inv.Total.IsNegative() {
		return domain.Invalid("el descuento supera subtotal más impuestos")
	}
	return nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.LineTotal,
		})
	}
	return &dto.InvoiceResponse{
		ID:                     inv.ID,
		InvoiceType:            inv.Type,
		ProformaNo:             inv.ProformaNo,
		CommercialNo:           inv.CommercialNo,
		Status:                 inv.Status,
		CustomerID:             inv.CustomerID,
		ShipmentID:             inv.ShipmentID,
		Currency:               inv.Currency,
		Items:                  items,
		Subtotal:               inv.Subtotal,
		Tax:                    inv.Tax,
		Discount:               inv.Discount,
		Total:                  inv.Total,
		ConvertedFromInvoiceID: inv.ConvertedFromInvoiceID,
		ConvertedAt:            inv.ConvertedAt,
		SentAt:                 inv.SentAt,
		PaidAt:                 inv.PaidAt,
		CreatedAt:              inv.CreatedAt,
	}
}
