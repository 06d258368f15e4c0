package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de factura.
const (
	InvoiceTypeProforma   = "proforma"
	InvoiceTypeCommercial = "commercial"
)

// Estados de factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// DefaultCurrency moneda cuando el cliente no envía una.
const DefaultCurrency = "USD"

// MoneyScale decimales de los montos; coincide con NUMERIC(14,2) en la base.
const MoneyScale = 2

// ValidInvoiceType informa si t es un tipo de factura conocido.
func ValidInvoiceType(t string) bool {
	return t == InvoiceTypeProforma || t == InvoiceTypeCommercial
}

// ValidInvoiceStatus informa si s es un estado de factura conocido.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// InvoiceNumberPrefix prefijo del consecutivo por tipo: PF-000001, CI-000001.
func InvoiceNumberPrefix(invoiceType string) string {
	if invoiceType == InvoiceTypeCommercial {
		return "CI-"
	}
	return "PF-"
}

// FormatInvoiceNumber arma el número visible a partir del consecutivo del tipo.
func FormatInvoiceNumber(invoiceType string, seq int64) string {
	return fmt.Sprintf("%s%06d", InvoiceNumberPrefix(invoiceType), seq)
}

// SetNumber asigna el número en la columna que corresponde al tipo.
func (i *Invoice) SetNumber(n string) {
	if i.Type == InvoiceTypeCommercial {
		i.CommercialNo = n
		return
	}
	i.ProformaNo = n
}

// LineItem línea de factura. LineTotal = Quantity × UnitPrice.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"total"`
}

// Invoice factura proforma o comercial.
type Invoice struct {
	ID                     string
	Type                   string
	ProformaNo             string // solo proforma
	CommercialNo           string // solo commercial
	Status                 string
	CustomerID             string
	ShipmentID             *string
	Currency               string
	Items                  []LineItem
	Subtotal               decimal.Decimal
	Tax                    decimal.Decimal
	Discount               decimal.Decimal
	Total                  decimal.Decimal
	ConvertedFromInvoiceID *string // arista de linaje, inmutable
	ConvertedAt            *time.Time
	SentAt                 *time.Time
	PaidAt                 *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Number devuelve el consecutivo según el tipo.
func (i *Invoice) Number() string {
	if i.Type == InvoiceTypeCommercial {
		return i.CommercialNo
	}
	return i.ProformaNo
}

// IsDraft solo las facturas en borrador aceptan cambios de líneas y montos.
func (i *Invoice) IsDraft() bool { return i.Status == InvoiceStatusDraft }

// Recalculate recalcula line_total, subtotal y total a partir de las líneas.
// Nunca se confía en montos enviados por el cliente. Cada línea, el impuesto y
// el descuento se redondean a MoneyScale antes de sumar, así
// total = subtotal + tax - discount y subtotal = Σ line_total se mantienen
// después de pasar por la base.
func (i *Invoice) Recalculate() {
	subtotal := decimal.Zero
	for idx := range i.Items {
		it := &i.Items[idx]
		it.LineTotal = it.Quantity.Mul(it.UnitPrice).Round(MoneyScale)
		subtotal = subtotal.Add(it.LineTotal)
	}
	i.Tax = i.Tax.Round(MoneyScale)
	i.Discount = i.Discount.Round(MoneyScale)
	i.Subtotal = subtotal
	i.Total = subtotal.Add(i.Tax).Sub(i.Discount)
}

// CanConvertToCommercial solo proformas enviadas o pagadas generan una comercial.
func (i *Invoice) CanConvertToCommercial() bool {
	return i.Type == InvoiceTypeProforma &&
		(i.Status == InvoiceStatusSent || i.Status == InvoiceStatusPaid)
}
