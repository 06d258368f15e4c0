package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id.
// Los totales se recalculan en el servidor; no se aceptan del cliente.
type InvoiceRequest struct {
	InvoiceType string               `json:"invoice_type"`
	CustomerID  string               `json:"customer_id"`
	ShipmentID  *string              `json:"shipment_id,omitempty"`
	Currency    string               `json:"currency,omitempty"`
	Items       []InvoiceItemRequest `json:"items"`
	Tax         decimal.Decimal      `json:"tax"`
	Discount    decimal.Decimal      `json:"discount"`
}

// InvoiceItemRequest línea de factura.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InvoiceResponse factura con líneas.
type InvoiceResponse struct {
	ID                     string                `json:"id"`
	InvoiceType            string                `json:"invoice_type"`
	ProformaNo             string                `json:"proforma_no,omitempty"`
	CommercialNo           string                `json:"commercial_no,omitempty"`
	Status                 string                `json:"status"`
	CustomerID             string                `json:"customer_id"`
	ShipmentID             *string               `json:"shipment_id,omitempty"`
	Currency               string                `json:"currency"`
	Items                  []InvoiceItemResponse `json:"items"`
	Subtotal               decimal.Decimal       `json:"subtotal"`
	Tax                    decimal.Decimal       `json:"tax"`
	Discount               decimal.Decimal       `json:"discount"`
	Total                  decimal.Decimal       `json:"total"`
	ConvertedFromInvoiceID *string               `json:"converted_from_invoice_id,omitempty"`
	ConvertedAt            *time.Time            `json:"converted_at,omitempty"`
	SentAt                 *time.Time            `json:"sent_at,omitempty"`
	PaidAt                 *time.Time            `json:"paid_at,omitempty"`
	CreatedAt              time.Time             `json:"created_at"`
}

// InvoiceItemResponse línea de factura en la respuesta.
type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}
