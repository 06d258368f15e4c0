package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0.00",
		"125":       "125.00",
		"25000":     "25,000.00",
		"1000000.5": "1,000,000.50",
		"-1234.5":   "-1,234.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	src := "inv-src"
	now := time.Now()
	inv := &entity.Invoice{
		ID: "inv-1", Type: entity.InvoiceTypeCommercial, CommercialNo: "CI-000001",
		Status: entity.InvoiceStatusDraft, Currency: "USD", CustomerID: "c-1",
		Items: []entity.LineItem{
			{Description: "Flete", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
		Tax: decimal.NewFromInt(5), Discount: decimal.NewFromInt(10),
		ConvertedFromInvoiceID: &src, ConvertedAt: &now, CreatedAt: now,
	}
	inv.Recalculate()
	customer := &entity.Customer{ID: "c-1", Name: "Acme", Email: "ops@acme.com", Company: "Acme"}
	shipment := &entity.Shipment{TrackingNumber: "GBRS123456ABC", Type: "sea", Origin: "Shanghai", Destination: "Bogotá"}

	g := NewMarotoPDFGenerator("Logística Test")
	b, err := g.GenerateInvoicePDF(context.Background(), inv, customer, shipment)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))

	b, err = g.GenerateInvoicePDF(context.Background(), inv, customer, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, b)

	_, err = g.GenerateInvoicePDF(context.Background(), inv, nil, nil)
	assert.Error(t, err)
}
