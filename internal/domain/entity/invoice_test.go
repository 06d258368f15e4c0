package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestInvoiceRecalculate_EscenarioDeReferencia(t *testing.T) {
	inv := &entity.Invoice{
		Items: []entity.LineItem{
			{Description: "Flete", Quantity: dec("2"), UnitPrice: dec("50")},
			{Description: "Seguro", Quantity: dec("1"), UnitPrice: dec("30")},
		},
		Tax:      dec("5"),
		Discount: dec("10"),
		// total enviado por el cliente; debe ignorarse
		Total: dec("9999"),
	}
	inv.Recalculate()

	assert.True(t, inv.Items[0].LineTotal.Equal(dec("100")))
	assert.True(t, inv.Items[1].LineTotal.Equal(dec("30")))
	assert.True(t, inv.Subtotal.Equal(dec("130")), "subtotal=%s", inv.Subtotal)
	assert.True(t, inv.Total.Equal(dec("125")), "total=%s", inv.Total)
}

func TestInvoiceRecalculate_SinLineas(t *testing.T) {
	inv := &entity.Invoice{Tax: dec("3"), Discount: dec("1")}
	inv.Recalculate()
	assert.True(t, inv.Subtotal.IsZero())
	assert.True(t, inv.Total.Equal(dec("2")))
}

func TestInvoiceRecalculate_RedondeaADosDecimales(t *testing.T) {
	inv := &entity.Invoice{
		Items: []entity.LineItem{
			{Description: "Manejo", Quantity: dec("1"), UnitPrice: dec("0.005")},
			{Description: "Estiba", Quantity: dec("3"), UnitPrice: dec("0.333")},
		},
		Tax:      dec("0.125"),
		Discount: dec("0.004"),
	}
	inv.Recalculate()

	assert.Equal(t, "0.01", inv.Items[0].LineTotal.StringFixed(2))
	assert.Equal(t, "1.00", inv.Items[1].LineTotal.StringFixed(2))
	assert.True(t, inv.Subtotal.Equal(dec("1.01")), "subtotal=%s", inv.Subtotal)
	assert.True(t, inv.Tax.Equal(dec("0.13")), "tax=%s", inv.Tax)
	assert.True(t, inv.Discount.IsZero(), "discount=%s", inv.Discount)
	assert.True(t, inv.Total.Equal(dec("1.14")), "total=%s", inv.Total)

	// los invariantes sobreviven a una columna NUMERIC(14,2)
	sum := decimal.Zero
	for _, it := range inv.Items {
		sum = sum.Add(it.LineTotal)
	}
	assert.True(t, sum.Equal(inv.Subtotal))
	assert.True(t, inv.Total.Equal(inv.Subtotal.Add(inv.Tax).Sub(inv.Discount)))
	for _, v := range []decimal.Decimal{inv.Subtotal, inv.Tax, inv.Discount, inv.Total} {
		assert.True(t, v.Equal(v.Round(entity.MoneyScale)), "%s tiene más de dos decimales", v)
	}
}

func TestInvoiceCanConvertToCommercial(t *testing.T) {
	cases := []struct {
		typ, status string
		want        bool
	}{
		{entity.InvoiceTypeProforma, entity.InvoiceStatusSent, true},
		{entity.InvoiceTypeProforma, entity.InvoiceStatusPaid, true},
		{entity.InvoiceTypeProforma, entity.InvoiceStatusDraft, false},
		{entity.InvoiceTypeProforma, entity.InvoiceStatusOverdue, false},
		{entity.InvoiceTypeProforma, entity.InvoiceStatusCancelled, false},
		{entity.InvoiceTypeCommercial, entity.InvoiceStatusPaid, false},
	}
	for _, c := range cases {
		inv := &entity.Invoice{Type: c.typ, Status: c.status}
		assert.Equal(t, c.want, inv.CanConvertToCommercial(), "%s/%s", c.typ, c.status)
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "PF-000001", entity.FormatInvoiceNumber(entity.InvoiceTypeProforma, 1))
	assert.Equal(t, "CI-000042", entity.FormatInvoiceNumber(entity.InvoiceTypeCommercial, 42))

	inv := &entity.Invoice{Type: entity.InvoiceTypeCommercial}
	inv.SetNumber("CI-000042")
	assert.Equal(t, "CI-000042", inv.Number())
	assert.Empty(t, inv.ProformaNo)
}
