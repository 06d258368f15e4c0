package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// InvoiceRepo facturas en memoria con un consecutivo por tipo.
type InvoiceRepo struct {
	faults
	mu   sync.RWMutex
	byID map[string]*entity.Invoice
	seq  map[string]int64
}

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// NewInvoiceRepo construye el repositorio vacío.
func NewInvoiceRepo() *InvoiceRepo {
	return &InvoiceRepo{byID: make(map[string]*entity.Invoice), seq: make(map[string]int64)}
}

// Create asigna el número del consecutivo del tipo al insertar.
func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if err := r.fault("create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ConvertedFromInvoiceID != nil {
		for _, cur := range r.byID {
			if cur.ConvertedFromInvoiceID != nil && *cur.ConvertedFromInvoiceID == *inv.ConvertedFromInvoiceID {
				return domain.ErrDuplicate
			}
		}
	}
	r.seq[inv.Type]++
	inv.SetNumber(entity.FormatInvoiceNumber(inv.Type, r.seq[inv.Type]))
	r.byID[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceRepo) UpdateDraft(_ context.Context, inv *entity.Invoice) error {
	if err := r.fault("update"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.IsDraft() {
		return domain.ErrConflict
	}
	cur.CustomerID = inv.CustomerID
	cur.ShipmentID = inv.ShipmentID
	cur.Currency = inv.Currency
	cur.Items = append([]entity.LineItem(nil), inv.Items...)
	cur.Subtotal = inv.Subtotal
	cur.Tax = inv.Tax
	cur.Discount = inv.Discount
	cur.Total = inv.Total
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *InvoiceRepo) UpdateStatus(_ context.Context, id, status string, sentAt, paidAt *time.Time) error {
	if err := r.fault("update_status"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = status
	if sentAt != nil {
		cur.SentAt = sentAt
	}
	if paidAt != nil {
		cur.PaidAt = paidAt
	}
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *InvoiceRepo) GetByConvertedFrom(_ context.Context, sourceID string) (*entity.Invoice, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inv := range r.byID {
		if inv.ConvertedFromInvoiceID != nil && *inv.ConvertedFromInvoiceID == sourceID {
			return cloneInvoice(inv), nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) List(_ context.Context, status string) ([]*entity.Invoice, error) {
	if err := r.fault("list"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Invoice, 0)
	for _, inv := range r.byID {
		if status == "" || inv.Status == status {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.Items = append([]entity.LineItem(nil), inv.Items...)
	return &c
}
