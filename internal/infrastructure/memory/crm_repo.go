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

// LeadRepo leads en memoria.
type LeadRepo struct {
	faults
	mu   sync.RWMutex
	byID map[string]*entity.Lead
}

var _ repository.LeadRepository = (*LeadRepo)(nil)

// NewLeadRepo construye el repositorio vacío.
func NewLeadRepo() *LeadRepo {
	return &LeadRepo{byID: make(map[string]*entity.Lead)}
}

func (r *LeadRepo) Create(_ context.Context, lead *entity.Lead) error {
	if err := r.fault("create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *lead
	r.byID[lead.ID] = &c
	return nil
}

func (r *LeadRepo) GetByID(_ context.Context, id string) (*entity.Lead, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

// Update no toca leads convertidos.
func (r *LeadRepo) Update(_ context.Context, lead *entity.Lead) error {
	if err := r.fault("update"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[lead.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.IsConverted() {
		return domain.ErrConflict
	}
	cur.Name = lead.Name
	cur.Email = lead.Email
	cur.Phone = lead.Phone
	cur.Company = lead.Company
	cur.Notes = lead.Notes
	cur.Status = lead.Status
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *LeadRepo) MarkConverted(_ context.Context, id, customerID string) error {
	if err := r.fault("mark_converted"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.IsConverted() {
		return domain.ErrConflict
	}
	cur.Status = entity.LeadStatusConverted
	cur.CustomerID = &customerID
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *LeadRepo) List(_ context.Context, status string) ([]*entity.Lead, error) {
	if err := r.fault("list"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Lead, 0)
	for _, l := range r.byID {
		if status == "" || l.Status == status {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CustomerRepo clientes en memoria; email único también entre borrados.
type CustomerRepo struct {
	faults
	mu   sync.RWMutex
	byID map[string]*entity.Customer
}

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// NewCustomerRepo construye el repositorio vacío.
func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{byID: make(map[string]*entity.Customer)}
}

func (r *CustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if err := r.fault("create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTakenLocked(customer.Email, "") {
		return domain.ErrDuplicate
	}
	c := *customer
	r.byID[customer.ID] = &c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cu, ok := r.byID[id]
	if !ok || cu.IsDeleted {
		return nil, nil
	}
	c := *cu
	return &c, nil
}

func (r *CustomerRepo) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cu := range r.byID {
		if cu.Email == email {
			c := *cu
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	if err := r.fault("update"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[customer.ID]
	if !ok || cur.IsDeleted {
		return domain.ErrNotFound
	}
	if r.emailTakenLocked(customer.Email, customer.ID) {
		return domain.ErrDuplicate
	}
	cur.Name = customer.Name
	cur.Email = customer.Email
	cur.Phone = customer.Phone
	cur.Company = customer.Company
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *CustomerRepo) SoftDelete(_ context.Context, id string) error {
	if err := r.fault("soft_delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[id]
	if !ok || cur.IsDeleted {
		return domain.ErrNotFound
	}
	cur.IsDeleted = true
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *CustomerRepo) List(_ context.Context) ([]*entity.Customer, error) {
	if err := r.fault("list"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Customer, 0, len(r.byID))
	for _, cu := range r.byID {
		if !cu.IsDeleted {
			c := *cu
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CustomerRepo) emailTakenLocked(email, exceptID string) bool {
	for id, cu := range r.byID {
		if id != exceptID && cu.Email == email {
			return true
		}
	}
	return false
}

// AppointmentRepo citas en memoria.
type AppointmentRepo struct {
	faults
	mu   sync.RWMutex
	byID map[string]*entity.Appointment
}

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

// NewAppointmentRepo construye el repositorio vacío.
func NewAppointmentRepo() *AppointmentRepo {
	return &AppointmentRepo{byID: make(map[string]*entity.Appointment)}
}

func (r *AppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	if err := r.fault("create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	r.byID[a.ID] = &c
	return nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, id string) (*entity.Appointment, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *AppointmentRepo) UpdateStatus(_ context.Context, id, status string) error {
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
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *AppointmentRepo) List(_ context.Context, status string) ([]*entity.Appointment, error) {
	if err := r.fault("list"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Appointment, 0)
	for _, a := range r.byID {
		if status == "" || a.Status == status {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *AppointmentRepo) CountByStatus(_ context.Context, status string) (int, error) {
	if err := r.fault("count"); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, a := range r.byID {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}
