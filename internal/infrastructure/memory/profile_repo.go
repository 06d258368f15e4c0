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

// ProfileRepo perfiles indexados por user_id.
type ProfileRepo struct {
	faults
	mu       sync.RWMutex
	byUserID map[string]*entity.Profile
}

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// NewProfileRepo construye el repositorio vacío.
func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{byUserID: make(map[string]*entity.Profile)}
}

// UpsertByUserID conserva id, created_at y customer_id de la fila existente.
func (r *ProfileRepo) UpsertByUserID(_ context.Context, p *entity.Profile) error {
	if err := r.fault("upsert"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.byUserID[p.UserID]; ok {
		cur.Name = p.Name
		cur.Email = p.Email
		cur.IsActive = p.IsActive
		cur.UpdatedAt = time.Now()
		return nil
	}
	c := *p
	r.byUserID[p.UserID] = &c
	return nil
}

func (r *ProfileRepo) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byUserID[userID]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *ProfileRepo) SetActive(_ context.Context, userID string, active bool) error {
	if err := r.fault("set_active"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byUserID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = active
	p.UpdatedAt = time.Now()
	return nil
}

func (r *ProfileRepo) DeleteByUserID(_ context.Context, userID string) error {
	if err := r.fault("delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUserID, userID)
	return nil
}

func (r *ProfileRepo) List(_ context.Context) ([]*entity.Profile, error) {
	if err := r.fault("list"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Profile, 0, len(r.byUserID))
	for _, p := range r.byUserID {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// LinkCustomer asocia el perfil a un cliente; solo para pruebas y datos de desarrollo.
func (r *ProfileRepo) LinkCustomer(userID, customerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byUserID[userID]; ok {
		p.CustomerID = &customerID
	}
}
