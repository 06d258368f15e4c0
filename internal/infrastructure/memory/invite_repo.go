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

// InviteRepo invitaciones indexadas por email normalizado: una por email.
type InviteRepo struct {
	faults
	mu      sync.RWMutex
	byEmail map[string]*entity.Invite
}

var _ repository.InviteRepository = (*InviteRepo)(nil)

// NewInviteRepo construye el repositorio vacío.
func NewInviteRepo() *InviteRepo {
	return &InviteRepo{byEmail: make(map[string]*entity.Invite)}
}

func (r *InviteRepo) GetByEmail(_ context.Context, email string) (*entity.Invite, error) {
	if err := r.fault("get"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	c := *inv
	return &c, nil
}

func (r *InviteRepo) Create(_ context.Context, invite *entity.Invite) error {
	if err := r.fault("create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[invite.Email]; ok {
		return domain.ErrDuplicate
	}
	c := *invite
	r.byEmail[invite.Email] = &c
	return nil
}

func (r *InviteRepo) Update(_ context.Context, invite *entity.Invite) error {
	if err := r.fault("update"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byEmail[invite.Email]
	if !ok || cur.ID != invite.ID {
		return domain.ErrNotFound
	}
	cur.FullName = invite.FullName
	cur.Role = invite.Role
	cur.Status = invite.Status
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *InviteRepo) UpsertByEmail(_ context.Context, invite *entity.Invite) error {
	if err := r.fault("upsert"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.byEmail[invite.Email]; ok {
		cur.FullName = invite.FullName
		cur.Role = invite.Role
		cur.Status = invite.Status
		cur.UpdatedAt = time.Now()
		invite.ID = cur.ID
		invite.CreatedAt = cur.CreatedAt
		return nil
	}
	c := *invite
	r.byEmail[invite.Email] = &c
	return nil
}

func (r *InviteRepo) MarkActive(_ context.Context, id string) error {
	if err := r.fault("mark_active"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.byEmail {
		if inv.ID == id {
			inv.Status = entity.InviteStatusActive
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *InviteRepo) ListByStatus(_ context.Context, status string) ([]*entity.Invite, error) {
	if err := r.fault("list"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Invite, 0)
	for _, inv := range r.byEmail {
		if status == "" || inv.Status == status {
			c := *inv
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Count número de filas; solo para pruebas.
func (r *InviteRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}
