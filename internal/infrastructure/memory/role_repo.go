package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// RoleRepo filas de rol con clave (user_id, role).
type RoleRepo struct {
	faults
	mu   sync.RWMutex
	rows map[string]map[entity.Role]*entity.RoleAssignment
}

var _ repository.RoleRepository = (*RoleRepo)(nil)

// NewRoleRepo construye el repositorio vacío.
func NewRoleRepo() *RoleRepo {
	return &RoleRepo{rows: make(map[string]map[entity.Role]*entity.RoleAssignment)}
}

func (r *RoleRepo) Upsert(_ context.Context, userID string, role entity.Role) error {
	if err := r.fault("upsert"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byRole, ok := r.rows[userID]
	if !ok {
		byRole = make(map[entity.Role]*entity.RoleAssignment)
		r.rows[userID] = byRole
	}
	if _, ok := byRole[role]; !ok {
		byRole[role] = &entity.RoleAssignment{ID: uuid.New().String(), UserID: userID, Role: role}
	}
	return nil
}

func (r *RoleRepo) DeleteOthers(_ context.Context, userID string, keep entity.Role) error {
	if err := r.fault("delete_others"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for role := range r.rows[userID] {
		if role != keep {
			delete(r.rows[userID], role)
		}
	}
	return nil
}

func (r *RoleRepo) DeleteByUserID(_ context.Context, userID string) error {
	if err := r.fault("delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, userID)
	return nil
}

func (r *RoleRepo) ListByUserID(_ context.Context, userID string) ([]*entity.RoleAssignment, error) {
	if err := r.fault("list"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.RoleAssignment, 0, len(r.rows[userID]))
	for _, a := range r.rows[userID] {
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out, nil
}

func (r *RoleRepo) ExistsWithRole(_ context.Context, role entity.Role) (bool, error) {
	if err := r.fault("exists"); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, byRole := range r.rows {
		if _, ok := byRole[role]; ok {
			return true, nil
		}
	}
	return false, nil
}
