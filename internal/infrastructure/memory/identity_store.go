package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// InviteTokenTTL vigencia de un token de invitación.
const InviteTokenTTL = 72 * time.Hour

type inviteToken struct {
	principalID string
	expiresAt   time.Time
}

// IdentityStore proveedor de identidad en memoria con contraseñas bcrypt.
type IdentityStore struct {
	faults
	mu      sync.RWMutex
	cost    int
	byID    map[string]*entity.Principal
	byEmail map[string]string
	tokens  map[string]inviteToken
}

var _ access.IdentityProvider = (*IdentityStore)(nil)

// NewIdentityStore construye el almacén. cost es el costo bcrypt (bcrypt.MinCost en pruebas).
func NewIdentityStore(cost int) *IdentityStore {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &IdentityStore{
		cost:    cost,
		byID:    make(map[string]*entity.Principal),
		byEmail: make(map[string]string),
		tokens:  make(map[string]inviteToken),
	}
}

func (s *IdentityStore) CreatePrincipal(_ context.Context, email, password string) (*entity.Principal, error) {
	if err := s.fault("create"); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return nil, domain.ErrDuplicate
	}
	p := s.insertLocked(email)
	p.PasswordHash = string(hash)
	c := *p
	return &c, nil
}

func (s *IdentityStore) GetPrincipal(_ context.Context, id string) (*entity.Principal, error) {
	if err := s.fault("get"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (s *IdentityStore) GetPrincipalByEmail(ctx context.Context, email string) (*entity.Principal, error) {
	s.mu.RLock()
	id, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return s.GetPrincipal(ctx, id)
}

func (s *IdentityStore) Authenticate(_ context.Context, email, password string) (*entity.Principal, error) {
	if err := s.fault("authenticate"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	var p *entity.Principal
	if id, ok := s.byEmail[email]; ok {
		c := *s.byID[id]
		p = &c
	}
	s.mu.RUnlock()
	if p == nil || !p.HasCredential() {
		return nil, domain.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

func (s *IdentityStore) InvitePrincipal(_ context.Context, email, _ string, _ map[string]string) (*access.InviteTicket, error) {
	if err := s.fault("invite"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var p *entity.Principal
	if id, ok := s.byEmail[email]; ok {
		p = s.byID[id]
	} else {
		p = s.insertLocked(email)
	}
	token := uuid.New().String()
	exp := time.Now().Add(InviteTokenTTL)
	s.tokens[token] = inviteToken{principalID: p.ID, expiresAt: exp}
	c := *p
	return &access.InviteTicket{Principal: &c, Token: token, ExpiresAt: exp}, nil
}

func (s *IdentityStore) RedeemInvitation(_ context.Context, token, password string) (*entity.Principal, error) {
	if err := s.fault("redeem"); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok || time.Now().After(t.expiresAt) {
		return nil, domain.ErrUnauthenticated
	}
	delete(s.tokens, token)
	p, ok := s.byID[t.principalID]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	p.PasswordHash = string(hash)
	p.UpdatedAt = time.Now()
	c := *p
	return &c, nil
}

func (s *IdentityStore) DeletePrincipal(_ context.Context, id string) error {
	if err := s.fault("delete"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.byEmail, p.Email)
	delete(s.byID, id)
	for tok, t := range s.tokens {
		if t.principalID == id {
			delete(s.tokens, tok)
		}
	}
	return nil
}

func (s *IdentityStore) UpdateCredential(_ context.Context, id, password string) error {
	if err := s.fault("update_credential"); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PasswordHash = string(hash)
	p.UpdatedAt = time.Now()
	return nil
}

func (s *IdentityStore) insertLocked(email string) *entity.Principal {
	now := time.Now()
	p := &entity.Principal{ID: uuid.New().String(), Email: email, CreatedAt: now, UpdatedAt: now}
	s.byID[p.ID] = p
	s.byEmail[email] = p.ID
	return p
}
