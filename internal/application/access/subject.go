package access

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// Subject principal autenticado con sus capacidades, resuelto una vez por petición.
type Subject struct {
	UserID  string
	Email   string
	Profile *entity.Profile // nil si nunca se activó
	policy.Capabilities
}

// Require verifica la operación contra las capacidades del sujeto.
// Un sujeto nil es una petición anónima.
func (s *Subject) Require(op policy.Operation) error {
	if s == nil {
		return domain.ErrUnauthenticated
	}
	return policy.Require(s.Capabilities, op)
}

// CustomerID cliente asociado al perfil, si lo hay.
func (s *Subject) CustomerID() *string {
	if s == nil || s.Profile == nil {
		return nil
	}
	return s.Profile.CustomerID
}

// CanSeeCustomer staff ve todo; un usuario solo lo de su propio cliente.
func (s *Subject) CanSeeCustomer(customerID string) bool {
	if s == nil {
		return false
	}
	if s.IsStaff {
		return true
	}
	own := s.CustomerID()
	return own != nil && *own == customerID
}

// Authorizer resuelve el rol vigente de un principal leyendo la base en cada llamada.
type Authorizer struct {
	identity IdentityProvider
	roles    repository.RoleRepository
	profiles repository.ProfileRepository
	log      zerolog.Logger
}

// NewAuthorizer construye el resolvedor de sujetos.
func NewAuthorizer(identity IdentityProvider, roles repository.RoleRepository, profiles repository.ProfileRepository, log zerolog.Logger) *Authorizer {
	return &Authorizer{identity: identity, roles: roles, profiles: profiles, log: log}
}

// Resolve construye el Subject del principal. ErrUnauthenticated si el principal ya no existe.
// Con más de una fila de rol (setRole interrumpido) gana el rol de menor rango.
func (a *Authorizer) Resolve(ctx context.Context, principalID string) (*Subject, error) {
	if principalID == "" {
		return nil, domain.ErrUnauthenticated
	}
	p, err := a.identity.GetPrincipal(ctx, principalID)
	if err != nil {
		return nil, domain.Upstream("identity.get_principal", err)
	}
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}
	rows, err := a.roles.ListByUserID(ctx, principalID)
	if err != nil {
		return nil, domain.Upstream("roles.list", err)
	}
	if len(rows) > 1 {
		a.log.Warn().Str("user_id", principalID).Int("rows", len(rows)).Msg("varias filas de rol; se aplica la de menor rango")
	}
	profile, err := a.profiles.GetByUserID(ctx, principalID)
	if err != nil {
		return nil, domain.Upstream("profiles.get", err)
	}
	return &Subject{
		UserID:       p.ID,
		Email:        p.Email,
		Profile:      profile,
		Capabilities: policy.CapabilitiesFor(entity.LowestRole(rows)),
	}, nil
}
