package access

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-api/pkg/jwt"
)

const minPasswordLen = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase inicio de sesión, canje de invitación y alta directa.
type AuthUseCase struct {
	identity IdentityProvider
	roles    repository.RoleRepository
	profiles repository.ProfileRepository
	authz    *Authorizer
	events   SignInPublisher
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	identity IdentityProvider,
	roles repository.RoleRepository,
	profiles repository.ProfileRepository,
	authz *Authorizer,
	events SignInPublisher,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		identity: identity,
		roles:    roles,
		profiles: profiles,
		authz:    authz,
		events:   events,
		jwtCfg:   jwtCfg,
		log:      log,
	}
}

// Login verifica email/password, publica el inicio de sesión y retorna token + sujeto.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Invalid("email y password son obligatorios")
	}
	p, err := uc.identity.Authenticate(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return nil, err
		}
		return nil, domain.Upstream("identity.authenticate", err)
	}
	return uc.signIn(ctx, p)
}

// SetPassword canjea el token de invitación, fija la contraseña e inicia sesión.
func (uc *AuthUseCase) SetPassword(ctx context.Context, in dto.SetPasswordRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(in.Token) == "" {
		return nil, domain.Invalid("token es obligatorio")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalid("la contraseña debe tener al menos %d caracteres", minPasswordLen)
	}
	p, err := uc.identity.RedeemInvitation(ctx, in.Token, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return nil, err
		}
		return nil, domain.Upstream("identity.redeem", err)
	}
	return uc.signIn(ctx, p)
}

// ChangePassword cambia la contraseña del propio sujeto.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, sub *Subject, in dto.ChangePasswordRequest) (*dto.SuccessResponse, error) {
	if sub == nil {
		return nil, domain.ErrUnauthenticated
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalid("la contraseña debe tener al menos %d caracteres", minPasswordLen)
	}
	if err := uc.identity.UpdateCredential(ctx, sub.UserID, in.Password); err != nil {
		return nil, domain.Upstream("identity.update_credential", err)
	}
	return &dto.SuccessResponse{Success: true, Message: "contraseña actualizada"}, nil
}

// CreateDirect alta con contraseña, sin invitación. Anónimo solo mientras no exista
// ningún admin (bootstrap); después exige rol admin.
func (uc *AuthUseCase) CreateDirect(ctx context.Context, sub *Subject, in dto.CreateDirectRequest) (*dto.MeResponse, error) {
	adminExists, err := uc.roles.ExistsWithRole(ctx, entity.RoleAdmin)
	if err != nil {
		return nil, domain.Upstream("roles.exists", err)
	}
	if adminExists {
		if err := sub.Require(policy.OpUserCreate); err != nil {
			return nil, err
		}
	}
	email, err := validEmail(in.Email)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, domain.Invalid("full_name es obligatorio")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalid("la contraseña debe tener al menos %d caracteres", minPasswordLen)
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, domain.Invalid("%v", err)
	}

	p, err := uc.identity.CreatePrincipal(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("ya existe un usuario con el email %s", email)
		}
		return nil, domain.Upstream("identity.create", err)
	}
	now := time.Now()
	if err := uc.profiles.UpsertByUserID(ctx, &entity.Profile{
		ID:        uuid.New().String(),
		UserID:    p.ID,
		Name:      fullName,
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return nil, domain.Upstream("profiles.upsert", err)
	}
	if err := uc.roles.Upsert(ctx, p.ID, role); err != nil {
		return nil, domain.Upstream("roles.upsert", err)
	}
	if err := uc.roles.DeleteOthers(ctx, p.ID, role); err != nil {
		return nil, domain.Upstream("roles.delete_others", err)
	}
	uc.log.Info().Str("user_id", p.ID).Str("role", role.String()).Bool("bootstrap", !adminExists).Msg("usuario creado sin invitación")

	created, err := uc.authz.Resolve(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	me := toMeResponse(created)
	return &me, nil
}

// Me datos del sujeto autenticado.
func (uc *AuthUseCase) Me(_ context.Context, sub *Subject) (*dto.MeResponse, error) {
	if sub == nil {
		return nil, domain.ErrUnauthenticated
	}
	me := toMeResponse(sub)
	return &me, nil
}

// signIn publica el evento (la activación la hace el suscriptor del bus) y emite el token.
// Si el bus falla el login no falla: el cliente puede llamar a /api/invites/activate.
func (uc *AuthUseCase) signIn(ctx context.Context, p *entity.Principal) (*dto.LoginResponse, error) {
	ev := entity.SignInEvent{PrincipalID: p.ID, Email: p.Email, OccurredAt: time.Now()}
	if err := uc.events.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("user_id", p.ID).Msg("no se pudo publicar el inicio de sesión")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, p.ID, p.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	sub, err := uc.authz.Resolve(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: toMeResponse(sub)}, nil
}
