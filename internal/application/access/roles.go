package access

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// RoleUseCase gestión de roles y usuarios (solo admin).
type RoleUseCase struct {
	roles    repository.RoleRepository
	profiles repository.ProfileRepository
	invites  repository.InviteRepository
	identity IdentityProvider
	log      zerolog.Logger
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(
	roles repository.RoleRepository,
	profiles repository.ProfileRepository,
	invites repository.InviteRepository,
	identity IdentityProvider,
	log zerolog.Logger,
) *RoleUseCase {
	return &RoleUseCase{roles: roles, profiles: profiles, invites: invites, identity: identity, log: log}
}

// SetRole deja exactamente un rol para el usuario: primero upsert del nuevo, después
// borra los demás. Nunca hay una ventana sin rol; si el segundo paso falla queda un
// duplicado inofensivo que la siguiente llamada limpia.
func (uc *RoleUseCase) SetRole(ctx context.Context, sub *Subject, targetUserID string, in dto.SetRoleRequest) (*dto.SuccessResponse, error) {
	if err := sub.Require(policy.OpRoleSet); err != nil {
		return nil, err
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, domain.Invalid("%v", err)
	}
	if err := uc.mustExist(ctx, targetUserID); err != nil {
		return nil, err
	}
	if err := uc.roles.Upsert(ctx, targetUserID, role); err != nil {
		return nil, domain.Upstream("roles.upsert", err)
	}
	if err := uc.roles.DeleteOthers(ctx, targetUserID, role); err != nil {
		uc.log.Warn().Err(err).Str("user_id", targetUserID).Msg("rol duplicado pendiente de limpieza")
		return nil, domain.Upstream("roles.delete_others", err)
	}
	uc.log.Info().Str("user_id", targetUserID).Str("role", role.String()).Str("by", sub.UserID).Msg("rol asignado")
	return &dto.SuccessResponse{Success: true, Message: "rol actualizado"}, nil
}

// Deactivate marca el perfil como inactivo. No revoca la credencial ni borra filas.
func (uc *RoleUseCase) Deactivate(ctx context.Context, sub *Subject, targetUserID string) (*dto.SuccessResponse, error) {
	if err := sub.Require(policy.OpUserDeactivate); err != nil {
		return nil, err
	}
	if err := uc.profiles.SetActive(ctx, targetUserID, false); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Upstream("profiles.set_active", err)
	}
	uc.log.Info().Str("user_id", targetUserID).Str("by", sub.UserID).Msg("usuario desactivado")
	return &dto.SuccessResponse{Success: true, Message: "usuario desactivado"}, nil
}

// Delete borra el principal del proveedor de identidad y luego perfil y roles.
// Si el borrado de identidad falla no se toca nada local. Un principal ya inexistente
// cuenta como borrado para que un reintento complete la limpieza.
func (uc *RoleUseCase) Delete(ctx context.Context, sub *Subject, targetUserID string) (*dto.SuccessResponse, error) {
	if err := sub.Require(policy.OpUserDelete); err != nil {
		return nil, err
	}
	if targetUserID == "" {
		return nil, domain.Invalid("user_id es obligatorio")
	}
	if err := uc.identity.DeletePrincipal(ctx, targetUserID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Upstream("identity.delete", err)
		}
		uc.log.Warn().Str("user_id", targetUserID).Msg("principal ya inexistente; se completa la limpieza local")
	}
	if err := uc.profiles.DeleteByUserID(ctx, targetUserID); err != nil {
		return nil, domain.Upstream("profiles.delete", err)
	}
	if err := uc.roles.DeleteByUserID(ctx, targetUserID); err != nil {
		return nil, domain.Upstream("roles.delete", err)
	}
	uc.log.Info().Str("user_id", targetUserID).Str("by", sub.UserID).Msg("usuario eliminado")
	return &dto.SuccessResponse{Success: true, Message: "usuario eliminado"}, nil
}

// ListUsers usuarios con perfil (y su rol vigente) más las invitaciones pendientes.
func (uc *RoleUseCase) ListUsers(ctx context.Context, sub *Subject) (*dto.UserListResponse, error) {
	if err := sub.Require(policy.OpUserList); err != nil {
		return nil, err
	}
	profiles, err := uc.profiles.List(ctx)
	if err != nil {
		return nil, domain.Upstream("profiles.list", err)
	}
	out := &dto.UserListResponse{
		ActiveUsers:    make([]dto.UserResponse, 0, len(profiles)),
		PendingInvites: []dto.InviteResponse{},
	}
	for _, p := range profiles {
		rows, err := uc.roles.ListByUserID(ctx, p.UserID)
		if err != nil {
			return nil, domain.Upstream("roles.list", err)
		}
		out.ActiveUsers = append(out.ActiveUsers, dto.UserResponse{
			UserID:    p.UserID,
			Name:      p.Name,
			Email:     p.Email,
			Role:      entity.LowestRole(rows).String(),
			IsActive:  p.IsActive,
			CreatedAt: p.CreatedAt,
		})
	}
	pending, err := uc.invites.ListByStatus(ctx, entity.InviteStatusPending)
	if err != nil {
		return nil, domain.Upstream("invites.list", err)
	}
	for _, i := range pending {
		out.PendingInvites = append(out.PendingInvites, toInviteResponse(i))
	}
	return out, nil
}

func (uc *RoleUseCase) mustExist(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.Invalid("user_id es obligatorio")
	}
	p, err := uc.identity.GetPrincipal(ctx, userID)
	if err != nil {
		return domain.Upstream("identity.get_principal", err)
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}
