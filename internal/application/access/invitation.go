package access

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// InvitationUseCase ciclo de vida de invitaciones: no-invite → pending → active.
type InvitationUseCase struct {
	invites    repository.InviteRepository
	profiles   repository.ProfileRepository
	roles      repository.RoleRepository
	identity   IdentityProvider
	notifier   Notifier
	redirectTo string
	log        zerolog.Logger
}

// NewInvitationUseCase construye el caso de uso. redirectTo es ${SITE_URL}/auth/set-password.
func NewInvitationUseCase(
	invites repository.InviteRepository,
	profiles repository.ProfileRepository,
	roles repository.RoleRepository,
	identity IdentityProvider,
	notifier Notifier,
	redirectTo string,
	log zerolog.Logger,
) *InvitationUseCase {
	return &InvitationUseCase{
		invites:    invites,
		profiles:   profiles,
		roles:      roles,
		identity:   identity,
		notifier:   notifier,
		redirectTo: redirectTo,
		log:        log,
	}
}

// Create invita un email. Si ya hay fila para el email se trata como reenvío.
func (uc *InvitationUseCase) Create(ctx context.Context, sub *Subject, in dto.CreateInviteRequest) (*dto.InviteResult, error) {
	if err := sub.Require(policy.OpInviteCreate); err != nil {
		return nil, err
	}
	email, err := validEmail(in.Email)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, domain.Invalid("full_name es obligatorio")
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, domain.Invalid("%v", err)
	}

	existing, err := uc.invites.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.Upstream("invites.get", err)
	}
	if existing != nil {
		uc.log.Info().Str("email", email).Msg("invitación existente: se reenvía")
		ticket, err := uc.issue(ctx, email, fullName, role)
		if err != nil {
			return nil, err
		}
		existing.FullName = fullName
		existing.Role = role
		existing.Status = entity.InviteStatusPending
		existing.UpdatedAt = time.Now()
		if err := uc.invites.Update(ctx, existing); err != nil {
			return nil, domain.Upstream("invites.update", err)
		}
		return inviteResult(existing, ticket, true), nil
	}

	ticket, err := uc.issue(ctx, email, fullName, role)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	inv := &entity.Invite{
		ID:        uuid.New().String(),
		Email:     email,
		FullName:  fullName,
		Role:      role,
		Status:    entity.InviteStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.invites.Create(ctx, inv); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Upstream("invites.create", err)
		}
		// otra petición creó la fila entre la lectura y el insert
		if err := uc.invites.UpsertByEmail(ctx, inv); err != nil {
			return nil, domain.Upstream("invites.upsert", err)
		}
		return inviteResult(inv, ticket, true), nil
	}
	uc.log.Info().Str("email", email).Str("role", role.String()).Msg("invitación creada")
	return inviteResult(inv, ticket, false), nil
}

// Resend reemite la invitación y deja la fila en pending. FullName y Role ausentes
// conservan el valor de la fila existente (o "" y user si no hay fila).
func (uc *InvitationUseCase) Resend(ctx context.Context, sub *Subject, in dto.ResendInviteRequest) (*dto.InviteResult, error) {
	if err := sub.Require(policy.OpInviteResend); err != nil {
		return nil, err
	}
	email, err := validEmail(in.Email)
	if err != nil {
		return nil, err
	}
	existing, err := uc.invites.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.Upstream("invites.get", err)
	}

	fullName := ""
	role := entity.RoleUser
	if existing != nil {
		fullName = existing.FullName
		role = existing.Role
	}
	if in.FullName != nil {
		fullName = strings.TrimSpace(*in.FullName)
	}
	if in.Role != nil {
		if role, err = entity.ParseRole(*in.Role); err != nil {
			return nil, domain.Invalid("%v", err)
		}
	}

	ticket, err := uc.issue(ctx, email, fullName, role)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	inv := &entity.Invite{
		ID:        uuid.New().String(),
		Email:     email,
		FullName:  fullName,
		Role:      role,
		Status:    entity.InviteStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		inv.ID = existing.ID
		inv.CreatedAt = existing.CreatedAt
	}
	if err := uc.invites.UpsertByEmail(ctx, inv); err != nil {
		return nil, domain.Upstream("invites.upsert", err)
	}
	uc.log.Info().Str("email", email).Msg("invitación reenviada")
	return inviteResult(inv, ticket, true), nil
}

// Activate provisiona perfil y rol del principal invitado y marca la invitación activa.
// Sin invitación es un no-op exitoso. Perfil y rol se escriben antes de marcar la
// invitación, así una caída a mitad deja la invitación pending y reintentable.
func (uc *InvitationUseCase) Activate(ctx context.Context, principalID, email string) (*dto.ActivationResult, error) {
	if principalID == "" {
		return nil, domain.ErrUnauthenticated
	}
	email = entity.NormalizeEmail(email)
	inv, err := uc.invites.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.Upstream("invites.get", err)
	}
	if inv == nil {
		return &dto.ActivationResult{Success: true, Message: "sin invitación para el email"}, nil
	}
	if inv.IsActive() {
		uc.log.Debug().Str("user_id", principalID).Msg("invitación ya activa; nada que hacer")
		return &dto.ActivationResult{Success: true, Message: "invitación ya activa"}, nil
	}

	now := time.Now()
	profile := &entity.Profile{
		ID:        uuid.New().String(),
		UserID:    principalID,
		Name:      inv.FullName,
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.profiles.UpsertByUserID(ctx, profile); err != nil {
		return nil, domain.Upstream("profiles.upsert", err)
	}
	if err := uc.roles.Upsert(ctx, principalID, inv.Role); err != nil {
		return nil, domain.Upstream("roles.upsert", err)
	}
	if err := uc.roles.DeleteOthers(ctx, principalID, inv.Role); err != nil {
		return nil, domain.Upstream("roles.delete_others", err)
	}
	if err := uc.invites.MarkActive(ctx, inv.ID); err != nil {
		return nil, domain.Upstream("invites.mark_active", err)
	}
	uc.log.Info().Str("user_id", principalID).Str("role", inv.Role.String()).Msg("invitación activada")
	return &dto.ActivationResult{Success: true, Activated: true, Message: "invitación activada"}, nil
}

// ListPending invitaciones aún no canjeadas.
func (uc *InvitationUseCase) ListPending(ctx context.Context, sub *Subject) ([]dto.InviteResponse, error) {
	if err := sub.Require(policy.OpInviteList); err != nil {
		return nil, err
	}
	list, err := uc.invites.ListByStatus(ctx, entity.InviteStatusPending)
	if err != nil {
		return nil, domain.Upstream("invites.list", err)
	}
	out := make([]dto.InviteResponse, 0, len(list))
	for _, i := range list {
		out = append(out, toInviteResponse(i))
	}
	return out, nil
}

// issue emite la invitación en el proveedor de identidad y entrega el aviso.
// Cualquier falla aquí ocurre antes de escribir la fila de invitación.
func (uc *InvitationUseCase) issue(ctx context.Context, email, fullName string, role entity.Role) (*InviteTicket, error) {
	ticket, err := uc.identity.InvitePrincipal(ctx, email, uc.redirectTo, map[string]string{
		"full_name": fullName,
		"role":      role.String(),
	})
	if err != nil {
		return nil, domain.Upstream("identity.invite", err)
	}
	err = uc.notifier.NotifyInvite(ctx, InviteNotification{
		Email:      email,
		FullName:   fullName,
		Role:       role.String(),
		RedirectTo: uc.redirectTo,
		Token:      ticket.Token,
		ExpiresAt:  ticket.ExpiresAt,
	})
	if err != nil {
		return nil, domain.Upstream("notifier.invite", err)
	}
	return ticket, nil
}

func inviteResult(inv *entity.Invite, ticket *InviteTicket, resent bool) *dto.InviteResult {
	msg := "invitación enviada"
	if resent {
		msg = "invitación reenviada"
	}
	out := &dto.InviteResult{
		Success: true,
		Resent:  resent,
		Message: msg,
		Invite:  toInviteResponse(inv),
	}
	if ticket != nil && ticket.Principal != nil {
		out.PrincipalID = ticket.Principal.ID
	}
	return out
}

func validEmail(raw string) (string, error) {
	email := entity.NormalizeEmail(raw)
	if email == "" {
		return "", domain.Invalid("email es obligatorio")
	}
	if !govalidator.IsEmail(email) {
		return "", domain.Invalid("email inválido: %q", raw)
	}
	return email, nil
}
