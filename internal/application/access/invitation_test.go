package access_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// ─── Create / Resend ─────────────────────────────────────────────────────────

func TestInvitationCreate_DosVecesEsReenvio(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	ctx := context.Background()

	first, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: " Bob@X.com ", FullName: "Bob", Role: "user"})
	require.NoError(t, err)
	assert.False(t, first.Resent)
	assert.Equal(t, "bob@x.com", first.Invite.Email)

	second, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob B", Role: "moderator"})
	require.NoError(t, err)
	assert.True(t, second.Resent)
	assert.Equal(t, first.Invite.ID, second.Invite.ID)

	assert.Equal(t, 1, h.store.Invites.Count())
	inv, err := h.store.Invites.GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Bob B", inv.FullName)
	assert.Equal(t, entity.RoleModerator, inv.Role)
	assert.Equal(t, entity.InviteStatusPending, inv.Status)

	sent := h.notifier.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, redirect, sent[1].RedirectTo)
}

func TestInvitationCreate_FallaIdentidadNoEscribeFila(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	h.store.Identity.FailOn("invite", assert.AnError)

	_, err := h.invites.Create(context.Background(), admin, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob", Role: "user"})
	require.Error(t, err)
	assert.Equal(t, domain.KindUpstreamFailure, domain.KindOf(err))
	assert.Equal(t, 0, h.store.Invites.Count())
}

func TestInvitationCreate_ValidaEntrada(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	ctx := context.Background()

	_, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "no-es-email", FullName: "Bob", Role: "user"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInvitationCreate_SoloAdmin(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	mod := h.subjectWithRole(t, admin, "mod@x.com", entity.RoleModerator)

	_, err := h.invites.Create(context.Background(), mod, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob", Role: "user"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = h.invites.Create(context.Background(), nil, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob", Role: "user"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, 0, h.store.Invites.Count())
}

func TestInvitationResend_ConservaDatosYVuelveAPending(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	ctx := context.Background()
	_, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob", Role: "moderator"})
	require.NoError(t, err)

	p, err := h.store.Identity.GetPrincipalByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	_, err = h.invites.Activate(ctx, p.ID, "bob@x.com")
	require.NoError(t, err)

	res, err := h.invites.Resend(ctx, admin, dto.ResendInviteRequest{Email: "bob@x.com"})
	require.NoError(t, err)
	assert.True(t, res.Resent)
	assert.Equal(t, "Bob", res.Invite.FullName)
	assert.Equal(t, "moderator", res.Invite.Role)
	assert.Equal(t, entity.InviteStatusPending, res.Invite.Status)
}

func TestInvitationResend_SinFilaUsaValoresPorDefecto(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)

	res, err := h.invites.Resend(context.Background(), admin, dto.ResendInviteRequest{Email: "nuevo@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "", res.Invite.FullName)
	assert.Equal(t, "user", res.Invite.Role)
	assert.Equal(t, 1, h.store.Invites.Count())
}

// ─── Activate ────────────────────────────────────────────────────────────────

func TestInvitationActivate_EscenarioBobModerador(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	ctx := context.Background()
	_, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob", Role: "moderator"})
	require.NoError(t, err)
	token := h.notifier.Sent()[0].Token

	// primer inicio de sesión: canje del token; el bus dispara la activación
	login, err := h.auth.SetPassword(ctx, dto.SetPasswordRequest{Token: token, Password: "bob-secreto"})
	require.NoError(t, err)
	assert.Equal(t, "moderator", login.User.Role)
	assert.True(t, login.User.IsActive)

	profile, err := h.store.Profiles.GetByUserID(ctx, login.User.UserID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Bob", profile.Name)
	assert.Equal(t, "bob@x.com", profile.Email)

	rows, err := h.store.Roles.ListByUserID(ctx, login.User.UserID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.RoleModerator, rows[0].Role)

	inv, err := h.store.Invites.GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, entity.InviteStatusActive, inv.Status)
}

func TestInvitationActivate_Idempotente(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	ctx := context.Background()
	created, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob", Role: "user"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := h.invites.Activate(ctx, created.PrincipalID, "BOB@x.com")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, i == 0, res.Activated)
	}

	rows, err := h.store.Roles.ListByUserID(ctx, created.PrincipalID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	profiles, err := h.store.Profiles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 2) // admin + bob
}

func TestInvitationActivate_ConcurrenteConverge(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	ctx := context.Background()
	created, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob", Role: "moderator"})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	results := make([]*dto.ActivationResult, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = h.invites.Activate(ctx, created.PrincipalID, "bob@x.com")
		}(i)
	}
	wg.Wait()

	activated := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Success)
		if results[i].Activated {
			activated++
		}
	}
	assert.GreaterOrEqual(t, activated, 1)

	rows, err := h.store.Roles.ListByUserID(ctx, created.PrincipalID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.RoleModerator, rows[0].Role)

	profile, err := h.store.Profiles.GetByUserID(ctx, created.PrincipalID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.IsActive)
	profiles, err := h.store.Profiles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 2) // admin + bob

	inv, err := h.store.Invites.GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, entity.InviteStatusActive, inv.Status)
	assert.Equal(t, 1, h.store.Invites.Count())
}

func TestInvitationActivate_SinInvitacionEsNoOp(t *testing.T) {
	h := newHarness(t)
	res, err := h.invites.Activate(context.Background(), "u-1", "nadie@x.com")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Activated)
}

func TestInvitationActivate_CaidaAMitadQuedaPendingYReintentable(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	ctx := context.Background()
	created, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob", Role: "user"})
	require.NoError(t, err)

	h.store.Roles.FailOn("upsert", assert.AnError)
	_, err = h.invites.Activate(ctx, created.PrincipalID, "bob@x.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindUpstreamFailure, domain.KindOf(err))

	inv, err := h.store.Invites.GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, entity.InviteStatusPending, inv.Status)

	h.store.Roles.Heal()
	res, err := h.invites.Activate(ctx, created.PrincipalID, "bob@x.com")
	require.NoError(t, err)
	assert.True(t, res.Activated)
}

func TestInvitationListPending(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	ctx := context.Background()
	_, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "a@x.com", FullName: "A", Role: "user"})
	require.NoError(t, err)
	b, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "b@x.com", FullName: "B", Role: "user"})
	require.NoError(t, err)
	_, err = h.invites.Activate(ctx, b.PrincipalID, "b@x.com")
	require.NoError(t, err)

	list, err := h.invites.ListPending(ctx, admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a@x.com", list[0].Email)
}
