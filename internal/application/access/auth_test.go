package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/pkg/jwt"
)

func TestLogin_CredencialesInvalidas(t *testing.T) {
	h := newHarness(t)
	h.bootstrapAdmin(t)

	_, err := h.auth.Login(context.Background(), dto.LoginRequest{Email: "admin@x.com", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = h.auth.Login(context.Background(), dto.LoginRequest{Email: "nadie@x.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLogin_TokenConUserIDYEmail(t *testing.T) {
	h := newHarness(t)
	h.bootstrapAdmin(t)

	res, err := h.auth.Login(context.Background(), dto.LoginRequest{Email: "ADMIN@x.com", Password: "admin-pass"})
	require.NoError(t, err)
	userID, email, err := jwt.Parse("secreto", res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.UserID, userID)
	assert.Equal(t, "admin@x.com", email)
	assert.True(t, res.User.IsAdmin)
}

func TestLogin_FallaDelBusNoImpideLogin(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	ctx := context.Background()
	_, err := h.invites.Create(ctx, admin, dto.CreateInviteRequest{Email: "bob@x.com", FullName: "Bob", Role: "user"})
	require.NoError(t, err)
	token := h.notifier.Sent()[0].Token

	h.store.Invites.FailOn("get", assert.AnError)
	res, err := h.auth.SetPassword(ctx, dto.SetPasswordRequest{Token: token, Password: "bob-secreto"})
	require.NoError(t, err)
	assert.Empty(t, res.User.Role, "sin activación todavía")

	// reintento explícito del cliente
	h.store.Invites.Heal()
	act, err := h.invites.Activate(ctx, res.User.UserID, "bob@x.com")
	require.NoError(t, err)
	assert.True(t, act.Activated)
}

func TestSetPassword_TokenInvalido(t *testing.T) {
	h := newHarness(t)
	_, err := h.auth.SetPassword(context.Background(), dto.SetPasswordRequest{Token: "no-existe", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = h.auth.SetPassword(context.Background(), dto.SetPasswordRequest{Token: "x", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateDirect_BootstrapSoloSinAdmin(t *testing.T) {
	h := newHarness(t)
	h.bootstrapAdmin(t)

	_, err := h.auth.CreateDirect(context.Background(), nil, dto.CreateDirectRequest{
		Email: "otro@x.com", Password: "otro-pass", FullName: "Otro", Role: "admin",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestCreateDirect_EmailDuplicadoEsConflicto(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)

	_, err := h.auth.CreateDirect(context.Background(), admin, dto.CreateDirectRequest{
		Email: "admin@x.com", Password: "otro-pass", FullName: "Otro", Role: "user",
	})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestMeYChangePassword(t *testing.T) {
	h := newHarness(t)
	admin := h.bootstrapAdmin(t)
	user := h.subjectWithRole(t, admin, "u@x.com", entity.RoleUser)
	ctx := context.Background()

	me, err := h.auth.Me(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "user", me.Role)
	assert.False(t, me.IsStaff)

	_, err = h.auth.ChangePassword(ctx, user, dto.ChangePasswordRequest{Password: "nueva-clave"})
	require.NoError(t, err)
	_, err = h.auth.Login(ctx, dto.LoginRequest{Email: "u@x.com", Password: "nueva-clave"})
	assert.NoError(t, err)

	_, err = h.auth.Me(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
