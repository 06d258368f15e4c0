package access_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/events"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
)

const redirect = "https://crm.example.com/auth/set-password"

type harness struct {
	store    *memory.Store
	notifier *memory.LogNotifier
	bus      *events.InProcessBus
	authz    *access.Authorizer
	invites  *access.InvitationUseCase
	roles    *access.RoleUseCase
	auth     *access.AuthUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore(bcrypt.MinCost)
	notifier := memory.NewLogNotifier(log)
	bus := events.NewInProcessBus()
	authz := access.NewAuthorizer(store.Identity, store.Roles, store.Profiles, log)
	invites := access.NewInvitationUseCase(store.Invites, store.Profiles, store.Roles, store.Identity, notifier, redirect, log)
	require.NoError(t, bus.Subscribe(events.NewActivationSubscriber(invites, log)))
	return &harness{
		store:    store,
		notifier: notifier,
		bus:      bus,
		authz:    authz,
		invites:  invites,
		roles:    access.NewRoleUseCase(store.Roles, store.Profiles, store.Invites, store.Identity, log),
		auth: access.NewAuthUseCase(store.Identity, store.Roles, store.Profiles, authz, bus,
			access.JWTConfig{Secret: "secreto", ExpMinutes: 5, Issuer: "test"}, log),
	}
}

// bootstrapAdmin crea el primer admin por la vía anónima y devuelve su sujeto.
func (h *harness) bootstrapAdmin(t *testing.T) *access.Subject {
	t.Helper()
	me, err := h.auth.CreateDirect(context.Background(), nil, dto.CreateDirectRequest{
		Email: "admin@x.com", Password: "admin-pass", FullName: "Admin", Role: "admin",
	})
	require.NoError(t, err)
	sub, err := h.authz.Resolve(context.Background(), me.UserID)
	require.NoError(t, err)
	require.Equal(t, entity.RoleAdmin, sub.Role)
	return sub
}

// subjectWithRole crea un usuario directo con el rol dado.
func (h *harness) subjectWithRole(t *testing.T, admin *access.Subject, email string, role entity.Role) *access.Subject {
	t.Helper()
	me, err := h.auth.CreateDirect(context.Background(), admin, dto.CreateDirectRequest{
		Email: email, Password: "user-pass", FullName: email, Role: role.String(),
	})
	require.NoError(t, err)
	sub, err := h.authz.Resolve(context.Background(), me.UserID)
	require.NoError(t, err)
	return sub
}
