package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

func TestIdentityStore_InvitacionYCanje(t *testing.T) {
	ctx := context.Background()
	s := NewIdentityStore(bcrypt.MinCost)

	ticket, err := s.InvitePrincipal(ctx, "bob@x.com", "https://crm/auth/set-password", nil)
	require.NoError(t, err)
	require.NotEmpty(t, ticket.Token)

	_, err = s.Authenticate(ctx, "bob@x.com", "secreto123")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated, "sin contraseña todavía")

	p, err := s.RedeemInvitation(ctx, ticket.Token, "secreto123")
	require.NoError(t, err)
	assert.Equal(t, ticket.Principal.ID, p.ID)

	_, err = s.RedeemInvitation(ctx, ticket.Token, "otra-clave")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated, "el token es de un solo uso")

	got, err := s.Authenticate(ctx, "bob@x.com", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestIdentityStore_ReinvitarConservaPrincipal(t *testing.T) {
	ctx := context.Background()
	s := NewIdentityStore(bcrypt.MinCost)
	a, err := s.InvitePrincipal(ctx, "bob@x.com", "", nil)
	require.NoError(t, err)
	b, err := s.InvitePrincipal(ctx, "bob@x.com", "", nil)
	require.NoError(t, err)
	assert.Equal(t, a.Principal.ID, b.Principal.ID)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestRoleRepo_UpsertIdempotente(t *testing.T) {
	ctx := context.Background()
	r := NewRoleRepo()
	require.NoError(t, r.Upsert(ctx, "u-1", entity.RoleUser))
	require.NoError(t, r.Upsert(ctx, "u-1", entity.RoleUser))
	require.NoError(t, r.Upsert(ctx, "u-1", entity.RoleAdmin))

	rows, err := r.ListByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, r.DeleteOthers(ctx, "u-1", entity.RoleAdmin))
	rows, err = r.ListByUserID(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.RoleAdmin, rows[0].Role)
}

func TestInvoiceRepo_ConsecutivoPorTipo(t *testing.T) {
	ctx := context.Background()
	r := NewInvoiceRepo()
	pf1 := &entity.Invoice{ID: "a", Type: entity.InvoiceTypeProforma, Status: entity.InvoiceStatusDraft, CreatedAt: time.Now()}
	pf2 := &entity.Invoice{ID: "b", Type: entity.InvoiceTypeProforma, Status: entity.InvoiceStatusDraft, CreatedAt: time.Now()}
	ci1 := &entity.Invoice{ID: "c", Type: entity.InvoiceTypeCommercial, Status: entity.InvoiceStatusDraft, CreatedAt: time.Now()}
	require.NoError(t, r.Create(ctx, pf1))
	require.NoError(t, r.Create(ctx, pf2))
	require.NoError(t, r.Create(ctx, ci1))

	assert.Equal(t, "PF-000001", pf1.ProformaNo)
	assert.Equal(t, "PF-000002", pf2.ProformaNo)
	assert.Equal(t, "CI-000001", ci1.CommercialNo)
}

func TestInvoiceRepo_LinajeUnico(t *testing.T) {
	ctx := context.Background()
	r := NewInvoiceRepo()
	src := "pf-1"
	require.NoError(t, r.Create(ctx, &entity.Invoice{ID: "c1", Type: entity.InvoiceTypeCommercial, ConvertedFromInvoiceID: &src}))
	err := r.Create(ctx, &entity.Invoice{ID: "c2", Type: entity.InvoiceTypeCommercial, ConvertedFromInvoiceID: &src})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestFaults_FailOnYHeal(t *testing.T) {
	ctx := context.Background()
	r := NewProfileRepo()
	boom := assert.AnError
	r.FailOn("upsert", boom)
	assert.ErrorIs(t, r.UpsertByUserID(ctx, &entity.Profile{UserID: "u-1"}), boom)
	r.Heal()
	assert.NoError(t, r.UpsertByUserID(ctx, &entity.Profile{UserID: "u-1"}))
}
