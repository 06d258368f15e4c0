package crm_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/crm"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
)

func subject(role entity.Role) *access.Subject {
	return &access.Subject{UserID: "u-" + role.String(), Capabilities: policy.CapabilitiesFor(role)}
}

func setup() (*crm.LeadUseCase, *crm.CustomerUseCase, *memory.LeadRepo, *memory.CustomerRepo) {
	leads := memory.NewLeadRepo()
	customers := memory.NewCustomerRepo()
	log := zerolog.Nop()
	return crm.NewLeadUseCase(leads, customers, log), crm.NewCustomerUseCase(customers, log), leads, customers
}

// ─── Lead.convert ────────────────────────────────────────────────────────────

func TestLeadConvert_CreaClienteYMarcaLead(t *testing.T) {
	leadsUC, _, _, customers := setup()
	ctx := context.Background()
	staff := subject(entity.RoleModerator)

	lead, err := leadsUC.Create(ctx, staff, dto.CreateLeadRequest{Name: "Acme", Email: "Ops@Acme.com"})
	require.NoError(t, err)

	res, err := leadsUC.Convert(ctx, staff, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LeadStatusConverted, res.Lead.Status)
	require.NotNil(t, res.Lead.CustomerID)
	assert.Equal(t, res.Customer.ID, *res.Lead.CustomerID)
	assert.Equal(t, entity.DefaultCustomerCompany, res.Customer.Company)

	c, err := customers.GetByEmail(ctx, "ops@acme.com")
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestLeadConvert_YaConvertidoEsConflicto(t *testing.T) {
	leadsUC, _, _, _ := setup()
	ctx := context.Background()
	staff := subject(entity.RoleAdmin)
	lead, err := leadsUC.Create(ctx, staff, dto.CreateLeadRequest{Name: "Acme", Email: "ops@acme.com"})
	require.NoError(t, err)
	_, err = leadsUC.Convert(ctx, staff, lead.ID)
	require.NoError(t, err)

	_, err = leadsUC.Convert(ctx, staff, lead.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLeadConvert_ClienteConMismoEmailDejaLeadIntacto(t *testing.T) {
	leadsUC, customersUC, leads, _ := setup()
	ctx := context.Background()
	staff := subject(entity.RoleModerator)
	_, err := customersUC.Create(ctx, staff, dto.CreateCustomerRequest{Name: "Acme", Email: "ops@acme.com", Company: "Acme"})
	require.NoError(t, err)
	lead, err := leadsUC.Create(ctx, staff, dto.CreateLeadRequest{Name: "Acme", Email: "ops@acme.com"})
	require.NoError(t, err)

	_, err = leadsUC.Convert(ctx, staff, lead.ID)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	got, err := leads.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LeadStatusNew, got.Status)
	assert.Nil(t, got.CustomerID)
}

func TestLeadConvert_FallaDelClienteDejaLeadReintentable(t *testing.T) {
	leadsUC, _, leads, customers := setup()
	ctx := context.Background()
	staff := subject(entity.RoleModerator)
	lead, err := leadsUC.Create(ctx, staff, dto.CreateLeadRequest{Name: "Acme", Email: "ops@acme.com"})
	require.NoError(t, err)

	customers.FailOn("create", assert.AnError)
	_, err = leadsUC.Convert(ctx, staff, lead.ID)
	assert.Equal(t, domain.KindUpstreamFailure, domain.KindOf(err))
	got, err := leads.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.False(t, got.IsConverted())

	customers.Heal()
	_, err = leadsUC.Convert(ctx, staff, lead.ID)
	assert.NoError(t, err)
}

func TestLeadConvert_UsuarioNoStaffRechazado(t *testing.T) {
	leadsUC, _, _, _ := setup()
	_, err := leadsUC.Convert(context.Background(), subject(entity.RoleUser), "x")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLeadUpdate_NoPermiteConvertedNiEditarConvertido(t *testing.T) {
	leadsUC, _, _, _ := setup()
	ctx := context.Background()
	staff := subject(entity.RoleModerator)
	lead, err := leadsUC.Create(ctx, staff, dto.CreateLeadRequest{Name: "Acme", Email: "ops@acme.com"})
	require.NoError(t, err)

	_, err = leadsUC.Update(ctx, staff, lead.ID, dto.UpdateLeadRequest{Name: "Acme", Email: "ops@acme.com", Status: "converted"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	upd, err := leadsUC.Update(ctx, staff, lead.ID, dto.UpdateLeadRequest{Name: "Acme SA", Email: "ops@acme.com", Status: "qualified"})
	require.NoError(t, err)
	assert.Equal(t, "qualified", upd.Status)

	_, err = leadsUC.Convert(ctx, staff, lead.ID)
	require.NoError(t, err)
	_, err = leadsUC.Update(ctx, staff, lead.ID, dto.UpdateLeadRequest{Name: "X", Email: "x@acme.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ─── Customers ───────────────────────────────────────────────────────────────

func TestCustomer_EmailDuplicadoYBorradoSoloAdmin(t *testing.T) {
	_, customersUC, _, _ := setup()
	ctx := context.Background()
	staff := subject(entity.RoleModerator)

	c, err := customersUC.Create(ctx, staff, dto.CreateCustomerRequest{Name: "Acme", Email: "ops@acme.com"})
	require.NoError(t, err)
	_, err = customersUC.Create(ctx, staff, dto.CreateCustomerRequest{Name: "Otra", Email: "OPS@acme.com"})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = customersUC.SoftDelete(ctx, staff, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = customersUC.SoftDelete(ctx, subject(entity.RoleAdmin), c.ID)
	require.NoError(t, err)
	_, err = customersUC.Get(ctx, staff, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := customersUC.List(ctx, staff)
	require.NoError(t, err)
	assert.Empty(t, list)
}
