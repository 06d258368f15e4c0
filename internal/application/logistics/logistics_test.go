package logistics_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/logistics"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
)

type fixture struct {
	store     *memory.Store
	shipments *logistics.ShipmentUseCase
	tracking  *logistics.TrackingUseCase
	customer  *entity.Customer
}

func newFixture(t *testing.T, gen logistics.TrackingNumberGenerator) *fixture {
	t.Helper()
	store := memory.NewStore(0)
	log := zerolog.Nop()
	c := &entity.Customer{ID: "c-1", Name: "Acme", Email: "ops@acme.com", Company: "Acme", CreatedAt: time.Now()}
	require.NoError(t, store.Customers.Create(context.Background(), c))
	return &fixture{
		store:     store,
		shipments: logistics.NewShipmentUseCase(store.Shipments, store.Customers, store.Tracking, gen, log),
		tracking:  logistics.NewTrackingUseCase(store.Tracking, store.Shipments, log),
		customer:  c,
	}
}

func subject(role entity.Role) *access.Subject {
	return &access.Subject{UserID: "u-" + role.String(), Capabilities: policy.CapabilitiesFor(role)}
}

func customerUser(customerID string) *access.Subject {
	return &access.Subject{
		UserID:       "u-cliente",
		Profile:      &entity.Profile{UserID: "u-cliente", IsActive: true, CustomerID: &customerID},
		Capabilities: policy.CapabilitiesFor(entity.RoleUser),
	}
}

func (f *fixture) request() dto.ShipmentRequest {
	w := decimal.RequireFromString("12.5")
	return dto.ShipmentRequest{CustomerID: f.customer.ID, Type: "sea", Origin: "Shanghai", Destination: "Lagos", WeightKg: &w}
}

// ─── Shipments ───────────────────────────────────────────────────────────────

func TestShipmentCreate_NumeroDeSeguimientoYAuditoria(t *testing.T) {
	f := newFixture(t, nil)
	staff := subject(entity.RoleModerator)

	s, err := f.shipments.Create(context.Background(), staff, f.request())
	require.NoError(t, err)
	assert.Regexp(t, `^GBRS\d{6}[A-Z0-9]{3}$`, s.TrackingNumber)
	assert.Equal(t, entity.ShipmentStatusPending, s.Status)
	assert.Equal(t, staff.UserID, s.CreatedBy)
}

func TestShipmentCreate_ColisionRegenera(t *testing.T) {
	numbers := []string{"GBRS000001AAA", "GBRS000001AAA", "GBRS000002BBB"}
	i := 0
	gen := func() string { n := numbers[i]; i++; return n }
	f := newFixture(t, gen)
	staff := subject(entity.RoleModerator)

	a, err := f.shipments.Create(context.Background(), staff, f.request())
	require.NoError(t, err)
	b, err := f.shipments.Create(context.Background(), staff, f.request())
	require.NoError(t, err)
	assert.Equal(t, "GBRS000001AAA", a.TrackingNumber)
	assert.Equal(t, "GBRS000002BBB", b.TrackingNumber)
}

func TestShipmentCreate_ColisionPersistenteEsConflicto(t *testing.T) {
	f := newFixture(t, func() string { return "GBRS000001AAA" })
	staff := subject(entity.RoleModerator)
	_, err := f.shipments.Create(context.Background(), staff, f.request())
	require.NoError(t, err)

	_, err = f.shipments.Create(context.Background(), staff, f.request())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestShipmentCreate_Validaciones(t *testing.T) {
	f := newFixture(t, nil)
	staff := subject(entity.RoleModerator)

	req := f.request()
	req.Type = "rail"
	_, err := f.shipments.Create(context.Background(), staff, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = f.request()
	req.CustomerID = "no-existe"
	_, err = f.shipments.Create(context.Background(), staff, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.shipments.Create(context.Background(), subject(entity.RoleUser), f.request())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestShipmentDimensionesYContenedor(t *testing.T) {
	f := newFixture(t, nil)
	staff := subject(entity.RoleModerator)
	ctx := context.Background()
	d := func(v string) *decimal.Decimal { x := decimal.RequireFromString(v); return &x }

	req := f.request()
	req.LengthCm, req.WidthCm, req.HeightCm = d("120"), d("80"), d("100")
	req.VolumeCBM = d("0.96")
	req.ContainerType = entity.Container20ft
	req.VehicleType = " Camión 3.5t "
	s, err := f.shipments.Create(ctx, staff, req)
	require.NoError(t, err)
	assert.True(t, s.VolumeCBM.Equal(decimal.RequireFromString("0.96")))
	assert.Equal(t, "20ft", s.ContainerType)
	assert.Equal(t, "Camión 3.5t", s.VehicleType)

	req.ContainerType = entity.ContainerLCL
	req.VolumeCBM = nil
	_, err = f.shipments.Update(ctx, staff, s.ID, req)
	require.NoError(t, err)
	got, err := f.shipments.Get(ctx, staff, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "LCL", got.ContainerType)
	assert.Nil(t, got.VolumeCBM)
	require.NotNil(t, got.LengthCm)
	assert.True(t, got.LengthCm.Equal(decimal.RequireFromString("120")))

	bad := f.request()
	bad.ContainerType = "45ft"
	_, err = f.shipments.Create(ctx, staff, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = f.request()
	bad.HeightCm = d("-1")
	_, err = f.shipments.Create(ctx, staff, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestShipmentUpdateStatus_SoloAdminCualquierOrden(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s, err := f.shipments.Create(ctx, subject(entity.RoleModerator), f.request())
	require.NoError(t, err)

	_, err = f.shipments.UpdateStatus(ctx, subject(entity.RoleModerator), s.ID, dto.SetStatusRequest{Status: "delivered"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := subject(entity.RoleAdmin)
	for _, st := range []string{"delivered", "pending", "in_transit"} {
		got, err := f.shipments.UpdateStatus(ctx, admin, s.ID, dto.SetStatusRequest{Status: st})
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
		assert.Equal(t, admin.UserID, got.UpdatedBy)
	}

	_, err = f.shipments.UpdateStatus(ctx, admin, s.ID, dto.SetStatusRequest{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestShipmentSoftDelete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s, err := f.shipments.Create(ctx, subject(entity.RoleModerator), f.request())
	require.NoError(t, err)

	_, err = f.shipments.SoftDelete(ctx, subject(entity.RoleModerator), s.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.shipments.SoftDelete(ctx, subject(entity.RoleAdmin), s.ID)
	require.NoError(t, err)
	_, err = f.shipments.Get(ctx, subject(entity.RoleAdmin), s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShipmentGet_UsuarioSoloVeSuCliente(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s, err := f.shipments.Create(ctx, subject(entity.RoleModerator), f.request())
	require.NoError(t, err)

	got, err := f.shipments.Get(ctx, customerUser(f.customer.ID), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	_, err = f.shipments.Get(ctx, customerUser("otro"), s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.shipments.List(ctx, subject(entity.RoleUser), "")
	require.NoError(t, err)
	assert.Empty(t, list, "usuario sin cliente asociado no ve envíos")
}

// ─── Tracking ────────────────────────────────────────────────────────────────

func TestTracking_OrdenDescendenteYPublico(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	staff := subject(entity.RoleModerator)
	s, err := f.shipments.Create(ctx, staff, f.request())
	require.NoError(t, err)

	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	_, err = f.tracking.Add(ctx, staff, s.ID, dto.TrackingEventRequest{EventTime: base, Location: "Shanghai", Description: "Recibido"})
	require.NoError(t, err)
	last, err := f.tracking.Add(ctx, staff, s.ID, dto.TrackingEventRequest{EventTime: base.Add(48 * time.Hour), Location: "Mar", Description: "Zarpó", Status: "in_transit"})
	require.NoError(t, err)

	list, err := f.tracking.ListByShipment(ctx, customerUser(f.customer.ID), s.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, last.ID, list[0].ID)

	pub, err := f.shipments.PublicLookup(ctx, " "+s.TrackingNumber+" ")
	require.NoError(t, err)
	assert.True(t, pub.Found)
	assert.Len(t, pub.Events, 2)

	miss, err := f.shipments.PublicLookup(ctx, "GBRS000000XXX")
	require.NoError(t, err)
	assert.False(t, miss.Found)

	_, err = f.tracking.Delete(ctx, subject(entity.RoleUser), last.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.tracking.Delete(ctx, staff, last.ID)
	require.NoError(t, err)
	_, err = f.tracking.Delete(ctx, staff, last.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
