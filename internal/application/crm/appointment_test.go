package crm_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/crm"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
)

func setupAppointments() (*crm.AppointmentUseCase, *memory.AppointmentRepo, *memory.CustomerRepo) {
	appointments := memory.NewAppointmentRepo()
	customers := memory.NewCustomerRepo()
	return crm.NewAppointmentUseCase(appointments, customers, zerolog.Nop()), appointments, customers
}

func appointmentRequest() dto.AppointmentRequest {
	return dto.AppointmentRequest{
		Name:          "Amina Yusuf",
		Email:         " Amina@Trade.so ",
		Phone:         "+252 61 000 0000",
		Company:       "Trade SO",
		PreferredDate: "2026-11-03",
		PreferredTime: "10:30",
		Language:      "Somali",
		Service:       "Sea Freight",
		Message:       "Contenedor de 40ft desde Guangzhou",
	}
}

// ─── Submit ──────────────────────────────────────────────────────────────────

func TestAppointmentSubmit_CreaClienteYQuedaNew(t *testing.T) {
	uc, _, customers := setupAppointments()
	ctx := context.Background()

	receipt, err := uc.Submit(ctx, appointmentRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentStatusNew, receipt.Status)

	c, err := customers.GetByEmail(ctx, "amina@trade.so")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Trade SO", c.Company)

	got, err := uc.Get(ctx, subject(entity.RoleModerator), receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, c.ID, *got.CustomerID)
	assert.Equal(t, "2026-11-03", got.PreferredDate)
	assert.Equal(t, "10:30", got.PreferredTime)

	// segunda cita del mismo email reutiliza el cliente
	again, err := uc.Submit(ctx, appointmentRequest())
	require.NoError(t, err)
	second, err := uc.Get(ctx, subject(entity.RoleModerator), again.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, *second.CustomerID)
	list, err := customers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAppointmentSubmit_Validaciones(t *testing.T) {
	uc, appointments, _ := setupAppointments()
	ctx := context.Background()

	cases := map[string]func(*dto.AppointmentRequest){
		"email":    func(r *dto.AppointmentRequest) { r.Email = "no-es-email" },
		"phone":    func(r *dto.AppointmentRequest) { r.Phone = " " },
		"company":  func(r *dto.AppointmentRequest) { r.Company = "" },
		"fecha":    func(r *dto.AppointmentRequest) { r.PreferredDate = "03/11/2026" },
		"hora":     func(r *dto.AppointmentRequest) { r.PreferredTime = "25:00" },
		"idioma":   func(r *dto.AppointmentRequest) { r.Language = "" },
		"servicio": func(r *dto.AppointmentRequest) { r.Service = "" },
	}
	for name, mutate := range cases {
		req := appointmentRequest()
		mutate(&req)
		_, err := uc.Submit(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
	n, err := appointments.CountByStatus(ctx, entity.AppointmentStatusNew)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// ─── Revisión ────────────────────────────────────────────────────────────────

func TestAppointmentSetStatus_StaffCualquierOrden(t *testing.T) {
	uc, _, _ := setupAppointments()
	ctx := context.Background()
	staff := subject(entity.RoleModerator)
	receipt, err := uc.Submit(ctx, appointmentRequest())
	require.NoError(t, err)

	pending, err := uc.PendingCount(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, 1, pending.Count)

	for _, s := range []string{"closed", "new", "contacted"} {
		out, err := uc.SetStatus(ctx, staff, receipt.ID, dto.SetStatusRequest{Status: s})
		require.NoError(t, err)
		assert.Equal(t, s, out.Status)
	}
	pending, err = uc.PendingCount(ctx, staff)
	require.NoError(t, err)
	assert.Zero(t, pending.Count)

	contacted, err := uc.List(ctx, staff, "contacted")
	require.NoError(t, err)
	assert.Len(t, contacted, 1)

	_, err = uc.SetStatus(ctx, staff, receipt.ID, dto.SetStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.SetStatus(ctx, staff, "no-existe", dto.SetStatusRequest{Status: "closed"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppointment_RevisionSoloStaff(t *testing.T) {
	uc, _, _ := setupAppointments()
	ctx := context.Background()
	receipt, err := uc.Submit(ctx, appointmentRequest())
	require.NoError(t, err)

	_, err = uc.List(ctx, subject(entity.RoleUser), "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.SetStatus(ctx, subject(entity.RoleUser), receipt.ID, dto.SetStatusRequest{Status: "closed"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.PendingCount(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAppointmentSubmit_FallaDePersistencia(t *testing.T) {
	uc, appointments, _ := setupAppointments()
	appointments.FailOn("create", assert.AnError)
	_, err := uc.Submit(context.Background(), appointmentRequest())
	require.Error(t, err)
	assert.Equal(t, domain.KindUpstreamFailure, domain.KindOf(err))
}
