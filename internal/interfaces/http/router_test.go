package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/billing"
	"github.com/jhoicas/Logistica-api/internal/application/crm"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/events"
	"github.com/jhoicas/Logistica-api/internal/application/logistics"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Logistica-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type stubPDF struct{}

func (stubPDF) GenerateInvoicePDF(context.Context, *entity.Invoice, *entity.Customer, *entity.Shipment) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

type testServer struct {
	app      *fiber.App
	store    *memory.Store
	notifier *memory.LogNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore(bcrypt.MinCost)
	notifier := memory.NewLogNotifier(log)
	bus := events.NewInProcessBus()

	authz := access.NewAuthorizer(store.Identity, store.Roles, store.Profiles, log)
	invites := access.NewInvitationUseCase(store.Invites, store.Profiles, store.Roles, store.Identity, notifier, "https://crm.example.com/set-password", log)
	require.NoError(t, bus.Subscribe(events.NewActivationSubscriber(invites, log)))
	invoiceUC := billing.NewInvoiceUseCase(store.Invoices, store.Customers, store.Shipments, log)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: access.NewAuthUseCase(store.Identity, store.Roles, store.Profiles, authz, bus,
			access.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log),
		InviteUC:      invites,
		RoleUC:        access.NewRoleUseCase(store.Roles, store.Profiles, store.Invites, store.Identity, log),
		Authorizer:    authz,
		LeadUC:        crm.NewLeadUseCase(store.Leads, store.Customers, log),
		CustomerUC:    crm.NewCustomerUseCase(store.Customers, log),
		AppointmentUC: crm.NewAppointmentUseCase(store.Appointments, store.Customers, log),
		ShipmentUC:    logistics.NewShipmentUseCase(store.Shipments, store.Customers, store.Tracking, logistics.NewTrackingNumber, log),
		TrackingUC:    logistics.NewTrackingUseCase(store.Tracking, store.Shipments, log),
		InvoiceUC:     invoiceUC,
		PDFUC:         billing.NewPDFUseCase(invoiceUC, store.Customers, store.Shipments, stubPDF{}),
		JWTSecret:     testJWTSecret,
		Log:           log,
	})
	return &testServer{app: app, store: store, notifier: notifier}
}

// call envía body como JSON y decodifica la respuesta en out (si no es nil).
func (s *testServer) call(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp
}

// adminToken da de alta el primer admin por bootstrap y devuelve su token.
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	resp := s.call(t, http.MethodPost, "/api/auth/bootstrap", "", dto.CreateDirectRequest{
		Email: "admin@x.com", Password: "admin-pass", FullName: "Admin", Role: "admin",
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var login dto.LoginResponse
	resp = s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@x.com", Password: "admin-pass"}, &login)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, login.Token)
	return login.Token
}

// ──────────────────────────────────────────────────────────────────────────────
// Acceso
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_BootstrapSoloUnaVezAnonimo(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	resp := s.call(t, http.MethodPost, "/api/auth/bootstrap", "", dto.CreateDirectRequest{
		Email: "otro@x.com", Password: "otro-pass", FullName: "Otro", Role: "admin",
	}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = s.call(t, http.MethodPost, "/api/auth/bootstrap", token, dto.CreateDirectRequest{
		Email: "mod@x.com", Password: "mod-pass-1", FullName: "Mod", Role: "moderator",
	}, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestRouter_LoginCredencialIncorrecta(t *testing.T) {
	s := newTestServer(t)
	s.adminToken(t)
	var out dto.ErrorResponse
	resp := s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@x.com", Password: "mala"}, &out)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthenticated", out.Kind)
}

func TestRouter_Me(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)
	var me dto.MeResponse
	resp := s.call(t, http.MethodGet, "/api/me", token, nil, &me)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin@x.com", me.Email)
	assert.Equal(t, "admin", me.Role)
	assert.True(t, me.IsAdmin)

	resp = s.call(t, http.MethodGet, "/api/me", "", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_InvitacionHastaActivacion(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	var res dto.InviteResult
	resp := s.call(t, http.MethodPost, "/api/invites", admin, dto.CreateInviteRequest{
		Email: "cliente@x.com", FullName: "Cliente", Role: "user",
	}, &res)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", res.Invite.Status)

	sent := s.notifier.Sent()
	require.Len(t, sent, 1)

	var login dto.LoginResponse
	resp = s.call(t, http.MethodPost, "/api/auth/set-password", "", dto.SetPasswordRequest{
		Token: sent[0].Token, Password: "cliente-pass",
	}, &login)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "user", login.User.Role)
	assert.True(t, login.User.IsActive)

	// el token de invitación es de un solo uso
	resp = s.call(t, http.MethodPost, "/api/auth/set-password", "", dto.SetPasswordRequest{
		Token: sent[0].Token, Password: "cliente-pass",
	}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var pending []dto.InviteResponse
	resp = s.call(t, http.MethodGet, "/api/invites/pending", admin, nil, &pending)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, pending)

	// un usuario final no administra
	resp = s.call(t, http.MethodGet, "/api/users", login.Token, nil, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = s.call(t, http.MethodPost, "/api/invites", login.Token, dto.CreateInviteRequest{
		Email: "x@x.com", FullName: "X", Role: "admin",
	}, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var activation dto.ActivationResult
	resp = s.call(t, http.MethodPost, "/api/invites/activate", login.Token, nil, &activation)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, activation.Activated)
}

func TestRouter_InvitacionRepetidaSeReenvia(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	in := dto.CreateInviteRequest{Email: "nuevo@x.com", FullName: "Nuevo", Role: "moderator"}

	var first, second dto.InviteResult
	require.Equal(t, fiber.StatusCreated, s.call(t, http.MethodPost, "/api/invites", admin, in, &first).StatusCode)
	require.Equal(t, fiber.StatusCreated, s.call(t, http.MethodPost, "/api/invites", admin, in, &second).StatusCode)
	assert.False(t, first.Resent)
	assert.True(t, second.Resent)
	assert.Equal(t, first.Invite.ID, second.Invite.ID)
	assert.Len(t, s.notifier.Sent(), 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Logística y facturación
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_EnvioSeguimientoYFactura(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	var customer dto.CustomerResponse
	resp := s.call(t, http.MethodPost, "/api/customers", admin, dto.CreateCustomerRequest{
		Name: "Acme", Email: "ops@acme.com", Company: "Acme",
	}, &customer)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var shipment dto.ShipmentResponse
	resp = s.call(t, http.MethodPost, "/api/shipments", admin, map[string]any{
		"customer_id": customer.ID, "type": "sea", "origin": "Shanghai", "destination": "Cartagena",
	}, &shipment)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, shipment.TrackingNumber)

	resp = s.call(t, http.MethodPost, "/api/shipments/"+shipment.ID+"/events", admin, map[string]any{
		"event_time": "2026-01-10T08:00:00Z", "location": "Shanghai", "description": "Cargado",
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var public dto.PublicTrackingResponse
	resp = s.call(t, http.MethodGet, "/api/public/tracking/"+shipment.TrackingNumber, "", nil, &public)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, public.Found)
	assert.Len(t, public.Events, 1)

	public = dto.PublicTrackingResponse{}
	resp = s.call(t, http.MethodGet, "/api/public/tracking/NO-EXISTE", "", nil, &public)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, public.Found)

	var invoice dto.InvoiceResponse
	resp = s.call(t, http.MethodPost, "/api/invoices", admin, map[string]any{
		"invoice_type": "proforma",
		"customer_id":  customer.ID,
		"shipment_id":  shipment.ID,
		"items":        []map[string]any{{"description": "Flete", "quantity": "1", "unit_price": "100"}},
		"tax":          "0",
		"discount":     "0",
	}, &invoice)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PF-000001", invoice.ProformaNo)

	resp = s.call(t, http.MethodGet, "/api/invoices/"+invoice.ID+"/pdf", admin, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "proforma_PF-000001.pdf")

	// borrador no se convierte
	var errOut dto.ErrorResponse
	resp = s.call(t, http.MethodPost, "/api/invoices/"+invoice.ID+"/convert", admin, nil, &errOut)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Conflict", errOut.Kind)

	resp = s.call(t, http.MethodPut, "/api/invoices/"+invoice.ID+"/status", admin, dto.SetStatusRequest{Status: "sent"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var commercial dto.InvoiceResponse
	resp = s.call(t, http.MethodPost, "/api/invoices/"+invoice.ID+"/convert", admin, nil, &commercial)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "CI-000001", commercial.CommercialNo)

	resp = s.call(t, http.MethodPost, "/api/invoices/"+invoice.ID+"/convert", admin, nil, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRouter_IDMalformadoEsNotFound(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	resp := s.call(t, http.MethodGet, "/api/shipments/no-existe", admin, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = s.call(t, http.MethodGet, "/api/invoices/no-existe/pdf", admin, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRouter_CuerpoInvalido(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader([]byte("{no json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

func TestRouter_FallaDePersistenciaEs502SinDetalle(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	s.store.Leads.FailOn("list", errors.New("conexión rechazada"))

	var out dto.ErrorResponse
	resp := s.call(t, http.MethodGet, "/api/leads", admin, nil, &out)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "UpstreamFailure", out.Kind)
	assert.NotContains(t, out.Message, "conexión rechazada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Citas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CitaPublicaYRevisionDeStaff(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	var receipt dto.AppointmentReceipt
	resp := s.call(t, http.MethodPost, "/api/public/appointments", "", dto.AppointmentRequest{
		Name: "Amina", Email: "amina@trade.so", Phone: "+252 61", Company: "Trade SO",
		PreferredDate: "2026-11-03", PreferredTime: "10:30", Language: "Somali", Service: "Sea Freight",
	}, &receipt)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "new", receipt.Status)

	resp = s.call(t, http.MethodPost, "/api/public/appointments", "", dto.AppointmentRequest{Name: "X"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = s.call(t, http.MethodGet, "/api/appointments", "", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var count dto.CountResponse
	resp = s.call(t, http.MethodGet, "/api/appointments/pending-count", token, nil, &count)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, count.Count)

	var reviewed dto.AppointmentResponse
	resp = s.call(t, http.MethodPut, "/api/appointments/"+receipt.ID+"/status", token, dto.SetStatusRequest{Status: "contacted"}, &reviewed)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "contacted", reviewed.Status)
	require.NotNil(t, reviewed.CustomerID)

	var list []dto.AppointmentResponse
	resp = s.call(t, http.MethodGet, "/api/appointments?status=new", token, nil, &list)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, list)
}
