package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/billing"
	"github.com/jhoicas/Logistica-api/internal/application/crm"
	"github.com/jhoicas/Logistica-api/internal/application/logistics"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *access.AuthUseCase
	InviteUC      *access.InvitationUseCase
	RoleUC        *access.RoleUseCase
	Authorizer    *access.Authorizer
	LeadUC        *crm.LeadUseCase
	CustomerUC    *crm.CustomerUseCase
	AppointmentUC *crm.AppointmentUseCase
	ShipmentUC    *logistics.ShipmentUseCase
	TrackingUC    *logistics.TrackingUseCase
	InvoiceUC     *billing.InvoiceUseCase
	PDFUC         *billing.PDFUseCase
	JWTSecret     string
	// Limitadores opcionales; nil desactiva el límite.
	LoginLimiter       RateLimiter
	TrackingLimiter    RateLimiter
	AppointmentLimiter RateLimiter
	Log                zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC, deps.TrackingUC)

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", RateLimit(deps.LoginLimiter, "login", deps.Log), authHandler.Login)
	authGroup.Post("/set-password", RateLimit(deps.LoginLimiter, "set-password", deps.Log), authHandler.SetPassword)
	// Anónimo hasta que exista el primer admin; después exige token de admin.
	authGroup.Post("/bootstrap", OptionalAuth(deps.JWTSecret), SubjectMiddleware(deps.Authorizer), authHandler.CreateDirect)

	// Seguimiento público
	api.Get("/public/tracking/:number", RateLimit(deps.TrackingLimiter, "tracking", deps.Log), shipmentHandler.PublicTracking)

	// Solicitud de cita pública
	appointmentHandler := NewAppointmentHandler(deps.AppointmentUC)
	api.Post("/public/appointments", RateLimit(deps.AppointmentLimiter, "appointments", deps.Log), appointmentHandler.Submit)

	// Rutas protegidas (requieren Bearer Token y sujeto vigente)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret), SubjectMiddleware(deps.Authorizer))

	protected.Get("/me", authHandler.Me)
	protected.Put("/me/password", authHandler.ChangePassword)

	// Invitaciones
	inviteHandler := NewInviteHandler(deps.InviteUC)
	invites := protected.Group("/invites")
	invites.Post("/activate", inviteHandler.Activate)
	invites.Post("/", RequireOperation(policy.OpInviteCreate), inviteHandler.Create)
	invites.Post("/resend", RequireOperation(policy.OpInviteResend), inviteHandler.Resend)
	invites.Get("/pending", RequireOperation(policy.OpInviteList), inviteHandler.ListPending)

	// Usuarios (admin)
	userHandler := NewUserHandler(deps.RoleUC)
	users := protected.Group("/users")
	users.Get("/", RequireOperation(policy.OpUserList), userHandler.List)
	users.Put("/:id/role", RequireOperation(policy.OpRoleSet), userHandler.SetRole)
	users.Post("/:id/deactivate", RequireOperation(policy.OpUserDeactivate), userHandler.Deactivate)
	users.Delete("/:id", RequireOperation(policy.OpUserDelete), userHandler.Delete)

	// Prospectos
	leadHandler := NewLeadHandler(deps.LeadUC)
	leads := protected.Group("/leads")
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Get("/:id", leadHandler.GetByID)
	leads.Put("/:id", leadHandler.Update)
	leads.Post("/:id/convert", leadHandler.Convert)

	// Clientes
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/customers")
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Citas (revisión de staff)
	appointments := protected.Group("/appointments")
	appointments.Get("/", appointmentHandler.List)
	appointments.Get("/pending-count", appointmentHandler.PendingCount)
	appointments.Get("/:id", appointmentHandler.GetByID)
	appointments.Put("/:id/status", appointmentHandler.SetStatus)

	// Envíos y seguimiento
	shipments := protected.Group("/shipments")
	shipments.Get("/", shipmentHandler.List)
	shipments.Post("/", shipmentHandler.Create)
	shipments.Get("/:id", shipmentHandler.GetByID)
	shipments.Put("/:id", shipmentHandler.Update)
	shipments.Put("/:id/status", shipmentHandler.UpdateStatus)
	shipments.Delete("/:id", shipmentHandler.Delete)
	shipments.Get("/:id/events", shipmentHandler.ListEvents)
	shipments.Post("/:id/events", shipmentHandler.AddEvent)
	protected.Delete("/tracking-events/:id", shipmentHandler.DeleteEvent)

	// Facturación
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices := protected.Group("/invoices")
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Put("/:id/status", invoiceHandler.SetStatus)
	invoices.Post("/:id/convert", invoiceHandler.Convert)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
}
