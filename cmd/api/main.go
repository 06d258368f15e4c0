package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Logistica-api/docs"
	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/billing"
	"github.com/jhoicas/Logistica-api/internal/application/crm"
	"github.com/jhoicas/Logistica-api/internal/application/events"
	"github.com/jhoicas/Logistica-api/internal/application/logistics"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/mail"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Logistica-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/rabbitmq"
	infraredis "github.com/jhoicas/Logistica-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Logistica-api/internal/interfaces/http"
	"github.com/jhoicas/Logistica-api/pkg/config"
	"github.com/jhoicas/Logistica-api/pkg/logger"
)

// stores puertos de persistencia del backend elegido (APP_STORE).
type stores struct {
	identity     access.IdentityProvider
	invites      repository.InviteRepository
	profiles     repository.ProfileRepository
	roles        repository.RoleRepository
	leads        repository.LeadRepository
	customers    repository.CustomerRepository
	appointments repository.AppointmentRepository
	shipments    repository.ShipmentRepository
	tracking     repository.TrackingEventRepository
	invoices     repository.InvoiceRepository
	close        func()
}

func openStores(ctx context.Context, cfg *config.Config, pgLog zerolog.Logger) (*stores, error) {
	if cfg.App.Store == config.StoreMemory {
		m := memory.NewStore(bcrypt.DefaultCost)
		return &stores{
			identity: m.Identity, invites: m.Invites, profiles: m.Profiles, roles: m.Roles,
			leads: m.Leads, customers: m.Customers, appointments: m.Appointments, shipments: m.Shipments, tracking: m.Tracking,
			invoices: m.Invoices, close: func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, pgLog)
	if err != nil {
		return nil, err
	}
	return &stores{
		identity:     postgres.NewIdentityStore(pool, bcrypt.DefaultCost),
		invites:      postgres.NewInviteRepository(pool),
		profiles:     postgres.NewProfileRepository(pool),
		roles:        postgres.NewRoleRepository(pool),
		leads:        postgres.NewLeadRepository(pool),
		customers:    postgres.NewCustomerRepository(pool),
		appointments: postgres.NewAppointmentRepository(pool),
		shipments:    postgres.NewShipmentRepository(pool),
		tracking:     postgres.NewTrackingEventRepository(pool),
		invoices:     postgres.NewInvoiceRepository(pool),
		close:        pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStores(ctx, cfg, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer st.close()

	// Entrega de invitaciones: SMTP si está configurado, si no al log.
	var delivery access.Notifier = memory.NewLogNotifier(log.Component("notifier"))
	if cfg.SMTP.Enabled() {
		delivery = mail.NewSMTPNotifier(cfg.SMTP)
	}

	// Con broker: bus de inicio de sesión y cola de notificaciones en RabbitMQ.
	var (
		bus      events.Bus = events.NewInProcessBus()
		notifier            = delivery
		amqp     *rabbitmq.Client
	)
	if cfg.AMQP.Enabled() {
		amqp, err = rabbitmq.NewClient(cfg.AMQP.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		bus = rabbitmq.NewAuthEventBus(amqp, log.Component("auth-bus"))
		notifier = rabbitmq.NewInviteNotifier(amqp)
		worker := rabbitmq.NewNotificationWorker(amqp, delivery, log.Component("notification-worker"))
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Error().Err(err).Msg("worker de notificaciones finalizado")
			}
		}()
	}

	authz := access.NewAuthorizer(st.identity, st.roles, st.profiles, log.Component("authorizer"))
	inviteUC := access.NewInvitationUseCase(st.invites, st.profiles, st.roles, st.identity, notifier, cfg.Site.InviteRedirect(), log.Component("invites"))
	if err := bus.Subscribe(events.NewActivationSubscriber(inviteUC, log.Component("activation"))); err != nil {
		log.Fatal().Err(err).Msg("suscribir activación de invitaciones")
	}
	authUC := access.NewAuthUseCase(st.identity, st.roles, st.profiles, authz, bus, access.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	roleUC := access.NewRoleUseCase(st.roles, st.profiles, st.invites, st.identity, log.Component("roles"))

	leadUC := crm.NewLeadUseCase(st.leads, st.customers, log.Component("leads"))
	customerUC := crm.NewCustomerUseCase(st.customers, log.Component("customers"))
	appointmentUC := crm.NewAppointmentUseCase(st.appointments, st.customers, log.Component("appointments"))
	shipmentUC := logistics.NewShipmentUseCase(st.shipments, st.customers, st.tracking, logistics.NewTrackingNumber, log.Component("shipments"))
	trackingUC := logistics.NewTrackingUseCase(st.tracking, st.shipments, log.Component("tracking"))
	invoiceUC := billing.NewInvoiceUseCase(st.invoices, st.customers, st.shipments, log.Component("invoices"))
	pdfUC := billing.NewPDFUseCase(invoiceUC, st.customers, st.shipments, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))

	var loginLimiter, trackingLimiter, appointmentLimiter httpRouter.RateLimiter
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		loginLimiter = infraredis.NewRateLimiter(rdb, "rl:login", cfg.RateLimit.Max, cfg.RateLimit.Window())
		trackingLimiter = infraredis.NewRateLimiter(rdb, "rl:tracking", cfg.RateLimit.Max, cfg.RateLimit.Window())
		appointmentLimiter = infraredis.NewRateLimiter(rdb, "rl:appointments", cfg.RateLimit.Max, cfg.RateLimit.Window())
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: login, tracking y citas públicas sin límite de peticiones")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Logística API",
	}))

	// Descripción OpenAPI generada por swag, con el host de esta instancia.
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Type("json")
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:             authUC,
		InviteUC:           inviteUC,
		RoleUC:             roleUC,
		Authorizer:         authz,
		LeadUC:             leadUC,
		CustomerUC:         customerUC,
		AppointmentUC:      appointmentUC,
		ShipmentUC:         shipmentUC,
		TrackingUC:         trackingUC,
		InvoiceUC:          invoiceUC,
		PDFUC:              pdfUC,
		JWTSecret:          cfg.JWT.Secret,
		LoginLimiter:       loginLimiter,
		TrackingLimiter:    trackingLimiter,
		AppointmentLimiter: appointmentLimiter,
		Log:                log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()
	if closer, ok := bus.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("cierre del bus de eventos")
		}
	}
	if amqp != nil {
		if err := amqp.Close(); err != nil {
			log.Error().Err(err).Msg("cierre de RabbitMQ")
		}
	}

	log.Info().Msg("aplicación detenida")
}
