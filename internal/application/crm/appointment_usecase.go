package crm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// AppointmentUseCase recepción pública de citas y su revisión por staff.
type AppointmentUseCase struct {
	appointments repository.AppointmentRepository
	customers    repository.CustomerRepository
	log          zerolog.Logger
}

// NewAppointmentUseCase construye el caso de uso.
func NewAppointmentUseCase(appointments repository.AppointmentRepository, customers repository.CustomerRepository, log zerolog.Logger) *AppointmentUseCase {
	return &AppointmentUseCase{appointments: appointments, customers: customers, log: log}
}

// Submit registra una cita enviada sin autenticación. El cliente se busca por
// email y se crea si no existe; la cita queda enlazada a él.
func (uc *AppointmentUseCase) Submit(ctx context.Context, in dto.AppointmentRequest) (*dto.AppointmentReceipt, error) {
	a, err := newAppointment(in)
	if err != nil {
		return nil, err
	}
	customerID, err := uc.customerFor(ctx, a)
	if err != nil {
		return nil, err
	}
	a.CustomerID = customerID
	if err := uc.appointments.Create(ctx, a); err != nil {
		return nil, domain.Upstream("appointments.create", err)
	}
	uc.log.Info().Str("appointment_id", a.ID).Str("service", a.Service).Msg("cita recibida")
	return &dto.AppointmentReceipt{ID: a.ID, Status: a.Status}, nil
}

// Get una cita por ID.
func (uc *AppointmentUseCase) Get(ctx context.Context, sub *access.Subject, id string) (*dto.AppointmentResponse, error) {
	if err := sub.Require(policy.OpAppointmentRead); err != nil {
		return nil, err
	}
	a, err := uc.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("appointments.get", err)
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return toAppointmentResponse(a), nil
}

// List citas, las más recientes primero, opcionalmente por estado.
func (uc *AppointmentUseCase) List(ctx context.Context, sub *access.Subject, status string) ([]dto.AppointmentResponse, error) {
	if err := sub.Require(policy.OpAppointmentRead); err != nil {
		return nil, err
	}
	if status != "" && !entity.ValidAppointmentStatus(status) {
		return nil, domain.Invalid("estado de cita desconocido %q", status)
	}
	list, err := uc.appointments.List(ctx, status)
	if err != nil {
		return nil, domain.Upstream("appointments.list", err)
	}
	out := make([]dto.AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAppointmentResponse(a))
	}
	return out, nil
}

// SetStatus revisión de staff: new, contacted o closed en cualquier orden.
func (uc *AppointmentUseCase) SetStatus(ctx context.Context, sub *access.Subject, id string, in dto.SetStatusRequest) (*dto.AppointmentResponse, error) {
	if err := sub.Require(policy.OpAppointmentReview); err != nil {
		return nil, err
	}
	if !entity.ValidAppointmentStatus(in.Status) {
		return nil, domain.Invalid("estado de cita desconocido %q", in.Status)
	}
	if err := uc.appointments.UpdateStatus(ctx, id, in.Status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Upstream("appointments.update_status", err)
	}
	uc.log.Info().Str("appointment_id", id).Str("status", in.Status).Str("by", sub.UserID).Msg("cita revisada")
	return uc.Get(ctx, sub, id)
}

// PendingCount citas aún en estado new.
func (uc *AppointmentUseCase) PendingCount(ctx context.Context, sub *access.Subject) (*dto.CountResponse, error) {
	if err := sub.Require(policy.OpAppointmentRead); err != nil {
		return nil, err
	}
	n, err := uc.appointments.CountByStatus(ctx, entity.AppointmentStatusNew)
	if err != nil {
		return nil, domain.Upstream("appointments.count", err)
	}
	return &dto.CountResponse{Status: entity.AppointmentStatusNew, Count: n}, nil
}

// customerFor devuelve el cliente con el email de la cita, creándolo si falta.
// Un email tomado por un cliente borrado deja la cita sin enlace.
func (uc *AppointmentUseCase) customerFor(ctx context.Context, a *entity.Appointment) (*string, error) {
	existing, err := uc.customers.GetByEmail(ctx, a.Email)
	if err != nil {
		return nil, domain.Upstream("customers.get_by_email", err)
	}
	if existing != nil && existing.IsDeleted {
		uc.log.Warn().Str("email", a.Email).Msg("cliente borrado con el mismo email; cita sin cliente")
		return nil, nil
	}
	if existing != nil {
		return &existing.ID, nil
	}
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Company:   a.Company,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.CreatedAt,
	}
	if err := uc.customers.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			uc.log.Warn().Str("email", a.Email).Msg("cliente creado en paralelo; cita sin cliente")
			return nil, nil
		}
		return nil, domain.Upstream("customers.create", err)
	}
	return &c.ID, nil
}

func newAppointment(in dto.AppointmentRequest) (*entity.Appointment, error) {
	name, email, err := contact(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(in.Phone)
	company := strings.TrimSpace(in.Company)
	switch {
	case !govalidator.StringLength(name, "1", "100"):
		return nil, domain.Invalid("name admite hasta 100 caracteres")
	case !govalidator.StringLength(phone, "1", "30"):
		return nil, domain.Invalid("phone es obligatorio (hasta 30 caracteres)")
	case !govalidator.StringLength(company, "1", "200"):
		return nil, domain.Invalid("company es obligatorio (hasta 200 caracteres)")
	case strings.TrimSpace(in.Language) == "":
		return nil, domain.Invalid("language es obligatorio")
	case strings.TrimSpace(in.Service) == "":
		return nil, domain.Invalid("service es obligatorio")
	case len([]rune(in.Message)) > 1000:
		return nil, domain.Invalid("message admite hasta 1000 caracteres")
	}
	date, err := time.Parse(entity.AppointmentDateLayout, strings.TrimSpace(in.PreferredDate))
	if err != nil {
		return nil, domain.Invalid("preferred_date debe tener formato AAAA-MM-DD")
	}
	at := strings.TrimSpace(in.PreferredTime)
	if !govalidator.IsTime(at, "15:04") {
		return nil, domain.Invalid("preferred_time debe tener formato HH:MM")
	}
	now := time.Now()
	return &entity.Appointment{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         email,
		Phone:         phone,
		Company:       company,
		PreferredDate: date,
		PreferredTime: at,
		Language:      strings.TrimSpace(in.Language),
		Service:       strings.TrimSpace(in.Service),
		Message:       strings.TrimSpace(in.Message),
		Status:        entity.AppointmentStatusNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func toAppointmentResponse(a *entity.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Phone:         a.Phone,
		Company:       a.Company,
		PreferredDate: a.PreferredDate.Format(entity.AppointmentDateLayout),
		PreferredTime: a.PreferredTime,
		Language:      a.Language,
		Service:       a.Service,
		Message:       a.Message,
		Status:        a.Status,
		CustomerID:    a.CustomerID,
		CreatedAt:     a.CreatedAt,
	}
}
