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

// LeadUseCase prospectos y su conversión a cliente.
type LeadUseCase struct {
	leads     repository.LeadRepository
	customers repository.CustomerRepository
	log       zerolog.Logger
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(leads repository.LeadRepository, customers repository.CustomerRepository, log zerolog.Logger) *LeadUseCase {
	return &LeadUseCase{leads: leads, customers: customers, log: log}
}

// Create registra un lead en estado new.
func (uc *LeadUseCase) Create(ctx context.Context, sub *access.Subject, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if err := sub.Require(policy.OpLeadCreate); err != nil {
		return nil, err
	}
	name, email, err := contact(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	lead := &entity.Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Company:   strings.TrimSpace(in.Company),
		Status:    entity.LeadStatusNew,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.leads.Create(ctx, lead); err != nil {
		return nil, domain.Upstream("leads.create", err)
	}
	return toLeadResponse(lead), nil
}

// Update modifica datos y estado. Un lead convertido es inmutable y el estado
// converted solo se alcanza por Convert.
func (uc *LeadUseCase) Update(ctx context.Context, sub *access.Subject, id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	if err := sub.Require(policy.OpLeadUpdate); err != nil {
		return nil, err
	}
	lead, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.IsConverted() {
		return nil, domain.Conflict("el lead ya fue convertido")
	}
	name, email, err := contact(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	status := lead.Status
	if in.Status != "" {
		if !entity.ValidLeadStatus(in.Status) {
			return nil, domain.Invalid("estado de lead desconocido %q", in.Status)
		}
		if in.Status == entity.LeadStatusConverted {
			return nil, domain.Invalid("use la conversión para pasar un lead a converted")
		}
		status = in.Status
	}
	lead.Name = name
	lead.Email = email
	lead.Phone = strings.TrimSpace(in.Phone)
	lead.Company = strings.TrimSpace(in.Company)
	lead.Notes = in.Notes
	lead.Status = status
	if err := uc.leads.Update(ctx, lead); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Upstream("leads.update", err)
	}
	return toLeadResponse(lead), nil
}

// Get un lead por ID.
func (uc *LeadUseCase) Get(ctx context.Context, sub *access.Subject, id string) (*dto.LeadResponse, error) {
	if err := sub.Require(policy.OpLeadRead); err != nil {
		return nil, err
	}
	lead, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// List leads, opcionalmente filtrados por estado.
func (uc *LeadUseCase) List(ctx context.Context, sub *access.Subject, status string) ([]dto.LeadResponse, error) {
	if err := sub.Require(policy.OpLeadRead); err != nil {
		return nil, err
	}
	if status != "" && !entity.ValidLeadStatus(status) {
		return nil, domain.Invalid("estado de lead desconocido %q", status)
	}
	list, err := uc.leads.List(ctx, status)
	if err != nil {
		return nil, domain.Upstream("leads.list", err)
	}
	out := make([]dto.LeadResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLeadResponse(l))
	}
	return out, nil
}

// Convert crea el cliente a partir del lead y después marca el lead como convertido.
// Si ya existe un cliente con el email es conflicto y el lead no cambia.
func (uc *LeadUseCase) Convert(ctx context.Context, sub *access.Subject, id string) (*dto.LeadConversionResponse, error) {
	if err := sub.Require(policy.OpLeadConvert); err != nil {
		return nil, err
	}
	lead, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.IsConverted() {
		return nil, domain.Conflict("el lead ya fue convertido")
	}
	existing, err := uc.customers.GetByEmail(ctx, lead.Email)
	if err != nil {
		return nil, domain.Upstream("customers.get_by_email", err)
	}
	if existing != nil {
		return nil, domain.Conflict("ya existe un cliente con el email %s", lead.Email)
	}

	company := lead.Company
	if company == "" {
		company = entity.DefaultCustomerCompany
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   company,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("ya existe un cliente con el email %s", lead.Email)
		}
		return nil, domain.Upstream("customers.create", err)
	}
	if err := uc.leads.MarkConverted(ctx, lead.ID, customer.ID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict("el lead ya fue convertido")
		}
		uc.log.Error().Err(err).Str("lead_id", lead.ID).Str("customer_id", customer.ID).Msg("cliente creado pero lead sin marcar")
		return nil, domain.Upstream("leads.mark_converted", err)
	}
	lead.Status = entity.LeadStatusConverted
	lead.CustomerID = &customer.ID
	uc.log.Info().Str("lead_id", lead.ID).Str("customer_id", customer.ID).Str("by", sub.UserID).Msg("lead convertido")
	return &dto.LeadConversionResponse{Lead: *toLeadResponse(lead), Customer: toCustomerResponse(customer)}, nil
}

func (uc *LeadUseCase) get(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.leads.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("leads.get", err)
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}
	return lead, nil
}

// contact valida nombre y email y devuelve el email normalizado.
func contact(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", domain.Invalid("name es obligatorio")
	}
	email = entity.NormalizeEmail(email)
	if !govalidator.IsEmail(email) {
		return "", "", domain.Invalid("email inválido")
	}
	return name, email, nil
}

func toLeadResponse(l *entity.Lead) *dto.LeadResponse {
	return &dto.LeadResponse{
		ID:         l.ID,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Company:    l.Company,
		Status:     l.Status,
		Notes:      l.Notes,
		CustomerID: l.CustomerID,
		CreatedAt:  l.CreatedAt,
	}
}
