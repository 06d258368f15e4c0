package crm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// CustomerUseCase casos de uso de clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
	log  zerolog.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, log zerolog.Logger) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, log: log}
}

// Create crea un cliente. Email duplicado es conflicto.
func (uc *CustomerUseCase) Create(ctx context.Context, sub *access.Subject, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := sub.Require(policy.OpCustomerCreate); err != nil {
		return nil, err
	}
	name, email, err := contact(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	company := strings.TrimSpace(in.Company)
	if company == "" {
		company = entity.DefaultCustomerCompany
	}
	now := time.Now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Company:   company,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("ya existe un cliente con el email %s", email)
		}
		return nil, domain.Upstream("customers.create", err)
	}
	out := toCustomerResponse(c)
	return &out, nil
}

// Update actualiza datos del cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, sub *access.Subject, id string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := sub.Require(policy.OpCustomerUpdate); err != nil {
		return nil, err
	}
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, email, err := contact(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.Email = email
	c.Phone = strings.TrimSpace(in.Phone)
	if company := strings.TrimSpace(in.Company); company != "" {
		c.Company = company
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return nil, domain.Conflict("ya existe un cliente con el email %s", email)
		case errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		return nil, domain.Upstream("customers.update", err)
	}
	out := toCustomerResponse(c)
	return &out, nil
}

// SoftDelete marca el cliente como borrado (solo admin).
func (uc *CustomerUseCase) SoftDelete(ctx context.Context, sub *access.Subject, id string) (*dto.SuccessResponse, error) {
	if err := sub.Require(policy.OpCustomerDelete); err != nil {
		return nil, err
	}
	if err := uc.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, domain.Upstream("customers.soft_delete", err)
	}
	uc.log.Info().Str("customer_id", id).Str("by", sub.UserID).Msg("cliente borrado")
	return &dto.SuccessResponse{Success: true, Message: "cliente eliminado"}, nil
}

// Get un cliente por ID.
func (uc *CustomerUseCase) Get(ctx context.Context, sub *access.Subject, id string) (*dto.CustomerResponse, error) {
	if err := sub.Require(policy.OpCustomerRead); err != nil {
		return nil, err
	}
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCustomerResponse(c)
	return &out, nil
}

// List clientes no borrados.
func (uc *CustomerUseCase) List(ctx context.Context, sub *access.Subject) ([]dto.CustomerResponse, error) {
	if err := sub.Require(policy.OpCustomerRead); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.Upstream("customers.list", err)
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func (uc *CustomerUseCase) get(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Upstream("customers.get", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Company: c.Company,
	}
}
