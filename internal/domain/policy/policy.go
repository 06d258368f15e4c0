// Package policy es la única fuente de verdad sobre qué rol puede ejecutar qué operación.
// Es una función pura: no consulta la base ni guarda estado.
package policy

import (
	"fmt"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// Operation operación privilegiada del sistema.
type Operation string

// Operaciones. El rol mínimo de cada una está en minimumRole.
const (
	OpInviteCreate   Operation = "invite.create"
	OpInviteResend   Operation = "invite.resend"
	OpInviteList     Operation = "invite.list"
	OpRoleSet        Operation = "role.set"
	OpUserList       Operation = "user.list"
	OpUserDeactivate Operation = "user.deactivate"
	OpUserDelete     Operation = "user.delete"
	OpUserCreate     Operation = "user.create"

	OpLeadCreate  Operation = "lead.create"
	OpLeadUpdate  Operation = "lead.update"
	OpLeadRead    Operation = "lead.read"
	OpLeadConvert Operation = "lead.convert"

	OpCustomerCreate Operation = "customer.create"
	OpCustomerUpdate Operation = "customer.update"
	OpCustomerRead   Operation = "customer.read"
	OpCustomerDelete Operation = "customer.delete"

	OpAppointmentRead   Operation = "appointment.read"
	OpAppointmentReview Operation = "appointment.review"

	OpShipmentCreate    Operation = "shipment.create"
	OpShipmentUpdate    Operation = "shipment.update"
	OpShipmentRead      Operation = "shipment.read"
	OpShipmentSetStatus Operation = "shipment.setStatus"
	OpShipmentDelete    Operation = "shipment.delete"

	OpTrackingCreate Operation = "tracking.create"
	OpTrackingDelete Operation = "tracking.delete"
	OpTrackingRead   Operation = "tracking.read"

	OpInvoiceCreate              Operation = "invoice.create"
	OpInvoiceUpdate              Operation = "invoice.update"
	OpInvoiceRead                Operation = "invoice.read"
	OpInvoiceSetStatus           Operation = "invoice.setStatus"
	OpInvoiceConvertToCommercial Operation = "invoice.convertToCommercial"
	OpInvoicePDF                 Operation = "invoice.pdf"
)

var minimumRole = map[Operation]entity.Role{
	OpInviteCreate:   entity.RoleAdmin,
	OpInviteResend:   entity.RoleAdmin,
	OpInviteList:     entity.RoleAdmin,
	OpRoleSet:        entity.RoleAdmin,
	OpUserList:       entity.RoleAdmin,
	OpUserDeactivate: entity.RoleAdmin,
	OpUserDelete:     entity.RoleAdmin,
	OpUserCreate:     entity.RoleAdmin,

	OpLeadCreate:  entity.RoleModerator,
	OpLeadUpdate:  entity.RoleModerator,
	OpLeadRead:    entity.RoleModerator,
	OpLeadConvert: entity.RoleModerator,

	OpCustomerCreate: entity.RoleModerator,
	OpCustomerUpdate: entity.RoleModerator,
	OpCustomerRead:   entity.RoleModerator,
	OpCustomerDelete: entity.RoleAdmin,

	OpAppointmentRead:   entity.RoleModerator,
	OpAppointmentReview: entity.RoleModerator,

	OpShipmentCreate:    entity.RoleModerator,
	OpShipmentUpdate:    entity.RoleModerator,
	OpShipmentRead:      entity.RoleUser,
	OpShipmentSetStatus: entity.RoleAdmin,
	OpShipmentDelete:    entity.RoleAdmin,

	OpTrackingCreate: entity.RoleModerator,
	OpTrackingDelete: entity.RoleModerator,
	OpTrackingRead:   entity.RoleUser,

	OpInvoiceCreate:              entity.RoleModerator,
	OpInvoiceUpdate:              entity.RoleModerator,
	OpInvoiceRead:                entity.RoleUser,
	OpInvoiceSetStatus:           entity.RoleModerator,
	OpInvoiceConvertToCommercial: entity.RoleModerator,
	OpInvoicePDF:                 entity.RoleUser,
}

// MinimumRole devuelve el rol mínimo de la operación y si la operación existe.
func MinimumRole(op Operation) (entity.Role, bool) {
	r, ok := minimumRole[op]
	return r, ok
}

// Allow decide si el rol puede ejecutar la operación. Operaciones desconocidas se niegan.
func Allow(role entity.Role, op Operation) bool {
	need, ok := minimumRole[op]
	if !ok || !role.Valid() {
		return false
	}
	return role.Rank() >= need.Rank()
}

// Capabilities se calcula una vez por request a partir del rol resuelto.
type Capabilities struct {
	Role    entity.Role
	IsStaff bool
	IsAdmin bool
}

// CapabilitiesFor deriva el conjunto de capacidades de un rol.
func CapabilitiesFor(role entity.Role) Capabilities {
	return Capabilities{
		Role:    role,
		IsStaff: role.IsStaff(),
		IsAdmin: role == entity.RoleAdmin,
	}
}

// Can atajo de Allow sobre las capacidades ya calculadas.
func (c Capabilities) Can(op Operation) bool { return Allow(c.Role, op) }

// Require devuelve domain.ErrForbidden si el rol no alcanza la operación.
func Require(c Capabilities, op Operation) error {
	if c.Can(op) {
		return nil
	}
	return fmt.Errorf("%w: %s requiere otro rol (actual: %q)", domain.ErrForbidden, op, c.Role)
}
