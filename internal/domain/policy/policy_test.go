package policy_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
)

func TestAllow_JerarquiaDeRoles(t *testing.T) {
	adminOnly := []policy.Operation{
		policy.OpInviteCreate, policy.OpInviteResend, policy.OpRoleSet,
		policy.OpUserDeactivate, policy.OpUserDelete,
		policy.OpShipmentSetStatus, policy.OpShipmentDelete, policy.OpCustomerDelete,
	}
	for _, op := range adminOnly {
		assert.True(t, policy.Allow(entity.RoleAdmin, op), op)
		assert.False(t, policy.Allow(entity.RoleModerator, op), op)
		assert.False(t, policy.Allow(entity.RoleUser, op), op)
	}

	staff := []policy.Operation{
		policy.OpLeadConvert, policy.OpTrackingCreate,
		policy.OpAppointmentRead, policy.OpAppointmentReview,
		policy.OpInvoiceConvertToCommercial, policy.OpInvoiceSetStatus,
	}
	for _, op := range staff {
		assert.True(t, policy.Allow(entity.RoleAdmin, op), op)
		assert.True(t, policy.Allow(entity.RoleModerator, op), op)
		assert.False(t, policy.Allow(entity.RoleUser, op), op)
	}

	for _, op := range []policy.Operation{policy.OpShipmentRead, policy.OpInvoiceRead} {
		assert.True(t, policy.Allow(entity.RoleUser, op), op)
		assert.False(t, policy.Allow(entity.RoleNone, op), op)
	}
}

func TestAllow_OperacionDesconocida(t *testing.T) {
	assert.False(t, policy.Allow(entity.RoleAdmin, policy.Operation("db.drop")))
}

func TestRequire_DevuelveForbidden(t *testing.T) {
	caps := policy.CapabilitiesFor(entity.RoleModerator)
	assert.True(t, caps.IsStaff)
	assert.False(t, caps.IsAdmin)

	err := policy.Require(caps, policy.OpRoleSet)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.NoError(t, policy.Require(caps, policy.OpLeadConvert))
}
