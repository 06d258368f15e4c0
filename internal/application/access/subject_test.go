package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/policy"
)

func TestSubjectCanSeeCustomer(t *testing.T) {
	own := "c-1"
	staff := &access.Subject{UserID: "s", Capabilities: policy.CapabilitiesFor(entity.RoleModerator)}
	user := &access.Subject{
		UserID:       "u",
		Profile:      &entity.Profile{UserID: "u", CustomerID: &own},
		Capabilities: policy.CapabilitiesFor(entity.RoleUser),
	}
	orphan := &access.Subject{UserID: "o", Capabilities: policy.CapabilitiesFor(entity.RoleUser)}
	var anon *access.Subject

	assert.True(t, staff.CanSeeCustomer("c-9"))
	assert.True(t, user.CanSeeCustomer("c-1"))
	assert.False(t, user.CanSeeCustomer("c-2"))
	assert.False(t, orphan.CanSeeCustomer("c-1"))
	assert.False(t, anon.CanSeeCustomer("c-1"))
}
