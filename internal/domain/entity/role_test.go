package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

func TestParseRole(t *testing.T) {
	r, err := entity.ParseRole("moderator")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleModerator, r)

	_, err = entity.ParseRole("superuser")
	assert.Error(t, err)
	_, err = entity.ParseRole("")
	assert.Error(t, err)
}

func TestRoleHierarchy(t *testing.T) {
	assert.True(t, entity.RoleAdmin.IsStaff())
	assert.True(t, entity.RoleModerator.IsStaff())
	assert.False(t, entity.RoleUser.IsStaff())
	assert.False(t, entity.RoleNone.IsStaff())
	assert.Greater(t, entity.RoleAdmin.Rank(), entity.RoleModerator.Rank())
	assert.Greater(t, entity.RoleModerator.Rank(), entity.RoleUser.Rank())
}

func TestLowestRole_DosFilasTrasCorte(t *testing.T) {
	rows := []*entity.RoleAssignment{
		{UserID: "u1", Role: entity.RoleAdmin},
		{UserID: "u1", Role: entity.RoleUser},
	}
	assert.Equal(t, entity.RoleUser, entity.LowestRole(rows))
	assert.Equal(t, entity.RoleNone, entity.LowestRole(nil))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "bob@x.com", entity.NormalizeEmail("  Bob@X.COM "))
}
