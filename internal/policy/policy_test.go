package policy_test

import (
	"testing"

	"marketplace-backend/internal/models"
	"marketplace-backend/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID     uint = 1
	agentID     uint = 2
	otherAgent  uint = 3
	ownerID     uint = 4
	otherPrinID uint = 5
)

func property() *models.Property {
	return &models.Property{
		ID:      10,
		OwnerID: ownerID,
		Agents:  []models.User{{ID: agentID, Role: models.RoleAgent}},
	}
}

func mustFor(t *testing.T, id uint, role models.UserRole) policy.Policy {
	t.Helper()
	p, err := policy.For(policy.Actor{ID: id, Role: role})
	require.NoError(t, err)
	require.Equal(t, role, p.Role())
	return p
}

func TestFor_UnknownRole(t *testing.T) {
	_, err := policy.For(policy.Actor{ID: 1, Role: "guest"})
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestCanViewAndUpdate(t *testing.T) {
	tests := []struct {
		name    string
		id      uint
		role    models.UserRole
		allowed bool
	}{
		{"admin sees everything", adminID, models.RoleAdmin, true},
		{"assigned agent", agentID, models.RoleAgent, true},
		{"unassigned agent", otherAgent, models.RoleAgent, false},
		{"owning principal", ownerID, models.RolePrincipal, true},
		{"other principal", otherPrinID, models.RolePrincipal, false},
		// an agent id equal to the owner id must not matter
		{"agent with owner's id", ownerID, models.RoleAgent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustFor(t, tt.id, tt.role)
			viewErr := p.CanView(property())
			updateErr := p.CanUpdate(property())
			if tt.allowed {
				assert.NoError(t, viewErr)
				assert.NoError(t, updateErr)
			} else {
				assert.ErrorIs(t, viewErr, policy.ErrForbidden)
				assert.ErrorIs(t, updateErr, policy.ErrForbidden)
			}
		})
	}
}

func TestCanDelete(t *testing.T) {
	assert.NoError(t, mustFor(t, adminID, models.RoleAdmin).CanDelete(property()))
	assert.NoError(t, mustFor(t, ownerID, models.RolePrincipal).CanDelete(property()))
	assert.ErrorIs(t, mustFor(t, otherPrinID, models.RolePrincipal).CanDelete(property()), policy.ErrForbidden)

	// assigned or not, agents never delete
	assert.ErrorIs(t, mustFor(t, agentID, models.RoleAgent).CanDelete(property()), policy.ErrForbidden)
	assert.ErrorIs(t, mustFor(t, otherAgent, models.RoleAgent).CanDelete(property()), policy.ErrForbidden)
}

func TestCanCreate(t *testing.T) {
	assert.NoError(t, mustFor(t, adminID, models.RoleAdmin).CanCreate(ownerID))
	assert.NoError(t, mustFor(t, ownerID, models.RolePrincipal).CanCreate(ownerID))
	assert.ErrorIs(t, mustFor(t, ownerID, models.RolePrincipal).CanCreate(otherPrinID), policy.ErrForbidden)
	assert.ErrorIs(t, mustFor(t, agentID, models.RoleAgent).CanCreate(ownerID), policy.ErrForbidden)
}

func TestCanReassignOwner(t *testing.T) {
	assert.True(t, mustFor(t, adminID, models.RoleAdmin).CanReassignOwner())
	assert.False(t, mustFor(t, agentID, models.RoleAgent).CanReassignOwner())
	assert.False(t, mustFor(t, ownerID, models.RolePrincipal).CanReassignOwner())
}
