// Package policy decides what an acting user may see and change.
//
// Each role is its own Policy implementation; For picks the variant. Every
// check is evaluated against the property as it is currently stored.
package policy

import (
	"errors"
	"fmt"

	"marketplace-backend/internal/models"

	"gorm.io/gorm"
)

var ErrForbidden = errors.New("forbidden")

// Actor is the authenticated caller. It is always passed explicitly.
type Actor struct {
	ID   uint
	Role models.UserRole
}

type Policy interface {
	Role() models.UserRole
	// Scope restricts a query on properties to the actor's role scope.
	Scope(db *gorm.DB) *gorm.DB
	CanView(p *models.Property) error
	// CanCreate checks creating a property owned by ownerID.
	CanCreate(ownerID uint) error
	CanUpdate(p *models.Property) error
	CanDelete(p *models.Property) error
	// CanReassignOwner reports whether the actor may move a property to a
	// different owner.
	CanReassignOwner() bool
}

func For(a Actor) (Policy, error) {
	switch a.Role {
	case models.RoleAdmin:
		return adminPolicy{}, nil
	case models.RoleAgent:
		return agentPolicy{id: a.ID}, nil
	case models.RolePrincipal:
		return principalPolicy{id: a.ID}, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrForbidden, a.Role)
	}
}

func forbidden(msg string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, msg)
}

// -------------------------
// admin
// -------------------------

type adminPolicy struct{}

func (adminPolicy) Role() models.UserRole { return models.RoleAdmin }
func (adminPolicy) Scope(db *gorm.DB) *gorm.DB { return db }
func (adminPolicy) CanView(*models.Property) error { return nil }
func (adminPolicy) CanCreate(uint) error { return nil }
func (adminPolicy) CanUpdate(*models.Property) error { return nil }
func (adminPolicy) CanDelete(*models.Property) error { return nil }
func (adminPolicy) CanReassignOwner() bool { return true }

// -------------------------
// agent
// -------------------------

type agentPolicy struct{ id uint }

func (agentPolicy) Role() models.UserRole { return models.RoleAgent }

func (a agentPolicy) Scope(db *gorm.DB) *gorm.DB {
	return db.Where("properties.id IN (SELECT property_id FROM property_agents WHERE agent_id = ?)", a.id)
}

func (a agentPolicy) CanView(p *models.Property) error {
	if !p.HasAgent(a.id) {
		return forbidden("unauthorized access to this property")
	}
	return nil
}

func (agentPolicy) CanCreate(uint) error {
	return forbidden("agents cannot create properties")
}

func (a agentPolicy) CanUpdate(p *models.Property) error {
	if !p.HasAgent(a.id) {
		return forbidden("unauthorized to update this property")
	}
	return nil
}

// Agents never delete, assigned or not.
func (agentPolicy) CanDelete(*models.Property) error {
	return forbidden("agents cannot delete properties")
}

func (agentPolicy) CanReassignOwner() bool { return false }

// -------------------------
// principal
// -------------------------

type principalPolicy struct{ id uint }

func (principalPolicy) Role() models.UserRole { return models.RolePrincipal }

func (p principalPolicy) Scope(db *gorm.DB) *gorm.DB {
	return db.Where("properties.owner_id = ?", p.id)
}

func (p principalPolicy) CanView(prop *models.Property) error {
	if prop.OwnerID != p.id {
		return forbidden("unauthorized access to this property")
	}
	return nil
}

func (p principalPolicy) CanCreate(ownerID uint) error {
	if ownerID != p.id {
		return forbidden("principals can only create properties they own")
	}
	return nil
}

func (p principalPolicy) CanUpdate(prop *models.Property) error {
	if prop.OwnerID != p.id {
		return forbidden("unauthorized to update this property")
	}
	return nil
}

func (p principalPolicy) CanDelete(prop *models.Property) error {
	if prop.OwnerID != p.id {
		return forbidden("unauthorized to delete this property")
	}
	return nil
}

func (principalPolicy) CanReassignOwner() bool { return false }
