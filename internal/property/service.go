package property

import (
	"context"
	"fmt"
	"log/slog"

	"marketplace-backend/internal/audit"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/policy"

	"gorm.io/gorm"
)

const (
	entityType    = "property"
	featuredCount = 6
)

type Service struct {
	store *Store
	log   *slog.Logger
}

func NewService(db *gorm.DB, log *slog.Logger) *Service {
	return &Service{
		store: NewStore(db),
		log:   log.With("component", "property"),
	}
}

// List returns the actor's role-scoped page.
func (s *Service) List(ctx context.Context, actor policy.Actor, f Filters, page int) (Page, error) {
	pol, err := policy.For(actor)
	if err != nil {
		return Page{}, err
	}
	return s.store.List(ctx, pol.Scope, f, page)
}

func (s *Service) Show(ctx context.Context, actor policy.Actor, id uint) (*models.Property, error) {
	pol, err := policy.For(actor)
	if err != nil {
		return nil, err
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pol.CanView(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, actor policy.Actor, in Input) (*models.Property, error) {
	pol, err := policy.For(actor)
	if err != nil {
		return nil, err
	}

	var ownerID uint
	if in.OwnerID != nil {
		ownerID = *in.OwnerID
	} else if actor.Role == models.RolePrincipal {
		ownerID = actor.ID
	}
	if err := pol.CanCreate(ownerID); err != nil {
		return nil, err
	}

	agentIDs := uniqueIDs(in.AgentIDs)
	if err := s.validate(ctx, &in, ownerID, agentIDs); err != nil {
		return nil, err
	}

	p := &models.Property{OwnerID: ownerID}
	in.applyTo(p)

	err = s.store.Transaction(ctx, func(tx *Store) error {
		if err := tx.insert(p); err != nil {
			return err
		}
		if err := tx.syncAgents(p.ID, agentIDs); err != nil {
			return err
		}
		return tx.audit(actor, p.ID, models.AuditActionCreate,
			fmt.Sprintf("Property created: %s", p.Title), nil, snapshot(p, agentIDs))
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "property created", "property_id", p.ID, "actor_id", actor.ID, "owner_id", ownerID)
	return s.store.Get(ctx, p.ID)
}

// Update replaces the fields of property id and resyncs its agents in one
// transaction. Authorization uses the stored row, not the payload.
func (s *Service) Update(ctx context.Context, actor policy.Actor, id uint, in Input) (*models.Property, error) {
	pol, err := policy.For(actor)
	if err != nil {
		return nil, err
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pol.CanUpdate(current); err != nil {
		return nil, err
	}

	ownerID := current.OwnerID
	if in.OwnerID != nil {
		ownerID = *in.OwnerID
	}
	if ownerID != current.OwnerID && !pol.CanReassignOwner() {
		return nil, fmt.Errorf("%w: only admins can change the owner of a property", ErrForbidden)
	}

	agentIDs := uniqueIDs(in.AgentIDs)
	if err := s.validate(ctx, &in, ownerID, agentIDs); err != nil {
		return nil, err
	}

	before := snapshot(current, current.AgentIDs())

	next := *current
	next.Owner = nil
	next.Agents = nil
	next.OwnerID = ownerID
	in.applyTo(&next)

	err = s.store.Transaction(ctx, func(tx *Store) error {
		if err := tx.save(&next); err != nil {
			return err
		}
		if err := tx.syncAgents(next.ID, agentIDs); err != nil {
			return err
		}
		return tx.audit(actor, next.ID, models.AuditActionUpdate,
			fmt.Sprintf("Property updated: %s", next.Title), before, snapshot(&next, agentIDs))
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "property updated", "property_id", id, "actor_id", actor.ID)
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	pol, err := policy.For(actor)
	if err != nil {
		return err
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := pol.CanDelete(current); err != nil {
		return err
	}

	before := snapshot(current, current.AgentIDs())
	err = s.store.Transaction(ctx, func(tx *Store) error {
		if err := tx.remove(id); err != nil {
			return err
		}
		return tx.audit(actor, id, models.AuditActionDelete,
			fmt.Sprintf("Property deleted: %s", current.Title), before, nil)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "property deleted", "property_id", id, "actor_id", actor.ID)
	return nil
}

// validate runs field checks plus the owner and agent lookups. It reports
// every problem at once.
func (s *Service) validate(ctx context.Context, in *Input, ownerID uint, agentIDs []uint) error {
	verr := in.Validate()
	if verr == nil {
		verr = &ValidationError{}
	}

	lookup := append([]uint{}, agentIDs...)
	if ownerID != 0 {
		lookup = append(lookup, ownerID)
	}
	users, err := s.store.Users(ctx, uniqueIDs(lookup))
	if err != nil {
		return err
	}

	if ownerID == 0 {
		verr.add("owner_id", "Property owner is required.")
	} else if owner, ok := users[ownerID]; !ok {
		verr.add("owner_id", "Selected owner does not exist.")
	} else if owner.Role != models.RolePrincipal {
		verr.add("owner_id", "Selected owner must be a principal.")
	}

	for _, id := range agentIDs {
		if u, ok := users[id]; !ok || u.Role != models.RoleAgent {
			verr.add("agent_ids", fmt.Sprintf("User %d is not an agent.", id))
			break
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *Store) audit(actor policy.Actor, id uint, action models.AuditAction, desc string, before, after any) error {
	return audit.WriteLog(s.db, audit.LogOptions{
		UserID:      actor.ID,
		UserRole:    actor.Role,
		EntityType:  entityType,
		EntityID:    id,
		Action:      action,
		Description: desc,
		Before:      before,
		After:       after,
	})
}

// snapshot is the audit representation of a property.
func snapshot(p *models.Property, agentIDs []uint) map[string]any {
	return map[string]any{
		"id":           p.ID,
		"type":         p.Type,
		"title":        p.Title,
		"address":      p.Address,
		"price":        p.Price.String(),
		"listing_type": p.ListingType,
		"rent_period":  p.RentPeriod,
		"status":       p.Status,
		"owner_id":     p.OwnerID,
		"agent_ids":    agentIDs,
	}
}

// -------------------------
// public marketplace
// -------------------------

type MarketplaceStats struct {
	TotalProperties int64                         `json:"totalProperties"`
	ForSale         int64                         `json:"forSale"`
	ForRent         int64                         `json:"forRent"`
	PropertyTypes   map[models.PropertyType]int64 `json:"propertyTypes"`
}

type Marketplace struct {
	Properties Page
	Featured   []models.Property
	Stats      MarketplaceStats
	Filters    map[string]string
}

// Marketplace is the unauthenticated browse view over available properties.
// The status filter does not apply here.
func (s *Service) Marketplace(ctx context.Context, f Filters, page int) (*Marketplace, error) {
	f.Status = ""

	props, err := s.store.List(ctx, AvailableOnly, f, page)
	if err != nil {
		return nil, err
	}
	featured, err := s.store.Latest(ctx, AvailableOnly, featuredCount)
	if err != nil {
		return nil, err
	}

	var stats MarketplaceStats
	if stats.TotalProperties, err = s.store.Count(ctx, AvailableOnly, Filters{}); err != nil {
		return nil, err
	}
	if stats.ForSale, err = s.store.Count(ctx, AvailableOnly, Filters{ListingType: models.ListingSale}); err != nil {
		return nil, err
	}
	if stats.ForRent, err = s.store.Count(ctx, AvailableOnly, Filters{ListingType: models.ListingRent}); err != nil {
		return nil, err
	}
	if stats.PropertyTypes, err = s.store.CountByType(ctx, AvailableOnly, Filters{}); err != nil {
		return nil, err
	}

	return &Marketplace{
		Properties: props,
		Featured:   featured,
		Stats:      stats,
		Filters:    f.Values(),
	}, nil
}

// -------------------------
// form options
// -------------------------

type FormOptions struct {
	Owners []models.User
	Agents []models.User
}

// FormOptions lists the owners the actor may pick and every agent. Admins
// may pick any principal, principals only themselves.
func (s *Service) FormOptions(ctx context.Context, actor policy.Actor) (*FormOptions, error) {
	pol, err := policy.For(actor)
	if err != nil {
		return nil, err
	}
	if err := pol.CanCreate(actor.ID); err != nil {
		return nil, err
	}

	var owners []models.User
	if pol.CanReassignOwner() {
		if owners, err = s.store.UsersByRole(ctx, models.RolePrincipal); err != nil {
			return nil, err
		}
	} else {
		self, err := s.store.Users(ctx, []uint{actor.ID})
		if err != nil {
			return nil, err
		}
		if u, ok := self[actor.ID]; ok {
			owners = []models.User{u}
		}
	}

	agents, err := s.store.UsersByRole(ctx, models.RoleAgent)
	if err != nil {
		return nil, err
	}
	return &FormOptions{Owners: owners, Agents: agents}, nil
}
