package property

import (
	"context"
	"fmt"

	"marketplace-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PageSize is the fixed listing page size.
const PageSize = 12

// Scope restricts a properties query. policy.Policy.Scope satisfies it.
type Scope func(db *gorm.DB) *gorm.DB

// Unscoped sees every row.
func Unscoped(db *gorm.DB) *gorm.DB { return db }

// AvailableOnly is the public marketplace scope.
func AvailableOnly(db *gorm.DB) *gorm.DB {
	return db.Where("properties.status = ?", models.StatusAvailable)
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

type Page struct {
	Data       []models.Property
	Pagination Pagination
}

// Store persists properties and their agent assignments. Reads always return
// properties with Owner and Agents materialised.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn against a store bound to one transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) query(ctx context.Context, scope Scope) *gorm.DB {
	return scope(s.db.WithContext(ctx).Model(&models.Property{}))
}

func (s *Store) Get(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, storageErr(fmt.Sprintf("get property %d", id), err)
	}
	props := []models.Property{p}
	if err := s.loadRelations(ctx, props); err != nil {
		return nil, err
	}
	return &props[0], nil
}

// List returns one newest-first page. The scope clause is added before any
// filter clause. Pages past the end come back empty; page is clamped to one
// past the last page so the offset cannot overflow.
func (s *Store) List(ctx context.Context, scope Scope, f Filters, page int) (Page, error) {
	var total int64
	if err := f.Apply(s.query(ctx, scope)).Count(&total).Error; err != nil {
		return Page{}, storageErr("count properties", err)
	}

	if page < 1 {
		page = 1
	}
	if last := lastPage(total); page > last+1 {
		page = last + 1
	}

	var props []models.Property
	err := f.Apply(s.query(ctx, scope)).
		Order("properties.created_at DESC, properties.id DESC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&props).Error
	if err != nil {
		return Page{}, storageErr("list properties", err)
	}
	if err := s.loadRelations(ctx, props); err != nil {
		return Page{}, err
	}

	return Page{Data: props, Pagination: paginate(page, total, len(props))}, nil
}

func lastPage(total int64) int {
	last := int((total + PageSize - 1) / PageSize)
	if last < 1 {
		last = 1
	}
	return last
}

func paginate(page int, total int64, n int) Pagination {
	p := Pagination{
		CurrentPage: page,
		PerPage:     PageSize,
		Total:       total,
		LastPage:    lastPage(total),
	}
	if n > 0 {
		p.From = (page-1)*PageSize + 1
		p.To = p.From + n - 1
	}
	return p
}

// Latest returns the n most recently created properties in scope.
func (s *Store) Latest(ctx context.Context, scope Scope, n int) ([]models.Property, error) {
	var props []models.Property
	err := s.query(ctx, scope).
		Order("properties.created_at DESC, properties.id DESC").
		Limit(n).
		Find(&props).Error
	if err != nil {
		return nil, storageErr("latest properties", err)
	}
	if err := s.loadRelations(ctx, props); err != nil {
		return nil, err
	}
	return props, nil
}

// Count counts properties in scope matching f.
func (s *Store) Count(ctx context.Context, scope Scope, f Filters) (int64, error) {
	var n int64
	if err := f.Apply(s.query(ctx, scope)).Count(&n).Error; err != nil {
		return 0, storageErr("count properties", err)
	}
	return n, nil
}

// CountByType groups properties in scope by type. Types with no rows are
// absent.
func (s *Store) CountByType(ctx context.Context, scope Scope, f Filters) (map[models.PropertyType]int64, error) {
	var rows []struct {
		Type  models.PropertyType
		Total int64
	}
	err := f.Apply(s.query(ctx, scope)).
		Select("properties.type AS type, COUNT(*) AS total").
		Group("properties.type").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr("count properties by type", err)
	}
	out := make(map[models.PropertyType]int64, len(rows))
	for _, r := range rows {
		out[r.Type] = r.Total
	}
	return out, nil
}

// loadRelations batch-fetches owners and agents for props in place.
func (s *Store) loadRelations(ctx context.Context, props []models.Property) error {
	if len(props) == 0 {
		return nil
	}

	propIDs := make([]uint, 0, len(props))
	ownerIDs := make([]uint, 0, len(props))
	for _, p := range props {
		propIDs = append(propIDs, p.ID)
		ownerIDs = append(ownerIDs, p.OwnerID)
	}

	var links []models.PropertyAgent
	err := s.db.WithContext(ctx).
		Where("property_id IN ?", propIDs).
		Order("id").
		Find(&links).Error
	if err != nil {
		return storageErr("load property agents", err)
	}

	userIDs := uniqueIDs(ownerIDs)
	for _, l := range links {
		userIDs = append(userIDs, l.AgentID)
	}
	users, err := s.Users(ctx, uniqueIDs(userIDs))
	if err != nil {
		return err
	}

	agents := make(map[uint][]models.User, len(props))
	for _, l := range links {
		if u, ok := users[l.AgentID]; ok {
			agents[l.PropertyID] = append(agents[l.PropertyID], u)
		}
	}

	for i := range props {
		if owner, ok := users[props[i].OwnerID]; ok {
			o := owner
			props[i].Owner = &o
		}
		props[i].Agents = agents[props[i].ID]
		if props[i].Agents == nil {
			props[i].Agents = []models.User{}
		}
	}
	return nil
}

// Users fetches users keyed by id. Missing ids are simply absent.
func (s *Store) Users(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, storageErr("load users", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// UsersByRole lists users with role, ordered by name.
func (s *Store) UsersByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where("role = ?", role).Order("name, id").Find(&users).Error; err != nil {
		return nil, storageErr("list users by role", err)
	}
	return users, nil
}

// -------------------------
// writes (use inside Transaction)
// -------------------------

func (s *Store) insert(p *models.Property) error {
	if err := s.db.Omit(clause.Associations).Create(p).Error; err != nil {
		return storageErr("create property", err)
	}
	return nil
}

func (s *Store) save(p *models.Property) error {
	if err := s.db.Omit(clause.Associations).Save(p).Error; err != nil {
		return storageErr(fmt.Sprintf("update property %d", p.ID), err)
	}
	return nil
}

func (s *Store) remove(id uint) error {
	if err := s.db.Where("property_id = ?", id).Delete(&models.PropertyAgent{}).Error; err != nil {
		return storageErr(fmt.Sprintf("detach agents from property %d", id), err)
	}
	res := s.db.Delete(&models.Property{}, id)
	if res.Error != nil {
		return storageErr(fmt.Sprintf("delete property %d", id), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete property %d: %w", id, ErrNotFound)
	}
	return nil
}

// syncAgents makes the assignment set of propertyID exactly agentIDs.
func (s *Store) syncAgents(propertyID uint, agentIDs []uint) error {
	del := s.db.Where("property_id = ?", propertyID)
	if len(agentIDs) > 0 {
		del = del.Where("agent_id NOT IN ?", agentIDs)
	}
	if err := del.Delete(&models.PropertyAgent{}).Error; err != nil {
		return storageErr(fmt.Sprintf("detach agents from property %d", propertyID), err)
	}

	var existing []uint
	err := s.db.Model(&models.PropertyAgent{}).
		Where("property_id = ?", propertyID).
		Pluck("agent_id", &existing).Error
	if err != nil {
		return storageErr(fmt.Sprintf("read agents of property %d", propertyID), err)
	}
	have := make(map[uint]bool, len(existing))
	for _, id := range existing {
		have[id] = true
	}

	for _, agentID := range agentIDs {
		if have[agentID] {
			continue
		}
		link := models.PropertyAgent{PropertyID: propertyID, AgentID: agentID}
		if err := s.db.Create(&link).Error; err != nil {
			return storageErr(fmt.Sprintf("attach agent %d to property %d", agentID, propertyID), err)
		}
	}
	return nil
}
