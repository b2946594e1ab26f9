// Package dashboard computes the role-specific dashboard statistics.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"marketplace-backend/internal/models"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/property"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	latestCount  = 5
	windowMonths = 6
)

// Dashboard is one role's envelope.
type Dashboard interface {
	Role() models.UserRole
}

// Aggregator builds the dashboard of one actor. now anchors the trailing
// month window.
type Aggregator interface {
	Build(ctx context.Context, now time.Time) (Dashboard, error)
}

func For(db *gorm.DB, actor policy.Actor) (Aggregator, error) {
	pol, err := policy.For(actor)
	if err != nil {
		return nil, err
	}
	base := scoped{db: db, store: property.NewStore(db), scope: pol.Scope}
	switch pol.Role() {
	case models.RoleAdmin:
		return adminAggregator{base}, nil
	case models.RoleAgent:
		return agentAggregator{base}, nil
	case models.RolePrincipal:
		return principalAggregator{base}, nil
	default:
		return nil, fmt.Errorf("%w: no dashboard for role %q", policy.ErrForbidden, pol.Role())
	}
}

// scoped runs every query through the actor's role scope.
type scoped struct {
	db    *gorm.DB
	store *property.Store
	scope property.Scope
}

func (s scoped) query(ctx context.Context) *gorm.DB {
	return s.scope(s.db.WithContext(ctx).Model(&models.Property{}))
}

func (s scoped) count(ctx context.Context, g *errgroup.Group, dst *int64, f property.Filters) {
	g.Go(func() error {
		n, err := s.store.Count(ctx, s.scope, f)
		*dst = n
		return err
	})
}

func (s scoped) byType(ctx context.Context, g *errgroup.Group, dst *map[models.PropertyType]int64) {
	g.Go(func() error {
		m, err := s.store.CountByType(ctx, s.scope, property.Filters{})
		*dst = m
		return err
	})
}

func (s scoped) latest(ctx context.Context, g *errgroup.Group, dst *[]property.PropertyResponse) {
	g.Go(func() error {
		props, err := s.store.Latest(ctx, s.scope, latestCount)
		if err != nil {
			return err
		}
		*dst = property.NewPropertyList(props)
		return nil
	})
}

func (s scoped) months(ctx context.Context, g *errgroup.Group, now time.Time, dst *[]monthRow) {
	g.Go(func() error {
		rows, err := s.monthRows(ctx, now)
		*dst = rows
		return err
	})
}

// sumPrice adds up price over the scoped rows matching where.
func (s scoped) sumPrice(ctx context.Context, where func(*gorm.DB) *gorm.DB) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := where(s.query(ctx)).
		Select("COALESCE(SUM(properties.price), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum property prices: %w", err)
	}
	return row.Total, nil
}

// -------------------------
// admin
// -------------------------

type AdminStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalAgents      int64 `json:"totalAgents"`
	TotalPrincipals  int64 `json:"totalPrincipals"`
	TotalProperties  int64 `json:"totalProperties"`
	ActiveProperties int64 `json:"activeProperties"`
	SoldProperties   int64 `json:"soldProperties"`
	RentedProperties int64 `json:"rentedProperties"`
}

type AdminDashboard struct {
	Stats            AdminStats                    `json:"stats"`
	LatestProperties []property.PropertyResponse   `json:"latestProperties"`
	PropertiesByType map[models.PropertyType]int64 `json:"propertiesByType"`
	MonthlyStats     []MonthlyStat                 `json:"monthlyStats"`
}

func (*AdminDashboard) Role() models.UserRole { return models.RoleAdmin }

type adminAggregator struct{ scoped }

func (a adminAggregator) Build(ctx context.Context, now time.Time) (Dashboard, error) {
	var (
		d    AdminDashboard
		rows []monthRow
	)
	g, gctx := errgroup.WithContext(ctx)

	a.countUsers(gctx, g, &d.Stats.TotalUsers, "")
	a.countUsers(gctx, g, &d.Stats.TotalAgents, models.RoleAgent)
	a.countUsers(gctx, g, &d.Stats.TotalPrincipals, models.RolePrincipal)
	a.count(gctx, g, &d.Stats.TotalProperties, property.Filters{})
	a.count(gctx, g, &d.Stats.ActiveProperties, property.Filters{Status: models.StatusAvailable})
	a.count(gctx, g, &d.Stats.SoldProperties, property.Filters{Status: models.StatusSold})
	a.count(gctx, g, &d.Stats.RentedProperties, property.Filters{Status: models.StatusRented})
	a.latest(gctx, g, &d.LatestProperties)
	a.byType(gctx, g, &d.PropertiesByType)
	a.months(gctx, g, now, &rows)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.MonthlyStats = monthlyStats(rows, now.Location())
	return &d, nil
}

// countUsers counts users with role, or all users when role is empty.
func (a adminAggregator) countUsers(ctx context.Context, g *errgroup.Group, dst *int64, role models.UserRole) {
	g.Go(func() error {
		q := a.db.WithContext(ctx).Model(&models.User{})
		if role != "" {
			q = q.Where("role = ?", role)
		}
		if err := q.Count(dst).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		return nil
	})
}

// -------------------------
// agent
// -------------------------

type AgentStats struct {
	ManagedProperties int64 `json:"managedProperties"`
	ActiveProperties  int64 `json:"activeProperties"`
	SoldProperties    int64 `json:"soldProperties"`
	RentedProperties  int64 `json:"rentedProperties"`
}

type AgentDashboard struct {
	Stats            AgentStats                    `json:"stats"`
	RecentProperties []property.PropertyResponse   `json:"recentProperties"`
	PropertiesByType map[models.PropertyType]int64 `json:"propertiesByType"`
	PerformanceStats []PerformanceStat             `json:"performanceStats"`
}

func (*AgentDashboard) Role() models.UserRole { return models.RoleAgent }

type agentAggregator struct{ scoped }

func (a agentAggregator) Build(ctx context.Context, now time.Time) (Dashboard, error) {
	var (
		d    AgentDashboard
		rows []monthRow
	)
	g, gctx := errgroup.WithContext(ctx)

	a.count(gctx, g, &d.Stats.ManagedProperties, property.Filters{})
	a.count(gctx, g, &d.Stats.ActiveProperties, property.Filters{Status: models.StatusAvailable})
	a.count(gctx, g, &d.Stats.SoldProperties, property.Filters{Status: models.StatusSold})
	a.count(gctx, g, &d.Stats.RentedProperties, property.Filters{Status: models.StatusRented})
	a.latest(gctx, g, &d.RecentProperties)
	a.byType(gctx, g, &d.PropertiesByType)
	a.months(gctx, g, now, &rows)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.PerformanceStats = performanceStats(rows, now.Location())
	return &d, nil
}

// -------------------------
// principal
// -------------------------

type PrincipalStats struct {
	OwnedProperties     int64           `json:"ownedProperties"`
	ActiveProperties    int64           `json:"activeProperties"`
	SoldProperties      int64           `json:"soldProperties"`
	RentedProperties    int64           `json:"rentedProperties"`
	TotalSaleValue      decimal.Decimal `json:"totalSaleValue"`
	MonthlyRentalIncome decimal.Decimal `json:"monthlyRentalIncome"`
	AnnualRentalIncome  decimal.Decimal `json:"annualRentalIncome"`
}

type PrincipalDashboard struct {
	Stats            PrincipalStats                `json:"stats"`
	RecentProperties []property.PropertyResponse   `json:"recentProperties"`
	PropertiesByType map[models.PropertyType]int64 `json:"propertiesByType"`
}

func (*PrincipalDashboard) Role() models.UserRole { return models.RolePrincipal }

type principalAggregator struct{ scoped }

var monthsPerYear = decimal.NewFromInt(12)

func (p principalAggregator) Build(ctx context.Context, _ time.Time) (Dashboard, error) {
	var d PrincipalDashboard
	g, gctx := errgroup.WithContext(ctx)

	p.count(gctx, g, &d.Stats.OwnedProperties, property.Filters{})
	p.count(gctx, g, &d.Stats.ActiveProperties, property.Filters{Status: models.StatusAvailable})
	p.count(gctx, g, &d.Stats.SoldProperties, property.Filters{Status: models.StatusSold})
	p.count(gctx, g, &d.Stats.RentedProperties, property.Filters{Status: models.StatusRented})
	p.latest(gctx, g, &d.RecentProperties)
	p.byType(gctx, g, &d.PropertiesByType)

	g.Go(func() error {
		v, err := p.sumPrice(gctx, func(db *gorm.DB) *gorm.DB {
			return db.Where("properties.listing_type = ? AND properties.status = ?",
				models.ListingSale, models.StatusAvailable)
		})
		d.Stats.TotalSaleValue = v
		return err
	})
	g.Go(func() error {
		v, err := p.sumPrice(gctx, func(db *gorm.DB) *gorm.DB {
			return db.Where("properties.listing_type = ? AND properties.status = ? AND properties.rent_period = ?",
				models.ListingRent, models.StatusRented, models.RentMonthly)
		})
		d.Stats.MonthlyRentalIncome = v
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.Stats.AnnualRentalIncome = d.Stats.MonthlyRentalIncome.Mul(monthsPerYear)
	return &d, nil
}
