// Package testutil holds fixtures shared by storage-backed tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/database"
	"marketplace-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain password of every user made by CreateUser.
const Password = "secret-password"

var (
	seq          atomic.Int64
	passwordHash = mustHash(Password)
)

func mustHash(p string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.Database{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, nil))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, role models.UserRole) models.User {
	t.Helper()
	n := seq.Add(1)
	u := models.User{
		Name:         fmt.Sprintf("%s %d", role, n),
		Email:        fmt.Sprintf("%s%d@example.test", role, n),
		PasswordHash: passwordHash,
		Role:         role,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// PropertyOpt adjusts a property built by CreateProperty.
type PropertyOpt func(*models.Property)

func Rent(period models.RentPeriod) PropertyOpt {
	return func(p *models.Property) {
		p.ListingType = models.ListingRent
		p.RentPeriod = &period
	}
}

func WithStatus(s models.PropertyStatus) PropertyOpt {
	return func(p *models.Property) { p.Status = s }
}

func WithType(t models.PropertyType) PropertyOpt {
	return func(p *models.Property) { p.Type = t }
}

func WithPrice(v int64) PropertyOpt {
	return func(p *models.Property) { p.Price = decimal.NewFromInt(v) }
}

func CreatedAt(at time.Time) PropertyOpt {
	return func(p *models.Property) {
		p.CreatedAt = at
		p.UpdatedAt = at
	}
}

// CreateProperty inserts an available house for sale owned by ownerID and
// assigns agentIDs to it, bypassing the service layer.
func CreateProperty(t testing.TB, db *gorm.DB, ownerID uint, agentIDs []uint, opts ...PropertyOpt) models.Property {
	t.Helper()
	n := seq.Add(1)
	p := models.Property{
		Type:        models.TypeHouse,
		Title:       fmt.Sprintf("Property %d", n),
		Address:     fmt.Sprintf("Jl. Test No. %d", n),
		Price:       decimal.NewFromInt(1_000_000),
		ListingType: models.ListingSale,
		Description: "fixture",
		Status:      models.StatusAvailable,
		OwnerID:     ownerID,
	}
	for _, opt := range opts {
		opt(&p)
	}
	require.NoError(t, db.Create(&p).Error)
	for _, id := range agentIDs {
		require.NoError(t, db.Create(&models.PropertyAgent{PropertyID: p.ID, AgentID: id}).Error)
	}
	return p
}
