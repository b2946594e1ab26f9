package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PropertyType string

const (
	TypeHouse         PropertyType = "house"
	TypeLand          PropertyType = "land"
	TypeWarehouse     PropertyType = "warehouse"
	TypeShopHouse     PropertyType = "shop_house"
	TypeKiosk         PropertyType = "kiosk"
	TypeBoardingHouse PropertyType = "boarding_house"
	TypeBuilding      PropertyType = "building"
	TypeApartment     PropertyType = "apartment"
)

// PropertyTypes lists every type in display order.
var PropertyTypes = []PropertyType{
	TypeHouse, TypeLand, TypeWarehouse, TypeShopHouse,
	TypeKiosk, TypeBoardingHouse, TypeBuilding, TypeApartment,
}

func (t PropertyType) Valid() bool {
	switch t {
	case TypeHouse, TypeLand, TypeWarehouse, TypeShopHouse,
		TypeKiosk, TypeBoardingHouse, TypeBuilding, TypeApartment:
		return true
	}
	return false
}

type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingRent ListingType = "rent"
)

func (l ListingType) Valid() bool {
	return l == ListingSale || l == ListingRent
}

type RentPeriod string

const (
	RentMonthly RentPeriod = "monthly"
	RentYearly  RentPeriod = "yearly"
)

func (r RentPeriod) Valid() bool {
	return r == RentMonthly || r == RentYearly
}

type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "available"
	StatusSold      PropertyStatus = "sold"
	StatusRented    PropertyStatus = "rented"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusSold, StatusRented:
		return true
	}
	return false
}

// Property is a listing. RentPeriod is set iff ListingType is rent.
type Property struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Type         PropertyType                `gorm:"size:30;not null;index;index:idx_properties_type_status,priority:1" json:"type"`
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Address      string                      `gorm:"type:text;not null" json:"address"`
	Price        decimal.Decimal             `gorm:"type:decimal(15,2);not null;index" json:"price"`
	ListingType  ListingType                 `gorm:"size:10;not null;index;index:idx_properties_status_listing,priority:2" json:"listing_type"`
	RentPeriod   *RentPeriod                 `gorm:"size:10" json:"rent_period"`
	LandArea     decimal.NullDecimal         `gorm:"type:decimal(10,2)" json:"land_area"`
	BuildingArea decimal.NullDecimal         `gorm:"type:decimal(10,2)" json:"building_area"`
	Bedrooms     *int                        `json:"bedrooms"`
	Bathrooms    *int                        `json:"bathrooms"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Photos       datatypes.JSONSlice[string] `json:"photos"`
	Status       PropertyStatus              `gorm:"size:20;not null;default:available;index;index:idx_properties_status_listing,priority:1;index:idx_properties_type_status,priority:2" json:"status"`
	OwnerID      uint                        `gorm:"not null;index" json:"owner_id"`
	Owner        *User                       `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" json:"owner,omitempty"`
	CreatedAt    time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`

	// Agents is materialised explicitly by the store, never by GORM.
	Agents []User `gorm:"-" json:"agents"`
}

// HasAgent reports whether userID is in the loaded agent set.
func (p *Property) HasAgent(userID uint) bool {
	for _, a := range p.Agents {
		if a.ID == userID {
			return true
		}
	}
	return false
}

func (p *Property) AgentIDs() []uint {
	ids := make([]uint, 0, len(p.Agents))
	for _, a := range p.Agents {
		ids = append(ids, a.ID)
	}
	return ids
}
