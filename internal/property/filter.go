package property

import (
	"strings"

	"marketplace-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Filter keys accepted from callers.
const (
	KeySearch      = "search"
	KeyType        = "type"
	KeyListingType = "listing_type"
	KeyStatus      = "status"
	KeyMinPrice    = "min_price"
	KeyMaxPrice    = "max_price"
)

// Filters narrows a listing. Zero values mean "not provided".
type Filters struct {
	Search      string
	Type        models.PropertyType
	ListingType models.ListingType
	Status      models.PropertyStatus
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

// ParseFilters reads the filter keys from q. Empty, unknown or malformed
// values are dropped rather than reported.
func ParseFilters(q map[string]string) Filters {
	var f Filters
	f.Search = strings.TrimSpace(q[KeySearch])

	if t := models.PropertyType(strings.TrimSpace(q[KeyType])); t.Valid() {
		f.Type = t
	}
	if l := models.ListingType(strings.TrimSpace(q[KeyListingType])); l.Valid() {
		f.ListingType = l
	}
	if s := models.PropertyStatus(strings.TrimSpace(q[KeyStatus])); s.Valid() {
		f.Status = s
	}
	f.MinPrice = parsePrice(q[KeyMinPrice])
	f.MaxPrice = parsePrice(q[KeyMaxPrice])
	return f
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// Apply adds the filter clauses to db. The caller applies the role scope
// first; everything here is ANDed onto it.
func (f Filters) Apply(db *gorm.DB) *gorm.DB {
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		db = db.Where(
			"(LOWER(properties.title) LIKE ? OR LOWER(properties.address) LIKE ? OR LOWER(properties.description) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if f.Type != "" {
		db = db.Where("properties.type = ?", f.Type)
	}
	if f.ListingType != "" {
		db = db.Where("properties.listing_type = ?", f.ListingType)
	}
	if f.Status != "" {
		db = db.Where("properties.status = ?", f.Status)
	}
	if f.MinPrice != nil {
		db = db.Where("properties.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("properties.price <= ?", *f.MaxPrice)
	}
	return db
}

// Values echoes the applied filters back in their wire form.
func (f Filters) Values() map[string]string {
	out := make(map[string]string)
	if f.Search != "" {
		out[KeySearch] = f.Search
	}
	if f.Type != "" {
		out[KeyType] = string(f.Type)
	}
	if f.ListingType != "" {
		out[KeyListingType] = string(f.ListingType)
	}
	if f.Status != "" {
		out[KeyStatus] = string(f.Status)
	}
	if f.MinPrice != nil {
		out[KeyMinPrice] = f.MinPrice.String()
	}
	if f.MaxPrice != nil {
		out[KeyMaxPrice] = f.MaxPrice.String()
	}
	return out
}
