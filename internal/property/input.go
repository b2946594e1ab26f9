package property

import (
	"strings"
	"unicode/utf8"

	"marketplace-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Input is the create/update payload. Both operations replace every field;
// a nil Status keeps the stored status (available on create) and a nil
// OwnerID keeps the stored owner (the caller, for principals on create).
type Input struct {
	Type         string           `json:"type"`
	Title        string           `json:"title"`
	Address      string           `json:"address"`
	Price        *decimal.Decimal `json:"price"`
	ListingType  string           `json:"listing_type"`
	RentPeriod   *string          `json:"rent_period"`
	LandArea     *decimal.Decimal `json:"land_area"`
	BuildingArea *decimal.Decimal `json:"building_area"`
	Bedrooms     *int             `json:"bedrooms"`
	Bathrooms    *int             `json:"bathrooms"`
	Description  string           `json:"description"`
	Photos       []string         `json:"photos"`
	Status       *string          `json:"status"`
	OwnerID      *uint            `json:"owner_id"`
	AgentIDs     []uint           `json:"agent_ids"`
}

const maxTitleLength = 255

// Validate checks field constraints that need no storage lookups.
func (in *Input) Validate() *ValidationError {
	verr := &ValidationError{}

	in.Title = strings.TrimSpace(in.Title)
	in.Address = strings.TrimSpace(in.Address)
	in.Description = strings.TrimSpace(in.Description)

	switch t := models.PropertyType(strings.TrimSpace(in.Type)); {
	case t == "":
		verr.add("type", "Property type is required.")
	case !t.Valid():
		verr.add("type", "Please select a valid property type.")
	}

	if in.Title == "" {
		verr.add("title", "Property title is required.")
	} else if utf8.RuneCountInString(in.Title) > maxTitleLength {
		verr.add("title", "Property title may not be greater than 255 characters.")
	}

	if in.Address == "" {
		verr.add("address", "Property address is required.")
	}

	if in.Price == nil {
		verr.add("price", "Property price is required.")
	} else if in.Price.IsNegative() {
		verr.add("price", "Price must be greater than or equal to 0.")
	}

	listing := models.ListingType(strings.TrimSpace(in.ListingType))
	switch {
	case listing == "":
		verr.add("listing_type", "Please specify if this property is for sale or rent.")
	case !listing.Valid():
		verr.add("listing_type", "Listing type must be sale or rent.")
	}

	period := ""
	if in.RentPeriod != nil {
		period = strings.TrimSpace(*in.RentPeriod)
	}
	if listing == models.ListingRent {
		switch {
		case period == "":
			verr.add("rent_period", "Rent period is required for rental properties.")
		case !models.RentPeriod(period).Valid():
			verr.add("rent_period", "Rent period must be monthly or yearly.")
		}
	}

	if in.LandArea != nil && in.LandArea.IsNegative() {
		verr.add("land_area", "Land area must be greater than or equal to 0.")
	}
	if in.BuildingArea != nil && in.BuildingArea.IsNegative() {
		verr.add("building_area", "Building area must be greater than or equal to 0.")
	}
	if in.Bedrooms != nil && *in.Bedrooms < 0 {
		verr.add("bedrooms", "Bedrooms must be at least 0.")
	}
	if in.Bathrooms != nil && *in.Bathrooms < 0 {
		verr.add("bathrooms", "Bathrooms must be at least 0.")
	}

	if in.Description == "" {
		verr.add("description", "Property description is required.")
	}

	for _, photo := range in.Photos {
		if strings.TrimSpace(photo) == "" {
			verr.add("photos", "Photos must be non-empty URL strings.")
			break
		}
	}

	if in.Status != nil && *in.Status != "" && !models.PropertyStatus(*in.Status).Valid() {
		verr.add("status", "Status must be available, sold or rented.")
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

// applyTo copies validated fields onto p. Owner and agents are handled by
// the service.
func (in *Input) applyTo(p *models.Property) {
	p.Type = models.PropertyType(strings.TrimSpace(in.Type))
	p.Title = in.Title
	p.Address = in.Address
	p.Price = *in.Price
	p.ListingType = models.ListingType(strings.TrimSpace(in.ListingType))

	p.RentPeriod = nil
	if p.ListingType == models.ListingRent {
		period := models.RentPeriod(strings.TrimSpace(*in.RentPeriod))
		p.RentPeriod = &period
	}

	p.LandArea = nullDecimal(in.LandArea)
	p.BuildingArea = nullDecimal(in.BuildingArea)
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.Description = in.Description

	p.Photos = nil
	if in.Photos != nil {
		p.Photos = make([]string, 0, len(in.Photos))
		for _, photo := range in.Photos {
			p.Photos = append(p.Photos, strings.TrimSpace(photo))
		}
	}

	if in.Status != nil && *in.Status != "" {
		p.Status = models.PropertyStatus(*in.Status)
	}
	if p.Status == "" {
		p.Status = models.StatusAvailable
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// uniqueIDs drops zero and repeated ids, keeping first-seen order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
