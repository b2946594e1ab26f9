package property

import (
	"strings"
	"testing"

	"marketplace-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(s string) *string { return &s }

func validInput() Input {
	return Input{
		Type:        "house",
		Title:       "Rumah Menteng",
		Address:     "Jl. Menteng 1",
		Price:       dec(1_000_000_000),
		ListingType: "sale",
		Description: "Quiet street",
	}
}

func TestValidate_OK(t *testing.T) {
	in := validInput()
	assert.Nil(t, in.Validate())
}

func TestValidate_RentRequiresPeriod(t *testing.T) {
	in := validInput()
	in.ListingType = "rent"

	verr := in.Validate()
	require.NotNil(t, verr)
	assert.Equal(t, "Rent period is required for rental properties.", verr.Fields["rent_period"])

	in.RentPeriod = strPtr("weekly")
	verr = in.Validate()
	require.NotNil(t, verr)
	assert.Equal(t, "Rent period must be monthly or yearly.", verr.Fields["rent_period"])

	in.RentPeriod = strPtr("yearly")
	assert.Nil(t, in.Validate())
}

func TestValidate_ReportsEveryField(t *testing.T) {
	in := Input{
		Type:         "castle",
		Title:        strings.Repeat("x", 256),
		Price:        dec(-1),
		ListingType:  "lease",
		LandArea:     dec(-5),
		BuildingArea: dec(-5),
		Bedrooms:     new(int),
		Photos:       []string{"https://img.example/1.jpg", " "},
		Status:       strPtr("reserved"),
	}
	*in.Bedrooms = -1

	verr := in.Validate()
	require.NotNil(t, verr)

	for _, field := range []string{
		"type", "title", "address", "price", "listing_type", "land_area",
		"building_area", "bedrooms", "description", "photos", "status",
	} {
		assert.Contains(t, verr.Fields, field)
	}
	assert.NotContains(t, verr.Fields, "rent_period")
	assert.NotContains(t, verr.Fields, "bathrooms")
	assert.Contains(t, verr.Error(), "validation failed: address:")
}

func TestApplyTo_SaleDropsRentPeriod(t *testing.T) {
	in := validInput()
	in.RentPeriod = strPtr("monthly")
	require.Nil(t, in.Validate())

	var p models.Property
	in.applyTo(&p)

	assert.Nil(t, p.RentPeriod)
	assert.Equal(t, models.StatusAvailable, p.Status)
	assert.False(t, p.LandArea.Valid)
}

func TestApplyTo_KeepsStatusWhenOmitted(t *testing.T) {
	in := validInput()
	p := models.Property{Status: models.StatusSold}
	in.applyTo(&p)
	assert.Equal(t, models.StatusSold, p.Status)

	in.Status = strPtr("rented")
	in.applyTo(&p)
	assert.Equal(t, models.StatusRented, p.Status)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, uniqueIDs([]uint{3, 1, 3, 0, 2, 1}))
	assert.Empty(t, uniqueIDs(nil))
}
