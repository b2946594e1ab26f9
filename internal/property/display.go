package property

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"marketplace-backend/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Indonesian grouping uses "." as the thousands separator.
var pricePrinter = message.NewPrinter(language.Indonesian)

// FormattedPrice renders the price rounded to whole rupiah, e.g.
// "Rp 5.000.000 / monthly" for a monthly rental.
func FormattedPrice(p *models.Property) string {
	whole := p.Price.Round(0).IntPart()
	s := "Rp " + pricePrinter.Sprintf("%d", whole)
	if p.ListingType == models.ListingRent && p.RentPeriod != nil && *p.RentPeriod != "" {
		s += " / " + string(*p.RentPeriod)
	}
	return s
}

func TypeDisplay(t models.PropertyType) string {
	switch t {
	case models.TypeHouse:
		return "House"
	case models.TypeLand:
		return "Land"
	case models.TypeWarehouse:
		return "Warehouse"
	case models.TypeShopHouse:
		return "Shop House"
	case models.TypeKiosk:
		return "Kiosk"
	case models.TypeBoardingHouse:
		return "Boarding House"
	case models.TypeBuilding:
		return "Building"
	case models.TypeApartment:
		return "Apartment"
	default:
		return upperFirst(string(t))
	}
}

type StatusLabel struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

func StatusDisplay(s models.PropertyStatus) StatusLabel {
	switch s {
	case models.StatusAvailable:
		return StatusLabel{Label: "Available", Color: "green"}
	case models.StatusSold:
		return StatusLabel{Label: "Sold", Color: "red"}
	case models.StatusRented:
		return StatusLabel{Label: "Rented", Color: "blue"}
	default:
		return StatusLabel{Label: upperFirst(string(s)), Color: "gray"}
	}
}

// upperFirst upper-cases only the first rune and leaves the rest untouched.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[size:])
	return b.String()
}
