package property

import (
	"time"

	"marketplace-backend/internal/models"

	"github.com/shopspring/decimal"
)

type UserSummary struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
	Phone string          `json:"phone,omitempty"`
}

type PropertyResponse struct {
	ID             uint                  `json:"id"`
	Type           models.PropertyType   `json:"type"`
	TypeDisplay    string                `json:"type_display"`
	Title          string                `json:"title"`
	Address        string                `json:"address"`
	Price          decimal.Decimal       `json:"price"`
	FormattedPrice string                `json:"formatted_price"`
	ListingType    models.ListingType    `json:"listing_type"`
	RentPeriod     *models.RentPeriod    `json:"rent_period"`
	LandArea       decimal.NullDecimal   `json:"land_area"`
	BuildingArea   decimal.NullDecimal   `json:"building_area"`
	Bedrooms       *int                  `json:"bedrooms"`
	Bathrooms      *int                  `json:"bathrooms"`
	Description    string                `json:"description"`
	Photos         []string              `json:"photos"`
	Status         models.PropertyStatus `json:"status"`
	StatusDisplay  StatusLabel           `json:"status_display"`
	OwnerID        uint                  `json:"owner_id"`
	Owner          *UserSummary          `json:"owner"`
	Agents         []UserSummary         `json:"agents"`
	CreatedAt      string                `json:"created_at"`
	UpdatedAt      string                `json:"updated_at"`
}

type PageResponse struct {
	Data       []PropertyResponse `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

func NewUserSummary(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Phone: u.Phone}
}

func NewPropertyResponse(p *models.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:             p.ID,
		Type:           p.Type,
		TypeDisplay:    TypeDisplay(p.Type),
		Title:          p.Title,
		Address:        p.Address,
		Price:          p.Price,
		FormattedPrice: FormattedPrice(p),
		ListingType:    p.ListingType,
		RentPeriod:     p.RentPeriod,
		LandArea:       p.LandArea,
		BuildingArea:   p.BuildingArea,
		Bedrooms:       p.Bedrooms,
		Bathrooms:      p.Bathrooms,
		Description:    p.Description,
		Photos:         []string(p.Photos),
		Status:         p.Status,
		StatusDisplay:  StatusDisplay(p.Status),
		OwnerID:        p.OwnerID,
		Agents:         make([]UserSummary, 0, len(p.Agents)),
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Photos == nil {
		resp.Photos = []string{}
	}
	if p.Owner != nil {
		owner := NewUserSummary(p.Owner)
		resp.Owner = &owner
	}
	for i := range p.Agents {
		resp.Agents = append(resp.Agents, NewUserSummary(&p.Agents[i]))
	}
	return resp
}

func NewPropertyList(props []models.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(props))
	for i := range props {
		out = append(out, NewPropertyResponse(&props[i]))
	}
	return out
}

func NewPageResponse(p Page) PageResponse {
	return PageResponse{Data: NewPropertyList(p.Data), Pagination: p.Pagination}
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FormOptionsResponse struct {
	Owners        []UserSummary `json:"owners"`
	Agents        []UserSummary `json:"agents"`
	PropertyTypes []Option      `json:"property_types"`
	ListingTypes  []Option      `json:"listing_types"`
	RentPeriods   []Option      `json:"rent_periods"`
	Statuses      []Option      `json:"statuses"`
}

func newFormOptionsResponse(o *FormOptions) FormOptionsResponse {
	resp := FormOptionsResponse{
		Owners: make([]UserSummary, 0, len(o.Owners)),
		Agents: make([]UserSummary, 0, len(o.Agents)),
		ListingTypes: []Option{
			{Value: string(models.ListingSale), Label: "For Sale"},
			{Value: string(models.ListingRent), Label: "For Rent"},
		},
		RentPeriods: []Option{
			{Value: string(models.RentMonthly), Label: "Monthly"},
			{Value: string(models.RentYearly), Label: "Yearly"},
		},
	}
	for i := range o.Owners {
		resp.Owners = append(resp.Owners, NewUserSummary(&o.Owners[i]))
	}
	for i := range o.Agents {
		resp.Agents = append(resp.Agents, NewUserSummary(&o.Agents[i]))
	}
	for _, t := range models.PropertyTypes {
		resp.PropertyTypes = append(resp.PropertyTypes, Option{Value: string(t), Label: TypeDisplay(t)})
	}
	for _, s := range []models.PropertyStatus{models.StatusAvailable, models.StatusSold, models.StatusRented} {
		resp.Statuses = append(resp.Statuses, Option{Value: string(s), Label: StatusDisplay(s).Label})
	}
	return resp
}
