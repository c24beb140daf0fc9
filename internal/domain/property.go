package domain

import "time"

// PropertyType is one of the fixed listing categories.
type PropertyType string

const (
	PropertyHouse      PropertyType = "House"
	PropertyApartment  PropertyType = "Apartment"
	PropertyVilla      PropertyType = "Villa"
	PropertyGarden     PropertyType = "Garden"
	PropertyHall       PropertyType = "Hall"
	PropertyEventSpace PropertyType = "Event Space"
)

// PropertyTypes lists every accepted property type in display order.
var PropertyTypes = []PropertyType{
	PropertyHouse, PropertyApartment, PropertyVilla, PropertyGarden, PropertyHall, PropertyEventSpace,
}

// Valid reports whether t is one of PropertyTypes.
func (t PropertyType) Valid() bool {
	for _, known := range PropertyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// PropertyStatus is the moderation state of a listing.
type PropertyStatus string

const (
	PropertyPending  PropertyStatus = "pending"
	PropertyActive   PropertyStatus = "active"
	PropertyInactive PropertyStatus = "inactive"
)

// Valid reports whether s is a known listing status.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyPending, PropertyActive, PropertyInactive:
		return true
	}
	return false
}

// Property is a rentable listing.
type Property struct {
	ID                   string         `json:"id"`
	OwnerID              string         `json:"owner_id"`
	Title                string         `json:"title"`
	Location             string         `json:"location"`
	Type                 PropertyType   `json:"property_type"`
	PricePerDay          float64        `json:"price_per_day"`
	Capacity             int            `json:"capacity"`
	Description          string         `json:"description"`
	Amenities            []string       `json:"amenities"`
	Rules                []string       `json:"rules,omitempty"`
	Images               []string       `json:"images"`
	Status               PropertyStatus `json:"status"`
	Verified             bool           `json:"verified"`
	BlockchainRegistered bool           `json:"blockchain_registered"`
	ContractAddress      *string        `json:"contract_address"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func (p Property) RecordID() string { return p.ID }

func (p *Property) SetUpdatedAt(t time.Time) { p.UpdatedAt = t }
