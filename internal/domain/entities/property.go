package entities

import "time"

// PropertyStatus is the moderation/lifecycle state of a listing.
// Deleted is terminal for query visibility: soft-deleted listings never
// appear on any search surface. Only approved listings are eligible for
// the public top/recommended/similar surfaces.
type PropertyStatus string

const (
	StatusPending  PropertyStatus = "pending"
	StatusApproved PropertyStatus = "approved"
	StatusRejected PropertyStatus = "rejected"
	StatusRented   PropertyStatus = "rented"
	StatusSold     PropertyStatus = "sold"
	StatusDeleted  PropertyStatus = "deleted"
)

// PropertyPurpose distinguishes sale listings from rentals.
type PropertyPurpose string

const (
	PurposeSale PropertyPurpose = "sale"
	PurposeRent PropertyPurpose = "rent"
)

// Location is the nested address block of a listing. Country, city and
// address are required; coordinates are optional.
type Location struct {
	Country   string  `json:"country"`
	City      string  `json:"city"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Review is an embedded buyer review on a listing.
type Review struct {
	UserID  string    `json:"userId"`
	Rating  float64   `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// Property represents a marketplace listing
type Property struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	PropertyType   string          `json:"propertyType"`
	Purpose        PropertyPurpose `json:"purpose"`
	Price          float64         `json:"price"`
	Status         PropertyStatus  `json:"status"`
	Featured       bool            `json:"featured"`
	TotalArea      float64         `json:"totalArea"`
	TotalBedrooms  int             `json:"totalBedrooms"`
	TotalBathrooms int             `json:"totalBathrooms"`
	TotalGarages   int             `json:"totalGarages"`
	TotalKitchens  int             `json:"totalKitchens"`
	Location       Location        `json:"location"`
	Amenities      []string        `json:"amenities,omitempty"`
	Thumbnail      string          `json:"thumbnail,omitempty"`
	SliderImages   []string        `json:"sliderImages,omitempty"`
	OwnerID        string          `json:"ownerId"`
	Reviews        []Review        `json:"reviews,omitempty"`

	// AvgRating is derived from Reviews by the rating decorator and never
	// persisted.
	AvgRating float64 `json:"avgRating"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsActive reports whether the listing is publicly visible.
func (p *Property) IsActive() bool {
	return p.Status == StatusApproved
}
