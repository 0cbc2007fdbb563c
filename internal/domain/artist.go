package domain

// Location is a physical place an artist or studio works from.
// Latitude/longitude drive the search index geo field. Geohash is authored
// independently in the source data and is never derived from lat/lon here.
type Location struct {
	City      string  `json:"city" validate:"required"`
	Country   string  `json:"country" validate:"required,iso3166_1_alpha2"`
	Postcode  string  `json:"postcode,omitempty"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Geohash   string  `json:"geohash,omitempty"`
}

// PricingTier buckets an artist's hourly rate for filtering.
type PricingTier string

const (
	PricingBudget   PricingTier = "budget"
	PricingMidRange PricingTier = "mid-range"
	PricingPremium  PricingTier = "premium"
	PricingLuxury   PricingTier = "luxury"
)

// PricingTiers is the fixed cycle used when a scenario asks for pricing
// variety across its selection.
var PricingTiers = []PricingTier{PricingBudget, PricingMidRange, PricingPremium, PricingLuxury}

// IsValid checks if the tier is a recognized value.
func (p PricingTier) IsValid() bool {
	switch p {
	case PricingBudget, PricingMidRange, PricingPremium, PricingLuxury:
		return true
	default:
		return false
	}
}

// Artist is the primary search-relevant entity. Artists are written to both
// the primary store and the search index; studios and styles only to the
// primary store.
type Artist struct {
	Record
	Name            string      `json:"name" validate:"required"`
	Handle          string      `json:"handle" validate:"required,handle"`
	Bio             string      `json:"bio,omitempty"`
	Styles          []string    `json:"styles" validate:"required,min=1,dive,required"`
	StudioID        string      `json:"studio_id,omitempty"`
	Location        Location    `json:"location"`
	Rating          float64     `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount     int         `json:"review_count" validate:"gte=0"`
	Pricing         PricingTier `json:"pricing,omitempty"`
	PortfolioImages []string    `json:"portfolio_images,omitempty"`
	Instagram       string      `json:"instagram,omitempty"`
}
