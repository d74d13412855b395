package filter

import "strings"

// PropertyType is one of the normalized property categories.
type PropertyType string

const (
	House      PropertyType = "House"
	Apartment  PropertyType = "Apartment"
	Condo      PropertyType = "Condo"
	Townhouse  PropertyType = "Townhouse"
	Loft       PropertyType = "Loft"
	Commercial PropertyType = "Commercial"
)

// PropertyTypes lists all valid property categories in display order.
var PropertyTypes = []PropertyType{House, Apartment, Condo, Townhouse, Loft, Commercial}

// ListingType is the transaction type of a search.
type ListingType string

const (
	ForSale  ListingType = "For Sale"
	ForRent  ListingType = "For Rent"
	ForLease ListingType = "For Lease"
)

// ListingTypes lists all valid listing types in display order.
var ListingTypes = []ListingType{ForSale, ForRent, ForLease}

// Amenity is a canonical amenity key.
type Amenity string

// Amenities lists every recognized amenity in display order. Both the key and
// the display label resolve to the key during parsing.
var Amenities = []Amenity{
	"Pool", "Pets Allowed", "Garage", "Garden", "Gym", "Doorman", "Balcony",
	"Waterfront", "AC", "Parking", "Modern", "City View", "Fireplace",
	"Laundry", "Furnished", "Dishwasher", "Hardwood Floors", "Storage",
	"Wheelchair Accessible", "EV Charging", "Gated Community",
	"Security System", "Solar Panels", "Wine Cellar", "Home Office",
	"High Ceilings", "Central Heating", "Elevator", "Fenced Yard",
}

// AmenityLabels maps amenity keys to their short display labels where they
// differ from the key itself.
var AmenityLabels = map[Amenity]string{
	"Pets Allowed":          "Pet-Friendly",
	"Laundry":               "In-unit Laundry",
	"Wheelchair Accessible": "Accessible",
	"Gated Community":       "Gated",
	"Security System":       "Security",
	"Central Heating":       "Heating",
}

// Label returns the display label for an amenity.
func (a Amenity) Label() string {
	if l, ok := AmenityLabels[a]; ok {
		return l
	}
	return string(a)
}

// Tag is one of the permanent listing tags. Tags are toggled by direct user
// action, never by voice recognition, and survive session resets.
type Tag string

const (
	TagNew       Tag = "new"
	TagPremium   Tag = "premium"
	TagOpenHouse Tag = "open-house"
	TagAuction   Tag = "auction"
)

// Tags lists all valid permanent tags in display order.
var Tags = []Tag{TagNew, TagPremium, TagOpenHouse, TagAuction}

// ParsePropertyType resolves a free-form string to a property category.
func ParsePropertyType(s string) (PropertyType, bool) {
	for _, pt := range PropertyTypes {
		if strings.EqualFold(s, string(pt)) {
			return pt, true
		}
	}
	return "", false
}

// ParseListingType resolves a free-form string to a listing type.
func ParseListingType(s string) (ListingType, bool) {
	for _, lt := range ListingTypes {
		if strings.EqualFold(s, string(lt)) {
			return lt, true
		}
	}
	return "", false
}

// ParseAmenity resolves a free-form string to a canonical amenity. Both the
// key and the display label are accepted, case-insensitively.
func ParseAmenity(s string) (Amenity, bool) {
	for _, a := range Amenities {
		if strings.EqualFold(s, string(a)) || strings.EqualFold(s, a.Label()) {
			return a, true
		}
	}
	return "", false
}

// ParseTag resolves a string to a permanent tag.
func ParseTag(s string) (Tag, bool) {
	for _, t := range Tags {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}
