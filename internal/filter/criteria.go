// Package filter owns the canonical accumulated search criteria and the merge
// engine that folds sparse partial updates into them. Updates come from the
// keyword spotter (synchronous) and the extraction oracle (asynchronous);
// merging never clears a field that an update omits.
package filter

// Key identifies a criteria field for glow/highlight purposes. Scalar fields
// use the constants below; recognized amenities glow under their own canonical
// name.
type Key string

const (
	KeyLocation         Key = "location"
	KeyLocationRadiusKm Key = "locationRadiusKm"
	KeyPropertyType     Key = "propertyType"
	KeyListingType      Key = "listingType"
	KeyPriceMin         Key = "priceMin"
	KeyPriceMax         Key = "priceMax"
	KeyBedroomsMin      Key = "bedroomsMin"
	KeyBathroomsMin     Key = "bathroomsMin"
	KeySizeMin          Key = "sizeMin"
	KeySizeMax          Key = "sizeMax"
	KeyStyle            Key = "style"
)

// ScalarKeys lists the scalar criteria fields in display order.
var ScalarKeys = []Key{
	KeyLocation, KeyListingType, KeyPropertyType, KeyPriceMin, KeyPriceMax,
	KeyBedroomsMin, KeyBathroomsMin, KeySizeMin, KeySizeMax,
	KeyLocationRadiusKm, KeyStyle,
}

// Criteria is the accumulated search query. Every field is independently
// optional until set; nil means "not yet recognized". Amenities and Tags are
// ordered sets: membership is unique, insertion order is preserved for
// display.
type Criteria struct {
	Location         *string       `json:"location,omitempty"`
	LocationRadiusKm *float64      `json:"locationRadiusKm,omitempty"`
	PropertyType     *PropertyType `json:"propertyType,omitempty"`
	ListingType      *ListingType  `json:"listingType,omitempty"`
	PriceMin         *float64      `json:"priceMin,omitempty"`
	PriceMax         *float64      `json:"priceMax,omitempty"`
	BedroomsMin      *int          `json:"bedroomsMin,omitempty"`
	BathroomsMin     *int          `json:"bathroomsMin,omitempty"`
	SizeMin          *float64      `json:"sizeMin,omitempty"`
	SizeMax          *float64      `json:"sizeMax,omitempty"`
	Style            *string       `json:"style,omitempty"`
	Amenities        []Amenity     `json:"amenities,omitempty"`
	Tags             []Tag         `json:"tags,omitempty"`
}

// RecognizedCount reports how many criteria have been recognized so far.
// Permanent tags do not count: they are toggled by direct user action and are
// not evidence that the voice session produced anything to confirm.
func (c Criteria) RecognizedCount() int {
	n := 0
	for _, p := range []bool{
		c.Location != nil,
		c.LocationRadiusKm != nil,
		c.PropertyType != nil,
		c.ListingType != nil,
		c.PriceMin != nil,
		c.PriceMax != nil,
		c.BedroomsMin != nil,
		c.BathroomsMin != nil,
		c.SizeMin != nil,
		c.SizeMax != nil,
		c.Style != nil,
	} {
		if p {
			n++
		}
	}
	return n + len(c.Amenities)
}

// HasAmenity reports set membership.
func (c Criteria) HasAmenity(a Amenity) bool {
	for _, x := range c.Amenities {
		if x == a {
			return true
		}
	}
	return false
}

// HasTag reports set membership.
func (c Criteria) HasTag(t Tag) bool {
	for _, x := range c.Tags {
		if x == t {
			return true
		}
	}
	return false
}

// clone returns a deep copy so snapshots never alias the accumulator's state.
func (c Criteria) clone() Criteria {
	out := c
	out.Location = clonePtr(c.Location)
	out.LocationRadiusKm = clonePtr(c.LocationRadiusKm)
	out.PropertyType = clonePtr(c.PropertyType)
	out.ListingType = clonePtr(c.ListingType)
	out.PriceMin = clonePtr(c.PriceMin)
	out.PriceMax = clonePtr(c.PriceMax)
	out.BedroomsMin = clonePtr(c.BedroomsMin)
	out.BathroomsMin = clonePtr(c.BathroomsMin)
	out.SizeMin = clonePtr(c.SizeMin)
	out.SizeMax = clonePtr(c.SizeMax)
	out.Style = clonePtr(c.Style)
	out.Amenities = append([]Amenity(nil), c.Amenities...)
	out.Tags = append([]Tag(nil), c.Tags...)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
