package filter

// Field carries one recognized value plus the literal transcript substrings
// that justified it. An absent (nil) Field means "no new information", which
// is different from a present zero value.
type Field[T any] struct {
	Value      T
	SourceText []string
}

// NewField is a convenience constructor used by the spotter and tests.
func NewField[T any](v T, source ...string) *Field[T] {
	return &Field[T]{Value: v, SourceText: source}
}

// Update is a sparse set of field assignments. It is never a full-state
// overwrite: nil fields leave the accumulated value untouched.
type Update struct {
	Location         *Field[string]
	LocationRadiusKm *Field[float64]
	PropertyType     *Field[PropertyType]
	ListingType      *Field[ListingType]
	PriceMin         *Field[float64]
	PriceMax         *Field[float64]
	BedroomsMin      *Field[int]
	BathroomsMin     *Field[int]
	SizeMin          *Field[float64]
	SizeMax          *Field[float64]
	Style            *Field[string]
	Amenities        *Field[[]Amenity]
	Tags             *Field[[]Tag]
}

// IsEmpty reports whether the update carries no assignments at all.
func (u Update) IsEmpty() bool {
	return u.Location == nil &&
		u.LocationRadiusKm == nil &&
		u.PropertyType == nil &&
		u.ListingType == nil &&
		u.PriceMin == nil &&
		u.PriceMax == nil &&
		u.BedroomsMin == nil &&
		u.BathroomsMin == nil &&
		u.SizeMin == nil &&
		u.SizeMax == nil &&
		u.Style == nil &&
		(u.Amenities == nil || len(u.Amenities.Value) == 0) &&
		(u.Tags == nil || len(u.Tags.Value) == 0)
}
