package oracle

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/danmarauda/hausvoice/internal/filter"
)

// Wire types for the oracle response: every recognized field is an object
// carrying the value plus the source substrings that justified it.
type wireString struct {
	Value      *string  `json:"value"`
	SourceText []string `json:"sourceText"`
}

type wireNumber struct {
	Value      *float64 `json:"value"`
	SourceText []string `json:"sourceText"`
}

type wireList struct {
	Value      []string `json:"value"`
	SourceText []string `json:"sourceText"`
}

type wirePayload struct {
	Location         *wireString `json:"location"`
	LocationRadiusKm *wireNumber `json:"locationRadiusKm"`
	PropertyType     *wireString `json:"propertyType"`
	ListingType      *wireString `json:"listingType"`
	PriceMin         *wireNumber `json:"priceMin"`
	PriceMax         *wireNumber `json:"priceMax"`
	BedroomsMin      *wireNumber `json:"bedroomsMin"`
	BathroomsMin     *wireNumber `json:"bathroomsMin"`
	SizeMin          *wireNumber `json:"sizeMin"`
	SizeMax          *wireNumber `json:"sizeMax"`
	Style            *wireString `json:"style"`
	Amenities        *wireList   `json:"amenities"`
}

// decodeUpdate parses an oracle response into a partial update, validating
// enum-constrained fields at the boundary: entries the closed enumerations
// don't admit are dropped, never propagated.
func decodeUpdate(raw []byte) (filter.Update, error) {
	var u filter.Update

	payload := extractJSON(raw)
	var wire wirePayload
	if err := json.Unmarshal(payload, &wire); err != nil {
		return u, fmt.Errorf("unmarshal oracle payload: %w", err)
	}

	if f := wire.Location; f != nil && f.Value != nil {
		u.Location = &filter.Field[string]{Value: *f.Value, SourceText: f.SourceText}
	}
	if f := wire.LocationRadiusKm; f != nil && f.Value != nil {
		u.LocationRadiusKm = &filter.Field[float64]{Value: *f.Value, SourceText: f.SourceText}
	}
	if f := wire.PropertyType; f != nil && f.Value != nil {
		if pt, ok := filter.ParsePropertyType(*f.Value); ok {
			u.PropertyType = &filter.Field[filter.PropertyType]{Value: pt, SourceText: f.SourceText}
		}
	}
	if f := wire.ListingType; f != nil && f.Value != nil {
		if lt, ok := filter.ParseListingType(*f.Value); ok {
			u.ListingType = &filter.Field[filter.ListingType]{Value: lt, SourceText: f.SourceText}
		}
	}
	if f := wire.PriceMin; f != nil && f.Value != nil {
		u.PriceMin = &filter.Field[float64]{Value: *f.Value, SourceText: f.SourceText}
	}
	if f := wire.PriceMax; f != nil && f.Value != nil {
		u.PriceMax = &filter.Field[float64]{Value: *f.Value, SourceText: f.SourceText}
	}
	if f := wire.BedroomsMin; f != nil && f.Value != nil {
		u.BedroomsMin = &filter.Field[int]{Value: int(math.Round(*f.Value)), SourceText: f.SourceText}
	}
	if f := wire.BathroomsMin; f != nil && f.Value != nil {
		u.BathroomsMin = &filter.Field[int]{Value: int(math.Round(*f.Value)), SourceText: f.SourceText}
	}
	if f := wire.SizeMin; f != nil && f.Value != nil {
		u.SizeMin = &filter.Field[float64]{Value: *f.Value, SourceText: f.SourceText}
	}
	if f := wire.SizeMax; f != nil && f.Value != nil {
		u.SizeMax = &filter.Field[float64]{Value: *f.Value, SourceText: f.SourceText}
	}
	if f := wire.Style; f != nil && f.Value != nil {
		u.Style = &filter.Field[string]{Value: *f.Value, SourceText: f.SourceText}
	}
	if f := wire.Amenities; f != nil && len(f.Value) > 0 {
		var valid []filter.Amenity
		for _, raw := range f.Value {
			if a, ok := filter.ParseAmenity(raw); ok {
				valid = append(valid, a)
			}
		}
		if len(valid) > 0 {
			u.Amenities = &filter.Field[[]filter.Amenity]{Value: valid, SourceText: f.SourceText}
		}
	}

	return u, nil
}

// extractJSON tolerates models that wrap their JSON in markdown fences or
// surrounding prose: it returns the first balanced top-level object found, or
// the input unchanged when there is none.
func extractJSON(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))

	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			s = strings.TrimSpace(rest[:end])
		}
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return []byte(s)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return []byte(s[start : i+1])
			}
		}
	}
	return []byte(s)
}
