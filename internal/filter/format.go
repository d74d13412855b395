package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatValue renders a scalar criteria field for display, or "" when unset.
func FormatValue(c Criteria, k Key) string {
	switch k {
	case KeyLocation:
		if c.Location != nil {
			return *c.Location
		}
	case KeyLocationRadiusKm:
		if c.LocationRadiusKm != nil {
			return fmt.Sprintf("Within %s km", trimFloat(*c.LocationRadiusKm))
		}
	case KeyPropertyType:
		if c.PropertyType != nil {
			return string(*c.PropertyType)
		}
	case KeyListingType:
		if c.ListingType != nil {
			return string(*c.ListingType)
		}
	case KeyPriceMin:
		if c.PriceMin != nil {
			return fmt.Sprintf("$%.0fk+", *c.PriceMin/1000)
		}
	case KeyPriceMax:
		if c.PriceMax != nil {
			return fmt.Sprintf("Up to $%.0fk", *c.PriceMax/1000)
		}
	case KeyBedroomsMin:
		if c.BedroomsMin != nil {
			return fmt.Sprintf("%d+ beds", *c.BedroomsMin)
		}
	case KeyBathroomsMin:
		if c.BathroomsMin != nil {
			return fmt.Sprintf("%d+ baths", *c.BathroomsMin)
		}
	case KeySizeMin:
		if c.SizeMin != nil {
			return groupThousands(int64(math.Round(*c.SizeMin))) + "+ sqm"
		}
	case KeySizeMax:
		if c.SizeMax != nil {
			return "Up to " + groupThousands(int64(math.Round(*c.SizeMax))) + " sqm"
		}
	case KeyStyle:
		if c.Style != nil {
			return *c.Style
		}
	}
	return ""
}

// KeyLabel returns the display label for a scalar criteria key.
func KeyLabel(k Key) string {
	switch k {
	case KeyLocation:
		return "Location"
	case KeyLocationRadiusKm:
		return "Radius"
	case KeyPropertyType:
		return "Property"
	case KeyListingType:
		return "Type"
	case KeyPriceMin:
		return "Min Price"
	case KeyPriceMax:
		return "Max Price"
	case KeyBedroomsMin:
		return "Bedrooms"
	case KeyBathroomsMin:
		return "Bathrooms"
	case KeySizeMin:
		return "Min Size"
	case KeySizeMax:
		return "Max Size"
	case KeyStyle:
		return "Style"
	}
	return string(k)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
