package spotter

import (
	"reflect"
	"testing"

	"github.com/danmarauda/hausvoice/internal/filter"
)

func TestSpotListingAndPropertyType(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		listing  filter.ListingType
		property filter.PropertyType
	}{
		{"buy a house", "I want to buy a house", filter.ForSale, filter.House},
		{"rent apartment", "looking to rent an apartment", filter.ForRent, filter.Apartment},
		{"lease condo", "lease a condominium downtown", filter.ForLease, filter.Condo},
		{"penthouse maps to loft", "luxury penthouse with a view", "", filter.Loft},
		{"townhome", "a townhome for sale", filter.ForSale, filter.Townhouse},
		{"case insensitive", "STUDIO FOR RENT", filter.ForRent, filter.Apartment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Spot(tt.fragment, filter.Criteria{})
			if tt.listing == "" {
				if u.ListingType != nil {
					t.Errorf("ListingType = %v, want none", u.ListingType.Value)
				}
			} else if u.ListingType == nil || u.ListingType.Value != tt.listing {
				t.Errorf("ListingType = %v, want %v", u.ListingType, tt.listing)
			}
			if tt.property == "" {
				if u.PropertyType != nil {
					t.Errorf("PropertyType = %v, want none", u.PropertyType.Value)
				}
			} else if u.PropertyType == nil || u.PropertyType.Value != tt.property {
				t.Errorf("PropertyType = %v, want %v", u.PropertyType, tt.property)
			}
		})
	}
}

func TestSpotFirstMatchWins(t *testing.T) {
	// "buy" precedes "rent" in table order, so a fragment containing both
	// yields For Sale.
	u := Spot("should I buy or rent", filter.Criteria{})
	if u.ListingType == nil || u.ListingType.Value != filter.ForSale {
		t.Errorf("ListingType = %v, want For Sale", u.ListingType)
	}
}

func TestSpotRoomCounts(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		beds     int
		baths    int
	}{
		{"spelled out", "a two bedroom apartment in Sydney", 2, 0},
		{"digits", "3 bedrooms and 2 baths", 3, 2},
		{"hyphenated", "a four-bedroom home", 4, 0},
		{"bare bed", "at least 2 beds", 2, 0},
		{"no count", "a bedroom with a view", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Spot(tt.fragment, filter.Criteria{})
			if tt.beds == 0 {
				if u.BedroomsMin != nil {
					t.Errorf("BedroomsMin = %v, want none", u.BedroomsMin.Value)
				}
			} else if u.BedroomsMin == nil || u.BedroomsMin.Value != tt.beds {
				t.Errorf("BedroomsMin = %v, want %d", u.BedroomsMin, tt.beds)
			}
			if tt.baths == 0 {
				if u.BathroomsMin != nil {
					t.Errorf("BathroomsMin = %v, want none", u.BathroomsMin.Value)
				}
			} else if u.BathroomsMin == nil || u.BathroomsMin.Value != tt.baths {
				t.Errorf("BathroomsMin = %v, want %d", u.BathroomsMin, tt.baths)
			}
		})
	}
}

func TestSpotAmenities(t *testing.T) {
	u := Spot("a place with a pool, gym and ev charger", filter.Criteria{})
	if u.Amenities == nil {
		t.Fatal("Amenities = nil, want matches")
	}
	want := []filter.Amenity{"Pool", "Gym", "EV Charging"}
	if !reflect.DeepEqual(u.Amenities.Value, want) {
		t.Errorf("Amenities = %v, want %v", u.Amenities.Value, want)
	}
}

func TestSpotSkipsPresentAmenities(t *testing.T) {
	current := filter.Criteria{Amenities: []filter.Amenity{"Pool"}}
	u := Spot("with a pool and garden", current)
	if u.Amenities == nil {
		t.Fatal("Amenities = nil, want Garden")
	}
	if !reflect.DeepEqual(u.Amenities.Value, []filter.Amenity{"Garden"}) {
		t.Errorf("Amenities = %v, want [Garden]", u.Amenities.Value)
	}
}

func TestSpotAliases(t *testing.T) {
	tests := []struct {
		fragment string
		want     filter.Amenity
	}{
		{"pet friendly please", "Pets Allowed"},
		{"needs air conditioning", "AC"},
		{"with an office", "Home Office"},
		{"in unit laundry required", "Laundry"},
	}
	for _, tt := range tests {
		u := Spot(tt.fragment, filter.Criteria{})
		if u.Amenities == nil || !containsAmenity(u.Amenities.Value, tt.want) {
			t.Errorf("Spot(%q): amenity %v not found (got %v)", tt.fragment, tt.want, u.Amenities)
		}
	}
}

func TestSpotEmptyFragment(t *testing.T) {
	if u := Spot("   ", filter.Criteria{}); !u.IsEmpty() {
		t.Errorf("Spot(blank) = %+v, want empty", u)
	}
	if u := Spot("nothing relevant here", filter.Criteria{}); !u.IsEmpty() {
		t.Errorf("Spot(no keywords) = %+v, want empty", u)
	}
}

func containsAmenity(list []filter.Amenity, want filter.Amenity) bool {
	for _, a := range list {
		if a == want {
			return true
		}
	}
	return false
}
