// Package results maps finalized search criteria to result listings. The only
// implementation is a deterministic-up-to-seed mock generator; the session
// machine depends on the Projector contract alone.
package results

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/danmarauda/hausvoice/internal/filter"
)

// Listing is one projected search result.
type Listing struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Location      string `json:"location"`
	Price         string `json:"price"`
	Details       string `json:"details"`
	Description   string `json:"description"`
	ImageURL      string `json:"imageUrl"`
	Tag           string `json:"tag,omitempty"`
	TourAvailable bool   `json:"tourAvailable"`
}

// Projector maps finalized criteria to an ordered list of results.
type Projector interface {
	Project(c filter.Criteria) []Listing
}

// MockProjector synthesizes plausible listings around the criteria. Injected
// randomness makes tests deterministic.
type MockProjector struct {
	rng *rand.Rand
	now func() time.Time
}

// NewMockProjector creates a projector seeded from the clock.
func NewMockProjector() *MockProjector {
	return &MockProjector{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// NewSeededMockProjector creates a projector with a fixed seed and clock for
// tests.
func NewSeededMockProjector(seed int64, now func() time.Time) *MockProjector {
	return &MockProjector{rng: rand.New(rand.NewSource(seed)), now: now}
}

var defaultLocations = []string{"Miami, FL", "Denver, CO", "San Francisco, CA", "Seattle, WA"}

var defaultTypes = []filter.PropertyType{filter.Condo, filter.House, filter.Loft, filter.Townhouse, filter.Apartment}

const sqftPerSqm = 10.7639

// Project generates three to four listings that satisfy the criteria,
// falling back to rotating defaults for unset fields.
func (m *MockProjector) Project(c filter.Criteria) []Listing {
	count := 3 + m.rng.Intn(2)
	base := m.now().UnixMilli()

	listings := make([]Listing, 0, count)
	for i := 0; i < count; i++ {
		id := base + int64(i)

		location := defaultLocations[i%len(defaultLocations)]
		if c.Location != nil {
			location = *c.Location
		}
		propertyType := defaultTypes[i%len(defaultTypes)]
		if c.PropertyType != nil {
			propertyType = *c.PropertyType
		}
		bedrooms := 2 + i
		if c.BedroomsMin != nil {
			bedrooms = *c.BedroomsMin
		}
		bathrooms := 1
		if bedrooms > 1 {
			bathrooms = bedrooms - 1
		}
		if c.BathroomsMin != nil {
			bathrooms = *c.BathroomsMin
		}

		sqft := m.squareFootage(c, bedrooms)

		title := fmt.Sprintf("Spacious %s", propertyType)
		if len(c.Amenities) > 0 {
			title = fmt.Sprintf("Modern %s with %s", propertyType, c.Amenities[0])
		}
		if c.Style != nil {
			title = fmt.Sprintf("%s %s", *c.Style, propertyType)
		}

		listing := Listing{
			ID:       id,
			Title:    title,
			Location: location,
			Price:    m.priceDisplay(c),
			Details:  fmt.Sprintf("%d bd • %d ba • %d sqft", bedrooms, bathrooms, sqft),
			Description: fmt.Sprintf(
				"Discover this stunning %s in the heart of %s. Featuring %d bedrooms and %d bathrooms, this property offers an expansive %d sqft of modern living space.",
				strings.ToLower(string(propertyType)), location, bedrooms, bathrooms, sqft),
			ImageURL:      fmt.Sprintf("https://picsum.photos/800/600?random=%d", id),
			TourAvailable: m.rng.Float64() > 0.5,
		}
		if i == 0 {
			listing.Tag = "New"
		}
		listings = append(listings, listing)
	}
	return listings
}

// squareFootage derives a display size in sqft; criteria sizes are square
// metres.
func (m *MockProjector) squareFootage(c filter.Criteria, bedrooms int) int {
	if c.SizeMin == nil && c.SizeMax == nil {
		return 1200 + bedrooms*400
	}
	minSqft := 0.0
	if c.SizeMin != nil {
		minSqft = *c.SizeMin * sqftPerSqm
	}
	maxSqft := minSqft + 1000
	if c.SizeMax != nil {
		maxSqft = *c.SizeMax * sqftPerSqm
	}
	if maxSqft < minSqft {
		maxSqft = minSqft
	}
	return int(math.Round(minSqft + m.rng.Float64()*(maxSqft-minSqft)))
}

// priceDisplay derives a price string inside the requested range, clamped to
// the bounds even when they are inverted.
func (m *MockProjector) priceDisplay(c filter.Criteria) string {
	forRent := c.ListingType != nil && (*c.ListingType == filter.ForRent || *c.ListingType == filter.ForLease)

	if forRent {
		lo, hi := 2000.0, 15000.0
		if c.PriceMin != nil {
			lo = *c.PriceMin
		}
		if c.PriceMax != nil {
			hi = *c.PriceMax
		}
		rent := lo + m.rng.Float64()*(hi-lo)
		rent = math.Round(rent/100) * 100
		if c.PriceMax != nil && rent > *c.PriceMax {
			rent = *c.PriceMax
		}
		if c.PriceMin != nil && rent < *c.PriceMin {
			rent = *c.PriceMin
		}
		return fmt.Sprintf("$%s/mo", groupThousands(int64(rent)))
	}

	lo, hi := 800000.0, 5000000.0
	if c.PriceMin != nil {
		lo = *c.PriceMin
	}
	if c.PriceMax != nil {
		hi = *c.PriceMax
	}
	price := lo + m.rng.Float64()*(hi-lo)
	if c.PriceMin != nil && c.PriceMax == nil {
		price = math.Max(price, *c.PriceMin)
	}
	if c.PriceMax != nil && c.PriceMin == nil {
		price = math.Min(price, *c.PriceMax)
	}
	price = math.Round(price/100000) * 100000
	if c.PriceMax != nil && price > *c.PriceMax {
		price = *c.PriceMax
	}
	if c.PriceMin != nil && price < *c.PriceMin {
		price = *c.PriceMin
	}
	return fmt.Sprintf("$%.2fM", price/1_000_000)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
