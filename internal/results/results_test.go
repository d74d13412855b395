package results

import (
	"strings"
	"testing"
	"time"

	"github.com/danmarauda/hausvoice/internal/filter"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestProjectCountAndDefaults(t *testing.T) {
	p := NewSeededMockProjector(1, fixedNow)
	got := p.Project(filter.Criteria{})

	if len(got) < 3 || len(got) > 4 {
		t.Fatalf("len = %d, want 3 or 4", len(got))
	}
	if got[0].Tag != "New" {
		t.Errorf("first listing tag = %q, want New", got[0].Tag)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Tag != "" {
			t.Errorf("listing %d tag = %q, want none", i, got[i].Tag)
		}
	}
	for i, l := range got {
		if l.Location == "" || l.Price == "" || l.Details == "" {
			t.Errorf("listing %d has empty fields: %+v", i, l)
		}
		if !strings.Contains(l.ImageURL, "picsum.photos") {
			t.Errorf("listing %d image = %q", i, l.ImageURL)
		}
	}
}

func TestProjectHonorsCriteria(t *testing.T) {
	loc := "Sydney"
	pt := filter.Apartment
	beds := 2
	p := NewSeededMockProjector(7, fixedNow)

	got := p.Project(filter.Criteria{
		Location:     &loc,
		PropertyType: &pt,
		BedroomsMin:  &beds,
		Amenities:    []filter.Amenity{"Pool"},
	})

	for i, l := range got {
		if l.Location != "Sydney" {
			t.Errorf("listing %d location = %q", i, l.Location)
		}
		if !strings.HasPrefix(l.Details, "2 bd") {
			t.Errorf("listing %d details = %q, want 2 bd prefix", i, l.Details)
		}
		if !strings.Contains(l.Title, "Apartment") || !strings.Contains(l.Title, "Pool") {
			t.Errorf("listing %d title = %q", i, l.Title)
		}
	}
}

func TestProjectRentPriceClamped(t *testing.T) {
	lt := filter.ForRent
	min, max := 3000.0, 5000.0

	for seed := int64(0); seed < 10; seed++ {
		p := NewSeededMockProjector(seed, fixedNow)
		got := p.Project(filter.Criteria{ListingType: &lt, PriceMin: &min, PriceMax: &max})
		for i, l := range got {
			if !strings.HasSuffix(l.Price, "/mo") {
				t.Fatalf("seed %d listing %d price = %q, want rent display", seed, i, l.Price)
			}
			switch l.Price {
			case "$3,000/mo", "$3,100/mo", "$3,200/mo", "$3,300/mo", "$3,400/mo",
				"$3,500/mo", "$3,600/mo", "$3,700/mo", "$3,800/mo", "$3,900/mo",
				"$4,000/mo", "$4,100/mo", "$4,200/mo", "$4,300/mo", "$4,400/mo",
				"$4,500/mo", "$4,600/mo", "$4,700/mo", "$4,800/mo", "$4,900/mo",
				"$5,000/mo":
			default:
				t.Errorf("seed %d listing %d price = %q outside clamped range", seed, i, l.Price)
			}
		}
	}
}

func TestProjectSalePriceFormat(t *testing.T) {
	max := 1000000.0
	p := NewSeededMockProjector(3, fixedNow)
	got := p.Project(filter.Criteria{PriceMax: &max})
	for i, l := range got {
		if !strings.HasPrefix(l.Price, "$") || !strings.HasSuffix(l.Price, "M") {
			t.Errorf("listing %d price = %q, want $x.xxM", i, l.Price)
		}
	}
}
