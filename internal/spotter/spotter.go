// Package spotter implements synchronous keyword spotting over transcript
// fragments. It gives the user immediate feedback on listing type, property
// type, room counts and amenities while the extraction oracle call is still
// in flight.
package spotter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/danmarauda/hausvoice/internal/filter"
)

type listingKeyword struct {
	keyword string
	value   filter.ListingType
}

type propertyKeyword struct {
	keyword string
	value   filter.PropertyType
}

type amenityKeyword struct {
	keyword string
	value   filter.Amenity
}

// Keyword tables are ordered slices: scan order is table order and the first
// match wins for the scalar categories.
var listingTypeKeywords = []listingKeyword{
	{"buy", filter.ForSale},
	{"purchase", filter.ForSale},
	{"sell", filter.ForSale},
	{"sale", filter.ForSale},
	{"rent", filter.ForRent},
	{"lease", filter.ForLease},
}

var propertyTypeKeywords = []propertyKeyword{
	{"townhouse", filter.Townhouse},
	{"townhome", filter.Townhouse},
	{"penthouse", filter.Loft},
	{"loft", filter.Loft},
	{"condominium", filter.Condo},
	{"condo", filter.Condo},
	{"apartment", filter.Apartment},
	{"studio", filter.Apartment},
	{"office building", filter.Commercial},
	{"retail space", filter.Commercial},
	{"commercial", filter.Commercial},
	{"house", filter.House},
	{"home", filter.House},
	{"villa", filter.House},
}

// Room counts are spotted as "<count> bed(room)(s)" with the count either a
// digit run or a spelled-out small number, optionally hyphenated.
var (
	bedroomPattern  = regexp.MustCompile(`\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten)[\s-]*bed(?:room)?s?\b`)
	bathroomPattern = regexp.MustCompile(`\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten)[\s-]*bath(?:room)?s?\b`)
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var amenityKeywords = buildAmenityKeywords()

// Keywords match on word boundaries, not substrings: "apartment" must not
// trigger the "rent" keyword and "place" must not trigger "ac".
var keywordPatterns = buildKeywordPatterns()

func buildKeywordPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, lk := range listingTypeKeywords {
		out[lk.keyword] = wordPattern(lk.keyword)
	}
	for _, pk := range propertyTypeKeywords {
		out[pk.keyword] = wordPattern(pk.keyword)
	}
	for _, ak := range amenityKeywords {
		out[ak.keyword] = wordPattern(ak.keyword)
	}
	return out
}

func wordPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
}

func matches(lower, keyword string) bool {
	return keywordPatterns[keyword].MatchString(lower)
}

func buildAmenityKeywords() []amenityKeyword {
	var out []amenityKeyword
	for _, a := range filter.Amenities {
		out = append(out, amenityKeyword{strings.ToLower(string(a)), a})
		if label := strings.ToLower(a.Label()); label != strings.ToLower(string(a)) {
			out = append(out, amenityKeyword{label, a})
		}
	}
	// Spoken-form aliases that don't match key or label verbatim.
	out = append(out,
		amenityKeyword{"pet friendly", "Pets Allowed"},
		amenityKeyword{"air conditioning", "AC"},
		amenityKeyword{"ev charger", "EV Charging"},
		amenityKeyword{"in unit laundry", "Laundry"},
		amenityKeyword{"office", "Home Office"},
	)
	return out
}

// Spot scans a fragment for known keywords and returns the candidate partial
// update. It is a pure function: merging and glow timers are the caller's
// responsibility. No matches is a valid empty result, not a failure.
//
// At most one listing type and one property type are emitted per call (first
// table entry contained in the fragment wins); amenities may match several
// times, but amenities already present in current are skipped so repeated
// fragments are no-ops.
func Spot(fragment string, current filter.Criteria) filter.Update {
	var u filter.Update
	lower := strings.ToLower(fragment)
	if strings.TrimSpace(lower) == "" {
		return u
	}

	for _, lk := range listingTypeKeywords {
		if matches(lower, lk.keyword) {
			u.ListingType = filter.NewField(lk.value, lk.keyword)
			break
		}
	}
	for _, pk := range propertyTypeKeywords {
		if matches(lower, pk.keyword) {
			u.PropertyType = filter.NewField(pk.value, pk.keyword)
			break
		}
	}

	if n, src, ok := spotCount(lower, bedroomPattern); ok {
		u.BedroomsMin = filter.NewField(n, src)
	}
	if n, src, ok := spotCount(lower, bathroomPattern); ok {
		u.BathroomsMin = filter.NewField(n, src)
	}

	var found []filter.Amenity
	var sources []string
	seen := make(map[filter.Amenity]struct{})
	for _, ak := range amenityKeywords {
		if !matches(lower, ak.keyword) {
			continue
		}
		if _, dup := seen[ak.value]; dup || current.HasAmenity(ak.value) {
			continue
		}
		seen[ak.value] = struct{}{}
		found = append(found, ak.value)
		sources = append(sources, ak.keyword)
	}
	if len(found) > 0 {
		u.Amenities = filter.NewField(found, sources...)
	}

	return u
}

func spotCount(lower string, pat *regexp.Regexp) (int, string, bool) {
	m := pat.FindStringSubmatch(lower)
	if m == nil {
		return 0, "", false
	}
	if n, ok := numberWords[m[1]]; ok {
		return n, m[0], true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, "", false
	}
	return n, m[0], true
}
