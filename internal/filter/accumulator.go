package filter

import (
	"strings"
	"sync"
)

// Accumulator is the merge engine. It owns the canonical Criteria, applies
// partial updates with per-field merge rules, and tracks the running union of
// transcript substrings that justified recognized fields.
//
// All methods are safe for concurrent use, though in practice the session
// machine is the single writer.
type Accumulator struct {
	mu         sync.Mutex
	criteria   Criteria
	highlights []string
	seen       map[string]struct{} // lowercased highlight dedupe
}

func NewAccumulator() *Accumulator {
	return &Accumulator{seen: make(map[string]struct{})}
}

// Merge folds a partial update into the accumulated criteria and returns the
// keys that were applied, in a stable order, so the caller can start glow
// timers. Merge rules:
//
//   - Scalars overwrite when present (last writer wins), are untouched when
//     absent, and are never cleared by an update that omits them.
//   - Amenities and tags are unioned preserving first-seen order; repeats are
//     no-ops and do not re-glow.
//   - Enum values outside the closed sets and negative numbers are dropped
//     entry by entry rather than failing the merge.
func (a *Accumulator) Merge(u Update) []Key {
	a.mu.Lock()
	defer a.mu.Unlock()

	var changed []Key

	if u.Location != nil && strings.TrimSpace(u.Location.Value) != "" {
		v := u.Location.Value
		a.criteria.Location = &v
		changed = append(changed, KeyLocation)
		a.addHighlights(u.Location.SourceText)
	}
	if u.LocationRadiusKm != nil && u.LocationRadiusKm.Value >= 0 {
		v := u.LocationRadiusKm.Value
		a.criteria.LocationRadiusKm = &v
		changed = append(changed, KeyLocationRadiusKm)
		a.addHighlights(u.LocationRadiusKm.SourceText)
	}
	if u.PropertyType != nil {
		if pt, ok := ParsePropertyType(string(u.PropertyType.Value)); ok {
			a.criteria.PropertyType = &pt
			changed = append(changed, KeyPropertyType)
			a.addHighlights(u.PropertyType.SourceText)
		}
	}
	if u.ListingType != nil {
		if lt, ok := ParseListingType(string(u.ListingType.Value)); ok {
			a.criteria.ListingType = &lt
			changed = append(changed, KeyListingType)
			a.addHighlights(u.ListingType.SourceText)
		}
	}
	if u.PriceMin != nil && u.PriceMin.Value >= 0 {
		v := u.PriceMin.Value
		a.criteria.PriceMin = &v
		changed = append(changed, KeyPriceMin)
		a.addHighlights(u.PriceMin.SourceText)
	}
	if u.PriceMax != nil && u.PriceMax.Value >= 0 {
		v := u.PriceMax.Value
		a.criteria.PriceMax = &v
		changed = append(changed, KeyPriceMax)
		a.addHighlights(u.PriceMax.SourceText)
	}
	if u.BedroomsMin != nil && u.BedroomsMin.Value >= 0 {
		v := u.BedroomsMin.Value
		a.criteria.BedroomsMin = &v
		changed = append(changed, KeyBedroomsMin)
		a.addHighlights(u.BedroomsMin.SourceText)
	}
	if u.BathroomsMin != nil && u.BathroomsMin.Value >= 0 {
		v := u.BathroomsMin.Value
		a.criteria.BathroomsMin = &v
		changed = append(changed, KeyBathroomsMin)
		a.addHighlights(u.BathroomsMin.SourceText)
	}
	if u.SizeMin != nil && u.SizeMin.Value >= 0 {
		v := u.SizeMin.Value
		a.criteria.SizeMin = &v
		changed = append(changed, KeySizeMin)
		a.addHighlights(u.SizeMin.SourceText)
	}
	if u.SizeMax != nil && u.SizeMax.Value >= 0 {
		v := u.SizeMax.Value
		a.criteria.SizeMax = &v
		changed = append(changed, KeySizeMax)
		a.addHighlights(u.SizeMax.SourceText)
	}
	if u.Style != nil && strings.TrimSpace(u.Style.Value) != "" {
		v := u.Style.Value
		a.criteria.Style = &v
		changed = append(changed, KeyStyle)
		a.addHighlights(u.Style.SourceText)
	}

	if u.Amenities != nil {
		added := false
		for _, raw := range u.Amenities.Value {
			am, ok := ParseAmenity(string(raw))
			if !ok || a.criteria.HasAmenity(am) {
				continue
			}
			a.criteria.Amenities = append(a.criteria.Amenities, am)
			changed = append(changed, Key(am))
			added = true
		}
		if added {
			a.addHighlights(u.Amenities.SourceText)
		}
	}
	if u.Tags != nil {
		for _, raw := range u.Tags.Value {
			tag, ok := ParseTag(string(raw))
			if !ok || a.criteria.HasTag(tag) {
				continue
			}
			a.criteria.Tags = append(a.criteria.Tags, tag)
			changed = append(changed, Key(tag))
		}
	}

	return changed
}

// addHighlights unions source substrings into the session-wide highlight set,
// deduplicated case-insensitively. Caller holds a.mu.
func (a *Accumulator) addHighlights(source []string) {
	for _, s := range source {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		lower := strings.ToLower(s)
		if _, ok := a.seen[lower]; ok {
			continue
		}
		a.seen[lower] = struct{}{}
		a.highlights = append(a.highlights, s)
	}
}

// Snapshot returns a deep copy of the current criteria.
func (a *Accumulator) Snapshot() Criteria {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.criteria.clone()
}

// Highlights returns the union of all source substrings attributed so far,
// in first-seen order. The list persists for the whole session; it is not
// time-limited like the glow set.
func (a *Accumulator) Highlights() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.highlights...)
}

// Reset clears all accumulated criteria and highlight state except the
// permanent tags, which are toggled by direct user action and survive
// cancellation and new searches.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	tags := a.criteria.Tags
	a.criteria = Criteria{Tags: tags}
	a.highlights = nil
	a.seen = make(map[string]struct{})
}

// ToggleTag sets or unsets a permanent tag and reports whether the tag is
// present afterwards. Unknown tags are ignored and report false.
func (a *Accumulator) ToggleTag(t Tag) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	tag, ok := ParseTag(string(t))
	if !ok {
		return false
	}
	for i, x := range a.criteria.Tags {
		if x == tag {
			a.criteria.Tags = append(a.criteria.Tags[:i], a.criteria.Tags[i+1:]...)
			return false
		}
	}
	a.criteria.Tags = append(a.criteria.Tags, tag)
	return true
}
