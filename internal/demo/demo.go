// Package demo holds the idle-time demo reel: example phrases typed out
// character by character while no real search is running, each with scripted
// cues marking which criteria light up as the phrase grows. The reel is pure
// presentation data: it shares no state with the live session and is left
// permanently the first time real capture or text input occurs.
package demo

import "strings"

// Cue marks a keyword inside a demo phrase and the criteria it stands for.
type Cue struct {
	Keyword string
	Key     string // criteria key or amenity name, for display glow
	Value   string // display value
}

// Search is one scripted demo phrase with its cues.
type Search struct {
	Phrase string
	Cues   []Cue
}

// Reel is the built-in sequence of demo searches.
var Reel = []Search{
	{
		Phrase: "Find modern homes in Melbourne with a pool.",
		Cues: []Cue{
			{"modern", "Modern", "Modern"},
			{"homes", "propertyType", "House"},
			{"Melbourne", "location", "Melbourne"},
			{"pool", "Pool", "Pool"},
		},
	},
	{
		Phrase: "Apartments in Sydney with a city view for rent under $5,000 a month.",
		Cues: []Cue{
			{"Apartments", "propertyType", "Apartment"},
			{"Sydney", "location", "Sydney"},
			{"city view", "City View", "City View"},
			{"for rent", "listingType", "For Rent"},
			{"$5,000", "priceMax", "5000"},
		},
	},
	{
		Phrase: "A house in Brisbane with a garden and a garage.",
		Cues: []Cue{
			{"house", "propertyType", "House"},
			{"Brisbane", "location", "Brisbane"},
			{"garden", "Garden", "Garden"},
			{"garage", "Garage", "Garage"},
		},
	},
	{
		Phrase: "Pet-friendly townhouses in Perth near the waterfront.",
		Cues: []Cue{
			{"Pet-friendly", "Pets Allowed", "Pets Allowed"},
			{"townhouses", "propertyType", "Townhouse"},
			{"Perth", "location", "Perth"},
			{"waterfront", "Waterfront", "Waterfront"},
		},
	},
	{
		Phrase: "Three bedroom house for sale in Adelaide.",
		Cues: []Cue{
			{"Three bedroom", "bedroomsMin", "3"},
			{"house", "propertyType", "House"},
			{"for sale", "listingType", "For Sale"},
			{"Adelaide", "location", "Adelaide"},
		},
	},
	{
		Phrase: "Luxury penthouse with a gym and doorman in Gold Coast.",
		Cues: []Cue{
			{"penthouse", "propertyType", "Loft"},
			{"gym", "Gym", "Gym"},
			{"doorman", "Doorman", "Doorman"},
			{"Gold Coast", "location", "Gold Coast"},
		},
	},
	{
		Phrase: "A quiet two-bedroom apartment with a balcony in Canberra.",
		Cues: []Cue{
			{"two-bedroom", "bedroomsMin", "2"},
			{"apartment", "propertyType", "Apartment"},
			{"balcony", "Balcony", "Balcony"},
			{"Canberra", "location", "Canberra"},
		},
	},
	{
		Phrase: "Find me a property with AC, parking and a home office.",
		Cues: []Cue{
			{"AC", "AC", "AC"},
			{"parking", "Parking", "Parking"},
			{"home office", "Home Office", "Home Office"},
		},
	},
	{
		Phrase: "A furnished apartment with an elevator and security system.",
		Cues: []Cue{
			{"furnished", "Furnished", "Furnished"},
			{"apartment", "propertyType", "Apartment"},
			{"elevator", "Elevator", "Elevator"},
			{"security system", "Security System", "Security System"},
		},
	},
}

// Frame is one rendered step of the reel animation.
type Frame struct {
	Text  string // phrase prefix typed so far
	Cues  []Cue  // cues whose keyword is fully contained in Text
	Fresh []Cue  // cues that Text ends with, i.e. just recognized
}

// FrameAt computes the animation frame for phrase index p with n characters
// typed. Indices wrap, so callers can tick a counter forever.
func FrameAt(p, n int) Frame {
	if len(Reel) == 0 {
		return Frame{}
	}
	s := Reel[p%len(Reel)]
	if n > len(s.Phrase) {
		n = len(s.Phrase)
	}
	if n < 0 {
		n = 0
	}
	text := s.Phrase[:n]
	lower := strings.ToLower(text)

	f := Frame{Text: text}
	for _, cue := range s.Cues {
		kw := strings.ToLower(cue.Keyword)
		if !strings.Contains(lower, kw) {
			continue
		}
		f.Cues = append(f.Cues, cue)
		if strings.HasSuffix(lower, strings.TrimSpace(kw)) {
			f.Fresh = append(f.Fresh, cue)
		}
	}
	return f
}
