package tui

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/danmarauda/hausvoice/internal/demo"
	"github.com/danmarauda/hausvoice/internal/filter"
	"github.com/danmarauda/hausvoice/internal/results"
	"github.com/danmarauda/hausvoice/internal/session"
)

// RenderTranscript renders the rolling transcript with recognized substrings
// highlighted. Matching is case-insensitive; the original casing is kept.
func RenderTranscript(text string, highlights []string) string {
	if text == "" {
		return StyleSubtle.Render("Speak, or type a query...")
	}
	segments := splitHighlights(text, highlights)
	var b strings.Builder
	for _, seg := range segments {
		if seg.hit {
			b.WriteString(StyleHighlight.Render(seg.text))
		} else {
			b.WriteString(seg.text)
		}
	}
	return b.String()
}

type segment struct {
	text string
	hit  bool
}

// splitHighlights cuts text into plain and highlighted segments. Earlier,
// longer matches win; overlapping later matches are skipped.
func splitHighlights(text string, highlights []string) []segment {
	if len(highlights) == 0 {
		return []segment{{text: text}}
	}
	// Lowercasing can change a rune's byte length, so matches are found in a
	// lowered copy and mapped back through per-byte original offsets.
	lowered := make([]byte, 0, len(text))
	orig := make([]int, 0, len(text))
	for i, r := range text {
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], unicode.ToLower(r))
		for j := 0; j < n; j++ {
			lowered = append(lowered, buf[j])
			orig = append(orig, i)
		}
	}
	orig = append(orig, len(text))
	lower := string(lowered)

	marked := make([]bool, len(text))
	for _, h := range highlights {
		needle := strings.ToLower(strings.TrimSpace(h))
		if needle == "" {
			continue
		}
		from := 0
		for {
			i := strings.Index(lower[from:], needle)
			if i < 0 {
				break
			}
			start := from + i
			for j := orig[start]; j < orig[start+len(needle)]; j++ {
				marked[j] = true
			}
			from = start + len(needle)
		}
	}

	var segs []segment
	var cur strings.Builder
	curHit := false
	for i, r := range []byte(text) {
		if i == 0 {
			curHit = marked[0]
		}
		if marked[i] != curHit {
			segs = append(segs, segment{text: cur.String(), hit: curHit})
			cur.Reset()
			curHit = marked[i]
		}
		cur.WriteByte(r)
	}
	if cur.Len() > 0 {
		segs = append(segs, segment{text: cur.String(), hit: curHit})
	}
	return segs
}

// RenderCriteria renders the recognized criteria as labeled cards, amenity
// chips and tag chips. Keys in glowing get the glow style.
func RenderCriteria(c filter.Criteria, glowing []filter.Key) string {
	glow := make(map[filter.Key]bool, len(glowing))
	for _, k := range glowing {
		glow[k] = true
	}

	var lines []string
	for _, k := range filter.ScalarKeys {
		v := filter.FormatValue(c, k)
		if v == "" {
			continue
		}
		label := StyleMuted.Render(filter.KeyLabel(k) + ":")
		value := StyleLabel.Render(v)
		if glow[k] {
			value = StyleGlow.Render(v)
		}
		lines = append(lines, label+" "+value)
	}

	var chips []string
	for _, a := range c.Amenities {
		if glow[filter.Key(a)] {
			chips = append(chips, StyleChipGlow.Render(a.Label()))
		} else {
			chips = append(chips, StyleChip.Render(a.Label()))
		}
	}
	for _, t := range c.Tags {
		chips = append(chips, StyleChip.Render("#"+string(t)))
	}
	if len(chips) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, joinChips(chips)...))
	}

	if len(lines) == 0 {
		return StyleSubtle.Render("No criteria recognized yet.")
	}
	return strings.Join(lines, "\n")
}

func joinChips(chips []string) []string {
	out := make([]string, 0, len(chips)*2)
	for i, ch := range chips {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, ch)
	}
	return out
}

// RenderListings renders projected search results as bordered cards.
func RenderListings(listings []results.Listing) string {
	if len(listings) == 0 {
		return StyleSubtle.Render("No results yet.")
	}
	cards := make([]string, 0, len(listings))
	for _, l := range listings {
		var b strings.Builder
		title := StyleLabel.Render(l.Title)
		if l.Tag != "" {
			title += " " + StyleChipGlow.Render(l.Tag)
		}
		b.WriteString(title + "\n")
		b.WriteString(StyleMuted.Render(l.Location) + "\n")
		b.WriteString(StyleSuccess.Render(l.Price) + "  " + StyleMuted.Render(l.Details))
		if l.TourAvailable {
			b.WriteString("\n" + StyleSubtle.Render("3D tour available"))
		}
		cards = append(cards, StyleBox.Render(b.String()))
	}
	return strings.Join(cards, "\n")
}

// RenderStatus renders the one-line status header.
func RenderStatus(st session.Status) string {
	switch st {
	case session.StatusDemo:
		return StyleSubtle.Render("demo: press l to start a real search")
	case session.StatusListening:
		return StyleSuccess.Render("● listening")
	case session.StatusProcessing:
		return StyleWarning.Render("◐ processing")
	case session.StatusConfirming:
		return StyleHighlight.Render("? ready: say \"find my haus\" or press f")
	case session.StatusDone:
		return StyleSuccess.Render("✓ search complete")
	default:
		return StyleMuted.Render("idle")
	}
}

// RenderDemoFrame renders one step of the demo reel: the phrase typed so far
// with cue keywords highlighted, plus chips for every cue already revealed.
func RenderDemoFrame(f demo.Frame) string {
	keywords := make([]string, 0, len(f.Cues))
	for _, c := range f.Cues {
		keywords = append(keywords, c.Keyword)
	}
	var b strings.Builder
	b.WriteString(RenderTranscript(f.Text, keywords))
	if len(f.Cues) > 0 {
		b.WriteString("\n\n")
		chips := make([]string, 0, len(f.Cues))
		for _, c := range f.Cues {
			label := fmt.Sprintf("%s: %s", c.Key, c.Value)
			if isFresh(f.Fresh, c) {
				chips = append(chips, StyleChipGlow.Render(label))
			} else {
				chips = append(chips, StyleChip.Render(label))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, joinChips(chips)...))
	}
	return b.String()
}

func isFresh(fresh []demo.Cue, c demo.Cue) bool {
	for _, f := range fresh {
		if f.Keyword == c.Keyword {
			return true
		}
	}
	return false
}
