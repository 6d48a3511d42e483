// Package placeholder shields structured markup from LLM translation.
// Markdown reasoning bodies carry fenced code blocks, inline code spans,
// and HTML tags that must survive the round trip byte-for-byte; Protect
// swaps them for numbered [PHn] markers before the text is handed to a
// model, and Restore puts the originals back into the model's reply.
package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// fenced code blocks: ```...``` (non-greedy, may span lines)
	reFencedCode = regexp.MustCompile("(?s)```.*?```")

	// inline code spans: `...`
	reInlineCode = regexp.MustCompile("`[^`]+`")

	// HTML/XML tags: opening, closing, and self-closing
	reHTMLTag = regexp.MustCompile(`<[^>]+>`)

	// marker reference in translated text
	reMarker = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Protected is text with its markup swapped for [PHn] markers, plus the
// captured originals needed to reverse the substitution.
type Protected struct {
	// Text is the input with every protected span replaced by a marker.
	Text string

	markers []string
}

// Protect replaces structured markup (fenced code blocks, inline code,
// HTML tags) with numbered markers [PH0], [PH1], … in the order the
// spans appear in text.
func Protect(text string) Protected {
	p := Protected{}

	replace := func(match string) string {
		id := fmt.Sprintf("[PH%d]", len(p.markers))
		p.markers = append(p.markers, match)
		return id
	}

	// Order matters: fenced first (longest match), then inline, then HTML tags.
	text = reFencedCode.ReplaceAllStringFunc(text, replace)
	text = reInlineCode.ReplaceAllStringFunc(text, replace)
	text = reHTMLTag.ReplaceAllStringFunc(text, replace)

	p.Text = text
	return p
}

// Count reports how many spans Protect captured.
func (p Protected) Count() int {
	return len(p.markers)
}

// Restore substitutes [PHn] markers in translated back with the
// originals captured by Protect. Markers the model dropped simply stay
// absent; indices Protect never issued are left as-is.
func (p Protected) Restore(translated string) string {
	return reMarker.ReplaceAllStringFunc(translated, func(match string) string {
		sub := reMarker.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		idx := 0
		fmt.Sscanf(sub[1], "%d", &idx)
		if idx < 0 || idx >= len(p.markers) {
			return match
		}
		return p.markers[idx]
	})
}

// Missing returns the indices of markers that no longer appear in
// translated, so callers can log when a model mangled the markup.
func (p Protected) Missing(translated string) []int {
	var missing []int
	for i := range p.markers {
		if !strings.Contains(translated, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}

// InstructionHint returns a sentence to append to an LLM prompt so the
// model knows to leave markers intact.
func InstructionHint() string {
	return "Preserve all [PHn] markers exactly as they appear. Do not translate, move, or remove them."
}
