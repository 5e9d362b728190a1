// internal/services/reporting/render-pdf/markdown.go
package renderpdf

import (
	"regexp"
	"strings"
)

var boldSpan = regexp.MustCompile(`\*\*.*?\*\*`)

// Segment is a run of text drawn in one weight.
type Segment struct {
	Text string
	Bold bool
}

// Line is one tokenized markdown line.
type Line struct {
	Heading  bool
	Segments []Segment
}

// ParseLine tokenizes one line of the supported markdown subset:
// "### heading" lines and **bold** spans. Anything else is plain text.
func ParseLine(text string) Line {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "###") {
		return Line{
			Heading:  true,
			Segments: []Segment{{Text: strings.TrimSpace(trimmed[3:]), Bold: true}},
		}
	}

	var segments []Segment
	last := 0
	for _, loc := range boldSpan.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		if inner := text[loc[0]+2 : loc[1]-2]; inner != "" {
			segments = append(segments, Segment{Text: inner, Bold: true})
		}
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return Line{Segments: segments}
}

// PlainText joins the segments without markup.
func (l Line) PlainText() string {
	var b strings.Builder
	for _, s := range l.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}
