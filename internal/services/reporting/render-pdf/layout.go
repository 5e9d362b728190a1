// internal/services/reporting/render-pdf/layout.go
package renderpdf

import (
	"io"
	"strings"
)

// Canvas is the drawing surface. Coordinates are points with the origin at
// the bottom-left of the page; y is the text baseline.
type Canvas interface {
	SetFont(bold bool, size float64)
	// StringWidth measures text in the current font.
	StringWidth(text string) float64
	DrawString(x, y float64, text string)
	Line(x1, y1, x2, y2 float64)
	ShowPage()
	Save(w io.Writer) error
}

type Geometry struct {
	Width, Height float64
	Left, Right   float64
	// Top is the distance from the top edge to the first baseline.
	Top float64
	// Bottom is the lowest baseline allowed for body text.
	Bottom float64
	// Leading is added to the font size to get the line height.
	Leading float64
	// BlankLine is the advance for an empty markdown line.
	BlankLine float64
	FooterY   float64
}

// LetterGeometry is US Letter with the report's fixed margins.
func LetterGeometry() Geometry {
	return Geometry{
		Width:     612,
		Height:    792,
		Left:      50,
		Right:     50,
		Top:       60,
		Bottom:    60,
		Leading:   4,
		BlankLine: 8,
		FooterY:   40,
	}
}

func (g Geometry) UsableWidth() float64 { return g.Width - g.Left - g.Right }

type State int

const (
	StateWritingBody State = iota
	// StateNearBottom: the cursor is below the bottom margin; the next draw
	// starts a new page.
	StateNearBottom
	StateNewPage
)

func (s State) String() string {
	switch s {
	case StateWritingBody:
		return "writing-body"
	case StateNearBottom:
		return "near-bottom"
	case StateNewPage:
		return "new-page"
	default:
		return "unknown"
	}
}

type font struct {
	bold bool
	size float64
}

// Layout places text on a Canvas top to bottom, breaking pages when the
// cursor drops below the bottom margin.
type Layout struct {
	canvas Canvas
	geo    Geometry
	y      float64
	font   font
	state  State
	pages  int
}

func NewLayout(c Canvas, g Geometry) *Layout {
	return &Layout{
		canvas: c,
		geo:    g,
		y:      g.Height - g.Top,
		state:  StateWritingBody,
		pages:  1,
	}
}

func (l *Layout) Y() float64 { return l.y }
func (l *Layout) State() State { return l.state }
func (l *Layout) Pages() int { return l.pages }
func (l *Layout) top() float64 { return l.geo.Height - l.geo.Top }
func (l *Layout) right() float64 { return l.geo.Width - l.geo.Right }

func (l *Layout) setFont(bold bool, size float64) {
	l.font = font{bold: bold, size: size}
	l.canvas.SetFont(bold, size)
}

// Space moves the cursor down without drawing.
func (l *Layout) Space(dy float64) {
	l.y -= dy
	if l.y < l.geo.Bottom {
		l.state = StateNearBottom
	}
}

func (l *Layout) ensurePage() {
	if l.state != StateNearBottom {
		return
	}
	l.state = StateNewPage
	l.canvas.ShowPage()
	l.pages++
	l.y = l.top()
	l.canvas.SetFont(l.font.bold, l.font.size)
	l.state = StateWritingBody
}

// Text draws a single unwrapped line at the left margin.
func (l *Layout) Text(text string, bold bool, size float64) {
	l.setFont(bold, size)
	l.ensurePage()
	l.canvas.DrawString(l.geo.Left, l.y, text)
}

// Rule draws a horizontal line across the usable width at the cursor.
func (l *Layout) Rule() {
	l.ensurePage()
	l.canvas.Line(l.geo.Left, l.y, l.right(), l.y)
}

// Markdown writes one markdown line with word wrapping. Headings use
// baseSize+1. An empty line only advances the cursor.
func (l *Layout) Markdown(text string, baseSize float64) {
	if strings.TrimSpace(text) == "" {
		l.Space(l.geo.BlankLine)
		return
	}
	l.WriteLine(ParseLine(text), baseSize)
}

// WriteLine lays out a tokenized line word by word. A word that would cross
// the right margin moves to a new line unless it is the first on its line.
func (l *Layout) WriteLine(line Line, baseSize float64) {
	size := baseSize
	if line.Heading {
		size = baseSize + 1
	}
	lineHeight := size + l.geo.Leading
	x := l.geo.Left

	for _, seg := range line.Segments {
		l.setFont(seg.Bold, size)
		for _, word := range strings.Fields(seg.Text) {
			w := l.canvas.StringWidth(word + " ")
			if x > l.geo.Left && x+w > l.right() {
				l.Space(lineHeight)
				x = l.geo.Left
			}
			l.ensurePage()
			l.canvas.DrawString(x, l.y, word)
			x += w
		}
	}
	l.Space(lineHeight)
}

// Footer draws text at the fixed footer baseline of the current page.
func (l *Layout) Footer(text string, size float64) {
	l.setFont(false, size)
	l.canvas.DrawString(l.geo.Left, l.geo.FooterY, text)
}
