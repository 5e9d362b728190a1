// internal/services/reporting/render-pdf/canvas_fpdf.go
package renderpdf

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// fpdfCanvas draws with the core Helvetica fonts. fpdf measures y from the
// top edge, so y is flipped on the way in.
type fpdfCanvas struct {
	pdf       *fpdf.Fpdf
	height    float64
	translate func(string) string
}

type documentInfo struct {
	Title    string
	Creator  string
	Created  time.Time
	Compress bool
}

func newFPDFCanvas(g Geometry, info documentInfo) *fpdfCanvas {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(info.Compress)
	pdf.SetCreationDate(info.Created)
	pdf.SetTitle(info.Title, true)
	pdf.SetCreator(info.Creator, true)
	pdf.SetLineWidth(1)
	pdf.AddPage()

	return &fpdfCanvas{
		pdf:       pdf,
		height:    g.Height,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *fpdfCanvas) SetFont(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	c.pdf.SetFont("Helvetica", style, size)
}

func (c *fpdfCanvas) StringWidth(text string) float64 {
	return c.pdf.GetStringWidth(c.translate(text))
}

func (c *fpdfCanvas) DrawString(x, y float64, text string) {
	c.pdf.Text(x, c.height-y, c.translate(text))
}

func (c *fpdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, c.height-y1, x2, c.height-y2)
}

func (c *fpdfCanvas) ShowPage() {
	c.pdf.AddPage()
}

// Save writes the finished document. Any drawing error recorded by fpdf
// fails the save instead of producing a partial file.
func (c *fpdfCanvas) Save(w io.Writer) error {
	if err := c.pdf.Error(); err != nil {
		return err
	}
	return c.pdf.Output(w)
}
