// internal/services/reporting/render-pdf/config.go
package renderpdf

import (
	"fmt"
	"time"

	"sbdc-assessment/internal/common/config"
)

type Config struct {
	Title        string
	Filename     string
	BaseFontSize float64
	DateFormat   string
	Compress     bool
	Timeout      time.Duration
	Geometry     Geometry
	// Clock stamps the footer date; defaults to time.Now.
	Clock func() time.Time
	// Cache is optional.
	Cache RenderCache
}

func LoadConfig() *Config {
	return &Config{
		Title:        "SBDC Assessment Results",
		Filename:     "SBDC_Assessment_Results.pdf",
		BaseFontSize: 11,
		DateFormat:   "January 02, 2006",
		Compress:     true,
		Timeout:      10 * time.Second,
		Geometry:     LetterGeometry(),
		Clock:        time.Now,
	}
}

// NewConfig builds the renderer config from the application config.
func NewConfig(appConfig *config.Config) *Config {
	cfg := LoadConfig()
	pdf := appConfig.PDF
	if pdf.Title != "" {
		cfg.Title = pdf.Title
	}
	if pdf.Filename != "" {
		cfg.Filename = pdf.Filename
	}
	if pdf.BaseFontSize > 0 {
		cfg.BaseFontSize = pdf.BaseFontSize
	}
	if pdf.DateFormat != "" {
		cfg.DateFormat = pdf.DateFormat
	}
	if pdf.RenderTimeout > 0 {
		cfg.Timeout = config.GetDuration(pdf.RenderTimeout)
	}
	cfg.Compress = pdf.CompressOutput
	return cfg
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("render-pdf: config is required")
	}
	if c.BaseFontSize <= 0 {
		return fmt.Errorf("render-pdf: base font size must be positive")
	}
	if c.Geometry.UsableWidth() <= 0 || c.Geometry.Height <= c.Geometry.Top+c.Geometry.Bottom {
		return fmt.Errorf("render-pdf: page geometry leaves no room for text")
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return nil
}
