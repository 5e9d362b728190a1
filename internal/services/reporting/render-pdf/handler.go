// internal/services/reporting/render-pdf/handler.go
package renderpdf

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"sbdc-assessment/internal/common/errors"
	"sbdc-assessment/internal/common/logger"
	"sbdc-assessment/internal/common/metrics"
	"sbdc-assessment/internal/services"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "render-pdf"

const (
	titleSize   = 18
	summarySize = 12
	sectionSize = 14
	footerSize  = 8
)

type Handler struct {
	config    *Config
	logger    logger.Logger
	newCanvas func(Geometry, documentInfo) Canvas
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Handler{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		newCanvas: fpdfCanvasFactory,
	}, nil
}

func fpdfCanvasFactory(g Geometry, info documentInfo) Canvas {
	return newFPDFCanvas(g, info)
}

func (h *Handler) Filename() string { return h.config.Filename }

// Render turns an export payload into a complete PDF document.
func (h *Handler) Render(ctx context.Context, payload []byte) ([]byte, error) {
	out, err := h.Execute(ctx, &Input{Payload: payload})
	if err != nil {
		return nil, err
	}
	return out.PDF, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (_ *Output, err error) {
	ctx, span, finish := services.Track(ctx, TaskType)
	defer func() { finish(err) }()

	if !gjson.ValidBytes(input.Payload) || !gjson.ParseBytes(input.Payload).IsObject() {
		return nil, errors.NewInvalidPayloadError(fmt.Errorf("export payload must be a JSON object"))
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	now := h.config.Clock()
	key := h.cacheKey(input.Payload, now)

	if h.config.Cache != nil {
		cached, ok, cacheErr := h.config.Cache.Get(ctx, key)
		switch {
		case cacheErr != nil:
			metrics.RenderCacheRequests.WithLabelValues("error").Inc()
			h.logger.Warn("render cache lookup failed", map[string]interface{}{"error": cacheErr})
		case ok:
			metrics.RenderCacheRequests.WithLabelValues("hit").Inc()
			span.SetAttributes(attribute.Bool("pdf.cached", true))
			return &Output{PDF: cached, Filename: h.config.Filename, Cached: true}, nil
		default:
			metrics.RenderCacheRequests.WithLabelValues("miss").Inc()
		}
	}

	doc := parsePayload(input.Payload)
	pdf, pages, err := h.renderDocument(ctx, doc, now)
	if err != nil {
		h.logger.Error("pdf render failed", map[string]interface{}{"error": err})
		return nil, errors.NewRenderError(err)
	}

	metrics.PDFBytes.Observe(float64(len(pdf)))
	metrics.PDFPages.Observe(float64(pages))
	span.SetAttributes(attribute.Int("pdf.pages", pages), attribute.Int("pdf.bytes", len(pdf)))

	if h.config.Cache != nil {
		if cacheErr := h.config.Cache.Set(ctx, key, pdf); cacheErr != nil {
			h.logger.Warn("render cache store failed", map[string]interface{}{"error": cacheErr})
		}
	}

	h.logger.Info("pdf rendered", map[string]interface{}{
		"pages": pages,
		"bytes": len(pdf),
	})
	return &Output{PDF: pdf, Filename: h.config.Filename, Pages: pages}, nil
}

// renderDocument draws onto a fresh canvas. A panic inside the drawing
// backend becomes an error and no bytes are returned.
func (h *Handler) renderDocument(ctx context.Context, doc reportDocument, now time.Time) (pdf []byte, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pdf, pages, err = nil, 0, fmt.Errorf("drawing panicked: %v", r)
		}
	}()

	canvas := h.newCanvas(h.config.Geometry, documentInfo{
		Title:    h.config.Title,
		Creator:  "sbdc-assessment",
		Created:  now,
		Compress: h.config.Compress,
	})
	layout, err := h.draw(ctx, canvas, doc, now)
	if err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	if err := canvas.Save(&buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), layout.Pages(), nil
}

// draw lays out the fixed report structure: title and rule, summary,
// optional category details, recommendations, footer.
func (h *Handler) draw(ctx context.Context, c Canvas, doc reportDocument, now time.Time) (*Layout, error) {
	l := NewLayout(c, h.config.Geometry)
	base := h.config.BaseFontSize

	l.Text(h.config.Title, true, titleSize)
	l.Space(25)
	l.Rule()
	l.Space(20)

	l.Text("Catalyst: "+doc.Catalyst, true, summarySize)
	l.Space(20)
	l.Text("Overall Score: "+doc.OverallScore, false, summarySize)
	l.Space(18)
	l.Text("Overall Tier: "+doc.OverallTier, false, summarySize)
	l.Space(25)

	if doc.HasDetails {
		l.Text("Category Details", true, sectionSize)
		l.Space(15)
		for _, line := range doc.Details {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			l.Markdown(line, base)
		}
		l.Space(10)
	}

	l.Text("Recommendations", true, sectionSize)
	l.Space(15)
	for _, line := range doc.Recommendations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l.Markdown(line, base)
	}

	l.Footer("Generated "+now.Format(h.config.DateFormat), footerSize)
	return l, nil
}

func (h *Handler) cacheKey(payload []byte, now time.Time) string {
	sum := sha256.New()
	sum.Write(payload)
	sum.Write([]byte{0})
	sum.Write([]byte(h.config.Title))
	sum.Write([]byte{0})
	sum.Write([]byte(strconv.FormatFloat(h.config.BaseFontSize, 'f', -1, 64)))
	sum.Write([]byte{0})
	sum.Write([]byte(now.Format("2006-01-02")))
	return hex.EncodeToString(sum.Sum(nil))
}
