package generaterecommendations

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"sbdc-assessment/internal/common/errors"
	"sbdc-assessment/internal/common/logger"
	"sbdc-assessment/internal/common/metrics"
	"sbdc-assessment/internal/models"
	"sbdc-assessment/internal/services"
	"sbdc-assessment/pkg/questionnaire"

	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "generate-recommendations"

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_]+)\s*\}\}`)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
}

// GenerateRecommendations selects tone matrix text for the report's
// priority categories.
func (h *Handler) GenerateRecommendations(ctx context.Context, report models.AssessmentReport, catalyst string) (*models.Recommendations, error) {
	out, err := h.Execute(ctx, &Input{Report: report, Catalyst: catalyst})
	if err != nil {
		return nil, err
	}
	return &out.Recommendations, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (_ *Output, err error) {
	ctx, span, finish := services.Track(ctx, TaskType)
	defer func() { finish(err) }()

	catalyst := strings.TrimSpace(input.Catalyst)
	if catalyst == "" {
		catalyst = h.config.DefaultCatalyst
	}
	span.SetAttributes(attribute.String("assessment.catalyst", catalyst))

	categories := input.Report.PriorityCategories
	if n := h.config.MaxCategories; n > 0 && len(categories) > n {
		categories = categories[:n]
	}

	items := make([]models.Recommendation, 0, len(categories))
	for _, category := range categories {
		score, ok := input.Report.CategoryScores[category]
		if !ok {
			return nil, errors.NewValidationErrorf("priority category %q has no score", category)
		}

		template, level, found := h.lookup(catalyst, category, score.Tier)
		if !found {
			h.logger.Error("no tone entry for category", map[string]interface{}{
				"catalyst": catalyst,
				"category": category,
				"tier":     score.Tier,
			})
			return nil, errors.NewConfigurationError(fmt.Sprintf(
				"no recommendation for catalyst %q, category %q, tier %q and no default entry", catalyst, category, score.Tier))
		}
		metrics.ToneFallbacks.WithLabelValues(string(level)).Inc()

		items = append(items, models.Recommendation{
			Category: category,
			Tier:     score.Tier,
			Score:    score.NormalizedScore,
			Text: h.substitute(template, map[string]string{
				"category": category,
				"tier":     score.Tier,
				"score":    formatScore(score.NormalizedScore),
				"catalyst": catalyst,
			}),
		})
	}

	h.logger.Info("recommendations generated", map[string]interface{}{
		"catalyst": catalyst,
		"count":    len(items),
	})

	return &Output{Recommendations: models.Recommendations{
		Items:    items,
		Markdown: RenderMarkdown(items),
	}}, nil
}

// lookup tries (catalyst, category, tier), then the default catalyst, then
// the default tier, then both defaults.
func (h *Handler) lookup(catalyst, category, tier string) (string, FallbackLevel, bool) {
	store := h.config.Store
	candidates := []struct {
		catalyst, tier string
		level          FallbackLevel
	}{
		{catalyst, tier, LevelExact},
		{questionnaire.DefaultKey, tier, LevelDefaultCatalyst},
		{catalyst, questionnaire.DefaultKey, LevelDefaultTier},
		{questionnaire.DefaultKey, questionnaire.DefaultKey, LevelDefaultBoth},
	}
	for _, c := range candidates {
		if text, ok := store.Tone(c.catalyst, category, c.tier); ok {
			return text, c.level, true
		}
	}
	return "", "", false
}

// substitute replaces {{name}} placeholders; unknown names are left as written.
func (h *Handler) substitute(template string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.ToLower(placeholderPattern.FindStringSubmatch(match)[1])
		if v, ok := values[key]; ok {
			return v
		}
		return match
	})
}

// RenderMarkdown writes recommendations using only "### heading" lines and
// **bold** spans, one block per category separated by a blank line.
func RenderMarkdown(items []models.Recommendation) string {
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		var b strings.Builder
		fmt.Fprintf(&b, "### %s (%s)\n", item.Category, item.Tier)
		fmt.Fprintf(&b, "**Score:** %s/100\n", formatScore(item.Score))
		b.WriteString(strings.TrimSpace(item.Text))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func formatScore(score float64) string {
	return strconv.FormatFloat(math.Round(score), 'f', 0, 64)
}
