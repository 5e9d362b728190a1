// internal/services/scoring/calculate-scores/handler.go
package calculatescores

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
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

const (
	TaskType = "calculate-scores"
)

type Handler struct {
	store  *questionnaire.Store
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Handler{
		store:  config.Store,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
}

// CalculateScores scores resp against the questionnaire.
func (h *Handler) CalculateScores(ctx context.Context, resp models.AssessmentResponse) (*models.AssessmentReport, error) {
	out, err := h.Execute(ctx, &Input{Catalyst: resp.Catalyst, Answers: resp.Answers})
	if err != nil {
		return nil, err
	}
	return &out.Report, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (_ *Output, err error) {
	ctx, span, finish := services.Track(ctx, TaskType)
	defer func() { finish(err) }()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.logger.Warn("scoring rejected", map[string]interface{}{
			"catalyst": input.Catalyst,
			"error":    err,
		})
		return nil, err
	}

	span.SetAttributes(
		attribute.Float64("assessment.overall_score", output.Report.OverallScore),
		attribute.String("assessment.overall_tier", output.Report.OverallTier),
		attribute.Int("assessment.ignored_questions", len(output.IgnoredQuestions)),
	)
	metrics.OverallScores.Observe(output.Report.OverallScore)
	metrics.OverallTiers.WithLabelValues(output.Report.OverallTier).Inc()
	return output, nil
}

type tally struct {
	sum      float64
	answered int
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	// Sorted ids keep error messages and float summation order stable.
	ids := make([]string, 0, len(input.Answers))
	for id := range input.Answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tallies := make(map[string]*tally)
	var ignored, problems []string

	for _, id := range ids {
		q, category, ok := h.store.Lookup(id)
		if !ok {
			ignored = append(ignored, id)
			continue
		}

		value, err := h.parseValue(input.Answers[id])
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		if value < q.ScaleMin || value > q.ScaleMax {
			problems = append(problems, fmt.Sprintf("%s: value %v outside scale [%v, %v]", id, value, q.ScaleMin, q.ScaleMax))
			continue
		}

		t := tallies[category]
		if t == nil {
			t = &tally{}
			tallies[category] = t
		}
		t.sum += value / q.ScaleMax * 100
		t.answered++
	}

	if len(problems) > 0 {
		return nil, errors.NewValidationError(strings.Join(problems, "; "))
	}

	categories := h.store.Categories()
	report := models.AssessmentReport{
		CategoryScores: make(map[string]models.CategoryScore, len(categories)),
		CategoryOrder:  make([]string, 0, len(categories)),
	}

	var weighted, totalWeight float64
	for _, c := range categories {
		score := models.CategoryScore{TotalQuestions: len(c.Questions)}
		if t := tallies[c.Name]; t != nil {
			score.NormalizedScore = h.clamp(t.sum/float64(t.answered), 0, 100)
			score.QuestionsAnswered = t.answered
			weighted += score.NormalizedScore * c.Weight
			totalWeight += c.Weight
		}
		score.Tier = h.store.TiersFor(c.Name).Tier(score.NormalizedScore)

		report.CategoryScores[c.Name] = score
		report.CategoryOrder = append(report.CategoryOrder, c.Name)
	}

	// Categories without answers carry no weight; nothing answered scores 0.
	if totalWeight > 0 {
		report.OverallScore = h.clamp(weighted/totalWeight, 0, 100)
	}
	report.OverallTier = h.store.GlobalTiers().Tier(report.OverallScore)
	report.PriorityCategories = h.rankPriorities(report)

	if len(ignored) > 0 {
		h.logger.Debug("ignored unknown question ids", map[string]interface{}{
			"questionIds": ignored,
		})
	}
	h.logger.Info("scores calculated", map[string]interface{}{
		"catalyst":     input.Catalyst,
		"overallScore": report.OverallScore,
		"overallTier":  report.OverallTier,
		"answered":     len(ids) - len(ignored),
	})

	return &Output{Report: report, IgnoredQuestions: ignored}, nil
}

// rankPriorities orders categories worst first; ties keep configuration order.
func (h *Handler) rankPriorities(report models.AssessmentReport) []string {
	names := append([]string(nil), report.CategoryOrder...)
	sort.SliceStable(names, func(i, j int) bool {
		return report.CategoryScores[names[i]].NormalizedScore < report.CategoryScores[names[j]].NormalizedScore
	})
	return names
}

func (h *Handler) parseValue(raw interface{}) (float64, error) {
	var (
		v   float64
		err error
	)
	switch t := raw.(type) {
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int64:
		v = float64(t)
	case json.Number:
		v, err = t.Float64()
	case string:
		cleaned := strings.TrimSpace(t)
		if cleaned == "" {
			return 0, fmt.Errorf("empty value")
		}
		v, err = strconv.ParseFloat(cleaned, 64)
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("not a number: %T", raw)
	}
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", fmt.Sprint(raw))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}

func (h *Handler) clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
